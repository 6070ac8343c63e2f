package game

import (
	"context"
	"sync"

	"github.com/trivia-wager/backend/internal/models"
)

// PendingStore holds at most one in-flight round per user. Put replaces any
// existing entry; Take atomically removes the entry only when its question ID
// matches, which makes a settled round's removal the idempotency boundary for
// answer submissions.
type PendingStore interface {
	Put(ctx context.Context, userID int64, round models.PendingRound) error
	Get(ctx context.Context, userID int64) (models.PendingRound, bool, error)
	Take(ctx context.Context, userID int64, questionID string) (models.PendingRound, bool, error)
	Delete(ctx context.Context, userID int64) error
}

// MemoryPendingStore is the single-process backend: a mutex-guarded map.
// Entries never expire; a crash loses in-flight rounds.
type MemoryPendingStore struct {
	mu     sync.RWMutex
	rounds map[int64]models.PendingRound
}

func NewMemoryPendingStore() *MemoryPendingStore {
	return &MemoryPendingStore{rounds: make(map[int64]models.PendingRound)}
}

func (s *MemoryPendingStore) Put(ctx context.Context, userID int64, round models.PendingRound) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds[userID] = round
	return nil
}

func (s *MemoryPendingStore) Get(ctx context.Context, userID int64) (models.PendingRound, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	round, ok := s.rounds[userID]
	return round, ok, nil
}

func (s *MemoryPendingStore) Take(ctx context.Context, userID int64, questionID string) (models.PendingRound, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	round, ok := s.rounds[userID]
	if !ok || round.QuestionID != questionID {
		return models.PendingRound{}, false, nil
	}
	delete(s.rounds, userID)
	return round, true, nil
}

func (s *MemoryPendingStore) Delete(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rounds, userID)
	return nil
}
