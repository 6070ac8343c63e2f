package game

import (
	"math/rand"
	"sync"

	"github.com/trivia-wager/backend/internal/models"
)

// RecentWindow is the number of most-recent history entries considered when
// steering selection away from repeats.
const RecentWindow = 20

type questionSource interface {
	QuestionsOf(category string) []models.TriviaQuestion
}

type recentLister interface {
	RecentIDs(userID int64, limit int) (map[string]struct{}, error)
}

// Selector picks one question from a category, preferring questions the user
// has not seen within the recency window. The policy is soft: when every
// candidate was recently asked it wraps around to the full list rather than
// failing.
type Selector struct {
	bank    questionSource
	history recentLister
	window  int

	mu  sync.Mutex // rand.Rand is not safe for concurrent use
	rng *rand.Rand
}

func NewSelector(bank questionSource, history recentLister, rng *rand.Rand) *Selector {
	return &Selector{bank: bank, history: history, window: RecentWindow, rng: rng}
}

func (s *Selector) Pick(userID int64, category string) (models.TriviaQuestion, error) {
	candidates := s.bank.QuestionsOf(category)
	if len(candidates) == 0 {
		return models.TriviaQuestion{}, &NoQuestionsError{Category: category}
	}

	recent, err := s.history.RecentIDs(userID, s.window)
	if err != nil {
		return models.TriviaQuestion{}, err
	}

	var pool []models.TriviaQuestion
	for _, q := range candidates {
		if _, seen := recent[q.ID]; !seen {
			pool = append(pool, q)
		}
	}

	// All candidates were recently asked: allow repeats.
	if len(pool) == 0 {
		pool = candidates
	}

	s.mu.Lock()
	idx := s.rng.Intn(len(pool))
	s.mu.Unlock()

	return pool[idx], nil
}
