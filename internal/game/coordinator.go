package game

import (
	"context"
	"log"
	"sync"

	"github.com/trivia-wager/backend/internal/models"
)

// Ledger is the slice of the stats ledger the coordinator needs.
type Ledger interface {
	Read(userID int64) (models.UserStats, error)
	ApplyRoundOutcome(userID int64, wager int, correct bool) (models.UserStats, error)
}

type answerLookup interface {
	Find(category, id string) (models.TriviaQuestion, bool)
}

type recorder interface {
	Record(userID int64, questionID string) error
}

// Coordinator drives the round lifecycle: wager validation, question
// selection, pending-round registration, answer evaluation, ledger update and
// history recording. Each user is Idle or AwaitingAnswer; at most one round
// is in flight per user.
type Coordinator struct {
	selector *Selector
	ledger   Ledger
	bank     answerLookup
	history  recorder
	pending  PendingStore

	mu        sync.Mutex
	userLocks map[int64]*sync.Mutex
}

func NewCoordinator(selector *Selector, ledger Ledger, bank answerLookup, history recorder, pending PendingStore) *Coordinator {
	return &Coordinator{
		selector:  selector,
		ledger:    ledger,
		bank:      bank,
		history:   history,
		pending:   pending,
		userLocks: make(map[int64]*sync.Mutex),
	}
}

// lockUser serializes round operations per user; cross-user calls only
// contend on the short map lookup.
func (c *Coordinator) lockUser(userID int64) func() {
	c.mu.Lock()
	lock, ok := c.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		c.userLocks[userID] = lock
	}
	c.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// StartRound validates the wager against the user's balance, picks a
// question, and registers the pending round. Any round already awaiting an
// answer for this user is replaced.
func (c *Coordinator) StartRound(ctx context.Context, userID int64, category string, wager int) (models.QuestionResponse, error) {
	if wager <= 0 {
		return models.QuestionResponse{}, ErrInvalidWager
	}

	unlock := c.lockUser(userID)
	defer unlock()

	stats, err := c.ledger.Read(userID)
	if err != nil {
		return models.QuestionResponse{}, err
	}
	if wager > stats.TotalPoints {
		return models.QuestionResponse{}, &WagerExceedsBalanceError{Wager: wager, Balance: stats.TotalPoints}
	}

	question, err := c.selector.Pick(userID, category)
	if err != nil {
		return models.QuestionResponse{}, err
	}

	if old, ok, _ := c.pending.Get(ctx, userID); ok {
		log.Printf("[game] user %d replacing pending round %s with %s", userID, old.QuestionID, question.ID)
	}

	err = c.pending.Put(ctx, userID, models.PendingRound{
		QuestionID:   question.ID,
		CorrectIndex: question.CorrectIndex,
		Wager:        wager,
		Category:     category,
	})
	if err != nil {
		return models.QuestionResponse{}, err
	}

	return models.QuestionResponse{
		QuestionID: question.ID,
		Text:       question.Text,
		Options:    question.Options,
	}, nil
}

// SubmitAnswer settles the pending round. The round is removed before the
// outcome is applied, so a retried submission always fails with
// ErrNoPendingRound rather than double-settling.
func (c *Coordinator) SubmitAnswer(ctx context.Context, userID int64, questionID string, chosenIndex int) (models.RoundResult, error) {
	unlock := c.lockUser(userID)
	defer unlock()

	round, ok, err := c.pending.Take(ctx, userID, questionID)
	if err != nil {
		return models.RoundResult{}, err
	}
	if !ok {
		return models.RoundResult{}, ErrNoPendingRound
	}

	correct := chosenIndex == round.CorrectIndex
	pointsChange := round.Wager
	if !correct {
		pointsChange = -round.Wager
	}

	stats, err := c.ledger.ApplyRoundOutcome(userID, round.Wager, correct)
	if err != nil {
		return models.RoundResult{}, err
	}

	if err := c.history.Record(userID, questionID); err != nil {
		log.Printf("WARN: failed to record recent question: %v", err)
	}

	// Display only: a question missing from the bank is a data inconsistency,
	// not a reason to fail the settled round.
	correctAnswer := "Unknown"
	if q, found := c.bank.Find(round.Category, questionID); found && round.CorrectIndex < len(q.Options) {
		correctAnswer = q.Options[round.CorrectIndex]
	}

	return models.RoundResult{
		Correct:       correct,
		PointsChange:  pointsChange,
		CorrectAnswer: correctAnswer,
		NewTotal:      stats.TotalPoints,
	}, nil
}

// HasPendingRound reports whether the user is awaiting an answer, so a client
// can resume after a reload.
func (c *Coordinator) HasPendingRound(ctx context.Context, userID int64) (bool, error) {
	_, ok, err := c.pending.Get(ctx, userID)
	return ok, err
}

// ClearPendingRound abandons the user's in-flight round, forfeiting nothing.
func (c *Coordinator) ClearPendingRound(ctx context.Context, userID int64) error {
	unlock := c.lockUser(userID)
	defer unlock()
	return c.pending.Delete(ctx, userID)
}
