package game

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/trivia-wager/backend/internal/models"
)

// fakeLedger applies round outcomes in memory with the same floor-at-zero
// semantics as the SQL ledger.
type fakeLedger struct {
	stats models.UserStats
}

func (f *fakeLedger) Read(userID int64) (models.UserStats, error) {
	return f.stats, nil
}

func (f *fakeLedger) ApplyRoundOutcome(userID int64, wager int, correct bool) (models.UserStats, error) {
	if correct {
		f.stats.TotalPoints += wager
		f.stats.CorrectCount++
	} else {
		f.stats.TotalPoints -= wager
		if f.stats.TotalPoints < 0 {
			f.stats.TotalPoints = 0
		}
		f.stats.IncorrectCount++
	}
	f.stats.GamesPlayed++
	return f.stats, nil
}

func newTestCoordinator(balance int, bank stubBank) (*Coordinator, *fakeLedger, *stubHistory) {
	ledger := &fakeLedger{stats: models.UserStats{UserID: 1, TotalPoints: balance}}
	history := newStubHistory()
	selector := NewSelector(bank, history, rand.New(rand.NewSource(1)))
	c := NewCoordinator(selector, ledger, bank, history, NewMemoryPendingStore())
	return c, ledger, history
}

func scienceBank() stubBank {
	return stubBank{"Science": []models.TriviaQuestion{
		{
			ID:           "sci-1",
			Category:     "Science",
			Text:         "What is H2O?",
			Options:      []string{"Salt", "Water", "Sugar"},
			CorrectIndex: 1,
		},
	}}
}

func TestStartRoundRejectsNonPositiveWager(t *testing.T) {
	c, _, _ := newTestCoordinator(100, scienceBank())

	for _, wager := range []int{0, -5} {
		_, err := c.StartRound(context.Background(), 1, "Science", wager)
		if !errors.Is(err, ErrInvalidWager) {
			t.Errorf("StartRound(wager=%d) error = %v, want ErrInvalidWager", wager, err)
		}
	}
}

func TestStartRoundRejectsWagerOverBalance(t *testing.T) {
	c, _, _ := newTestCoordinator(100, scienceBank())

	_, err := c.StartRound(context.Background(), 1, "Science", 150)
	var balanceErr *WagerExceedsBalanceError
	if !errors.As(err, &balanceErr) {
		t.Fatalf("StartRound error = %v, want WagerExceedsBalanceError", err)
	}
	if balanceErr.Wager != 150 || balanceErr.Balance != 100 {
		t.Errorf("error carries %d/%d, want 150/100", balanceErr.Wager, balanceErr.Balance)
	}
	// The client-facing message must show both values.
	if !strings.Contains(err.Error(), "150") || !strings.Contains(err.Error(), "100") {
		t.Errorf("error message %q missing wager or balance", err.Error())
	}
}

func TestStartRoundUnknownCategory(t *testing.T) {
	c, _, _ := newTestCoordinator(100, scienceBank())

	_, err := c.StartRound(context.Background(), 1, "Sports", 10)
	var nqe *NoQuestionsError
	if !errors.As(err, &nqe) {
		t.Fatalf("StartRound error = %v, want NoQuestionsError", err)
	}
}

func TestStartRoundReturnsQuestionWithoutAnswer(t *testing.T) {
	c, _, _ := newTestCoordinator(100, scienceBank())

	q, err := c.StartRound(context.Background(), 1, "Science", 30)
	if err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	if q.QuestionID != "sci-1" || q.Text == "" {
		t.Errorf("unexpected question payload: %+v", q)
	}
	if len(q.Options) < 2 {
		t.Errorf("question has %d options, want at least 2", len(q.Options))
	}
}

func TestSubmitCorrectAnswer(t *testing.T) {
	c, ledger, history := newTestCoordinator(100, scienceBank())
	ctx := context.Background()

	if _, err := c.StartRound(ctx, 1, "Science", 30); err != nil {
		t.Fatalf("StartRound: %v", err)
	}

	result, err := c.SubmitAnswer(ctx, 1, "sci-1", 1)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	if !result.Correct {
		t.Error("result.Correct = false, want true")
	}
	if result.PointsChange != 30 {
		t.Errorf("PointsChange = %d, want 30", result.PointsChange)
	}
	if result.NewTotal != 130 {
		t.Errorf("NewTotal = %d, want 130", result.NewTotal)
	}
	if result.CorrectAnswer != "Water" {
		t.Errorf("CorrectAnswer = %q, want %q", result.CorrectAnswer, "Water")
	}
	if ledger.stats.GamesPlayed != 1 || ledger.stats.CorrectCount != 1 || ledger.stats.IncorrectCount != 0 {
		t.Errorf("ledger counters = %+v, want 1 played / 1 correct", ledger.stats)
	}
	if len(history.recorded) != 1 || history.recorded[0] != "sci-1" {
		t.Errorf("history recorded %v, want [sci-1]", history.recorded)
	}
}

func TestSubmitWrongAnswer(t *testing.T) {
	c, ledger, _ := newTestCoordinator(100, scienceBank())
	ctx := context.Background()

	c.StartRound(ctx, 1, "Science", 30)
	result, err := c.SubmitAnswer(ctx, 1, "sci-1", 0)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	if result.Correct {
		t.Error("result.Correct = true, want false")
	}
	if result.PointsChange != -30 {
		t.Errorf("PointsChange = %d, want -30", result.PointsChange)
	}
	if result.NewTotal != 70 {
		t.Errorf("NewTotal = %d, want 70", result.NewTotal)
	}
	if ledger.stats.IncorrectCount != 1 || ledger.stats.GamesPlayed != 1 {
		t.Errorf("ledger counters = %+v, want 1 played / 1 incorrect", ledger.stats)
	}
}

func TestLossFloorsAtZero(t *testing.T) {
	c, _, _ := newTestCoordinator(20, scienceBank())
	ctx := context.Background()

	c.StartRound(ctx, 1, "Science", 20)
	result, err := c.SubmitAnswer(ctx, 1, "sci-1", 2)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if result.NewTotal != 0 {
		t.Errorf("NewTotal = %d, want 0", result.NewTotal)
	}
	if result.PointsChange != -20 {
		t.Errorf("PointsChange = %d, want -20", result.PointsChange)
	}
}

func TestSubmitTwiceFails(t *testing.T) {
	c, _, _ := newTestCoordinator(100, scienceBank())
	ctx := context.Background()

	c.StartRound(ctx, 1, "Science", 10)
	if _, err := c.SubmitAnswer(ctx, 1, "sci-1", 1); err != nil {
		t.Fatalf("first SubmitAnswer: %v", err)
	}

	_, err := c.SubmitAnswer(ctx, 1, "sci-1", 1)
	if !errors.Is(err, ErrNoPendingRound) {
		t.Errorf("second SubmitAnswer error = %v, want ErrNoPendingRound", err)
	}
}

func TestSubmitMismatchedQuestionID(t *testing.T) {
	c, _, _ := newTestCoordinator(100, scienceBank())
	ctx := context.Background()

	c.StartRound(ctx, 1, "Science", 10)

	_, err := c.SubmitAnswer(ctx, 1, "some-other-question", 1)
	if !errors.Is(err, ErrNoPendingRound) {
		t.Fatalf("SubmitAnswer error = %v, want ErrNoPendingRound", err)
	}

	// The real round is still live and can be answered.
	if _, err := c.SubmitAnswer(ctx, 1, "sci-1", 1); err != nil {
		t.Errorf("SubmitAnswer after stale submit: %v", err)
	}
}

func TestSubmitWithoutRoundFails(t *testing.T) {
	c, _, _ := newTestCoordinator(100, scienceBank())

	_, err := c.SubmitAnswer(context.Background(), 1, "sci-1", 1)
	if !errors.Is(err, ErrNoPendingRound) {
		t.Errorf("SubmitAnswer error = %v, want ErrNoPendingRound", err)
	}
}

func TestStartRoundReplacesPendingRound(t *testing.T) {
	bank := stubBank{"Science": []models.TriviaQuestion{
		{ID: "sci-1", Category: "Science", Text: "?", Options: []string{"a", "b"}, CorrectIndex: 0},
	}, "History": []models.TriviaQuestion{
		{ID: "his-1", Category: "History", Text: "?", Options: []string{"a", "b"}, CorrectIndex: 0},
	}}
	c, _, _ := newTestCoordinator(100, bank)
	ctx := context.Background()

	c.StartRound(ctx, 1, "Science", 10)
	c.StartRound(ctx, 1, "History", 20)

	// The first round was silently discarded.
	if _, err := c.SubmitAnswer(ctx, 1, "sci-1", 0); !errors.Is(err, ErrNoPendingRound) {
		t.Errorf("submit against replaced round error = %v, want ErrNoPendingRound", err)
	}

	result, err := c.SubmitAnswer(ctx, 1, "his-1", 0)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if result.PointsChange != 20 {
		t.Errorf("PointsChange = %d, want 20 (the replacing round's wager)", result.PointsChange)
	}
}

func TestCorrectAnswerFallsBackToUnknown(t *testing.T) {
	c, _, _ := newTestCoordinator(100, scienceBank())
	ctx := context.Background()

	c.StartRound(ctx, 1, "Science", 10)

	// Swap the answer-lookup out from under the coordinator to simulate the
	// question disappearing between wager and submission.
	c.bank = stubBank{}

	result, err := c.SubmitAnswer(ctx, 1, "sci-1", 1)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if result.CorrectAnswer != "Unknown" {
		t.Errorf("CorrectAnswer = %q, want %q", result.CorrectAnswer, "Unknown")
	}
	if !result.Correct {
		t.Error("the round should still settle correctly")
	}
}

func TestPendingRoundLifecycle(t *testing.T) {
	c, _, _ := newTestCoordinator(100, scienceBank())
	ctx := context.Background()

	if pending, _ := c.HasPendingRound(ctx, 1); pending {
		t.Error("new user has a pending round")
	}

	c.StartRound(ctx, 1, "Science", 10)
	if pending, _ := c.HasPendingRound(ctx, 1); !pending {
		t.Error("no pending round after StartRound")
	}

	if err := c.ClearPendingRound(ctx, 1); err != nil {
		t.Fatalf("ClearPendingRound: %v", err)
	}
	if pending, _ := c.HasPendingRound(ctx, 1); pending {
		t.Error("pending round survived ClearPendingRound")
	}
	if _, err := c.SubmitAnswer(ctx, 1, "sci-1", 1); !errors.Is(err, ErrNoPendingRound) {
		t.Errorf("submit after abandon error = %v, want ErrNoPendingRound", err)
	}
}

// Full wager scenario: fresh balance of 100, win 30 on Science, then get
// rejected wagering 200 with the balance unchanged.
func TestWagerScenario(t *testing.T) {
	c, ledger, _ := newTestCoordinator(100, scienceBank())
	ctx := context.Background()

	if _, err := c.StartRound(ctx, 1, "Science", 30); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	result, err := c.SubmitAnswer(ctx, 1, "sci-1", 1)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if result.NewTotal != 130 {
		t.Fatalf("NewTotal = %d, want 130", result.NewTotal)
	}
	if ledger.stats.GamesPlayed != 1 || ledger.stats.CorrectCount != 1 {
		t.Errorf("ledger = %+v, want 1 played / 1 correct", ledger.stats)
	}

	_, err = c.StartRound(ctx, 1, "Science", 200)
	var balanceErr *WagerExceedsBalanceError
	if !errors.As(err, &balanceErr) {
		t.Fatalf("StartRound error = %v, want WagerExceedsBalanceError", err)
	}
	if ledger.stats.TotalPoints != 130 {
		t.Errorf("balance changed to %d after rejected wager, want 130", ledger.stats.TotalPoints)
	}
}
