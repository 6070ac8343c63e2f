package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWager is returned for zero, negative or non-integer wagers.
	ErrInvalidWager = errors.New("wager must be a positive integer")
	// ErrNoPendingRound is returned when an answer arrives without a matching
	// in-flight round, including retried submissions of an already-settled one.
	ErrNoPendingRound = errors.New("no pending round found for this question")
)

// WagerExceedsBalanceError carries both values for client display.
type WagerExceedsBalanceError struct {
	Wager   int
	Balance int
}

func (e *WagerExceedsBalanceError) Error() string {
	return fmt.Sprintf("wager (%d) exceeds available points (%d)", e.Wager, e.Balance)
}

// NoQuestionsError indicates a category with no loaded questions.
type NoQuestionsError struct {
	Category string
}

func (e *NoQuestionsError) Error() string {
	return fmt.Sprintf("no questions available for category: %s", e.Category)
}

// IsDomainError reports whether err is a business-rule violation the caller
// can act on, as opposed to an internal failure.
func IsDomainError(err error) bool {
	var balanceErr *WagerExceedsBalanceError
	var questionsErr *NoQuestionsError
	return errors.Is(err, ErrInvalidWager) ||
		errors.Is(err, ErrNoPendingRound) ||
		errors.As(err, &balanceErr) ||
		errors.As(err, &questionsErr)
}
