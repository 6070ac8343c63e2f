package stats

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/trivia-wager/backend/internal/models"
)

// ErrStatsNotFound indicates a registered user has no stats row. Registration
// always seeds one, so hitting this means the data is inconsistent.
var ErrStatsNotFound = errors.New("user stats not found")

// StartingPoints is the balance every new user begins with.
const StartingPoints = 100

// Ledger is the persisted per-user aggregate counters: points, games played,
// correct/incorrect counts and retry grants. All mutations are single-statement
// updates so concurrent requests for one user cannot lose an update.
type Ledger struct {
	db *sql.DB
}

func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

const statsColumns = `user_id, total_points, games_played, correct_count, incorrect_count, retry_count`

// CreateForUser seeds the stats row inside the registration transaction.
func (l *Ledger) CreateForUser(tx *sql.Tx, userID int64) error {
	_, err := tx.Exec(
		`INSERT INTO stats (user_id, total_points) VALUES ($1, $2)`,
		userID, StartingPoints,
	)
	if err != nil {
		return fmt.Errorf("create stats: %w", err)
	}
	return nil
}

func (l *Ledger) Read(userID int64) (models.UserStats, error) {
	var s models.UserStats
	err := l.db.QueryRow(
		`SELECT `+statsColumns+` FROM stats WHERE user_id = $1`,
		userID,
	).Scan(&s.UserID, &s.TotalPoints, &s.GamesPlayed, &s.CorrectCount, &s.IncorrectCount, &s.RetryCount)
	if err == sql.ErrNoRows {
		return models.UserStats{}, ErrStatsNotFound
	}
	if err != nil {
		return models.UserStats{}, fmt.Errorf("read stats: %w", err)
	}
	return s, nil
}

// ApplyRoundOutcome settles a wager in one atomic update. A win adds the
// wager, a loss subtracts it floored at zero; games_played always advances.
func (l *Ledger) ApplyRoundOutcome(userID int64, wager int, correct bool) (models.UserStats, error) {
	var s models.UserStats
	err := l.db.QueryRow(
		`UPDATE stats SET
		    total_points    = CASE WHEN $2 THEN total_points + $3 ELSE GREATEST(0, total_points - $3) END,
		    games_played    = games_played + 1,
		    correct_count   = correct_count + CASE WHEN $2 THEN 1 ELSE 0 END,
		    incorrect_count = incorrect_count + CASE WHEN $2 THEN 0 ELSE 1 END
		 WHERE user_id = $1
		 RETURNING `+statsColumns,
		userID, correct, wager,
	).Scan(&s.UserID, &s.TotalPoints, &s.GamesPlayed, &s.CorrectCount, &s.IncorrectCount, &s.RetryCount)
	if err == sql.ErrNoRows {
		return models.UserStats{}, ErrStatsNotFound
	}
	if err != nil {
		return models.UserStats{}, fmt.Errorf("apply round outcome: %w", err)
	}
	return s, nil
}

// ApplyRetryGrant restores a user's balance with a diminishing amount per use.
// The SET expressions read the pre-update retry_count, so the grant amount is
// computed from the count before this grant.
func (l *Ledger) ApplyRetryGrant(userID int64) (models.UserStats, error) {
	var s models.UserStats
	err := l.db.QueryRow(
		`UPDATE stats SET
		    total_points = GREATEST(10, 50 - retry_count * 10),
		    retry_count  = retry_count + 1
		 WHERE user_id = $1
		 RETURNING `+statsColumns,
		userID,
	).Scan(&s.UserID, &s.TotalPoints, &s.GamesPlayed, &s.CorrectCount, &s.IncorrectCount, &s.RetryCount)
	if err == sql.ErrNoRows {
		return models.UserStats{}, ErrStatsNotFound
	}
	if err != nil {
		return models.UserStats{}, fmt.Errorf("apply retry grant: %w", err)
	}
	return s, nil
}
