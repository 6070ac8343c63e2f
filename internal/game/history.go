package game

import (
	"database/sql"
	"fmt"
)

// History is the append-only log of recently-asked question IDs per user.
// Entries are never updated or deleted; recency is bounded by the query
// limit, not by pruning.
type History struct {
	db *sql.DB
}

func NewHistory(db *sql.DB) *History {
	return &History{db: db}
}

// RecentIDs returns the question IDs of the limit most-recent entries for a
// user, deduplicated into a set.
func (h *History) RecentIDs(userID int64, limit int) (map[string]struct{}, error) {
	rows, err := h.db.Query(
		`SELECT question_id FROM recent_questions
		 WHERE user_id = $1
		 ORDER BY asked_at DESC, id DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent questions: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan recent question: %w", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// Record appends one asking event with the current time.
func (h *History) Record(userID int64, questionID string) error {
	_, err := h.db.Exec(
		`INSERT INTO recent_questions (user_id, question_id) VALUES ($1, $2)`,
		userID, questionID,
	)
	if err != nil {
		return fmt.Errorf("record recent question: %w", err)
	}
	return nil
}
