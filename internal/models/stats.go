package models

// UserStats mirrors one row of the stats table.
// Invariant: games_played == correct_count + incorrect_count after every
// completed round, and total_points never goes below zero.
type UserStats struct {
	UserID         int64 `json:"user_id"`
	TotalPoints    int   `json:"total_points"`
	GamesPlayed    int   `json:"games_played"`
	CorrectCount   int   `json:"correct_count"`
	IncorrectCount int   `json:"incorrect_count"`
	RetryCount     int   `json:"retry_count"`
}

type StatsResponse struct {
	TotalPoints     int `json:"totalPoints"`
	GamesPlayed     int `json:"gamesPlayed"`
	CorrectCount    int `json:"correctCount"`
	IncorrectCount  int `json:"incorrectCount"`
	Accuracy        int `json:"accuracy"`
	RetryCount      int `json:"retryCount"`
	NextRetryPoints int `json:"nextRetryPoints"`
}

type ResetResponse struct {
	Message         string `json:"message"`
	TotalPoints     int    `json:"totalPoints"`
	RetryCount      int    `json:"retryCount"`
	NextRetryPoints int    `json:"nextRetryPoints"`
}
