package models

// TriviaQuestion is a single question as loaded from a category JSON file.
// Immutable once loaded; the question bank is the only owner.
type TriviaQuestion struct {
	ID           string   `json:"id"`
	Category     string   `json:"category"`
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

// PendingRound is the server-held record of an in-flight round, keyed by
// user. It exists only between the wager and the answer submission.
type PendingRound struct {
	QuestionID   string `json:"questionId"`
	CorrectIndex int    `json:"correctIndex"`
	Wager        int    `json:"wager"`
	Category     string `json:"category"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// WagerRequest carries the raw wager as a float so the handler can reject
// non-integer values instead of silently truncating them.
type WagerRequest struct {
	Category string  `json:"category"`
	Wager    float64 `json:"wager"`
}

// QuestionResponse is what the client sees after placing a wager.
// The correct index is deliberately absent.
type QuestionResponse struct {
	QuestionID string   `json:"questionId"`
	Text       string   `json:"text"`
	Options    []string `json:"options"`
}

type SubmitRequest struct {
	QuestionID  string  `json:"questionId"`
	ChosenIndex float64 `json:"chosenIndex"`
}

type RoundResult struct {
	Correct       bool   `json:"correct"`
	PointsChange  int    `json:"pointsChange"`
	CorrectAnswer string `json:"correctAnswer"`
	NewTotal      int    `json:"newTotal"`
}

type PendingResponse struct {
	Pending bool `json:"pending"`
}
