package stats

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/trivia-wager/backend/internal/models"
)

type Handler struct {
	ledger *Ledger
}

func NewHandler(ledger *Ledger) *Handler {
	return &Handler{ledger: ledger}
}

// RegisterRoutes registers the stats endpoints on the protected subrouter.
func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/stats", h.GetStats).Methods("GET")
	protected.HandleFunc("/stats/reset", h.ResetPoints).Methods("POST")
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	s, err := h.ledger.Read(userID)
	if errors.Is(err, ErrStatsNotFound) {
		log.Printf("[stats] missing stats row for user %d", userID)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "User stats not found"})
		return
	}
	if err != nil {
		log.Printf("[stats] GetStats error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get stats"})
		return
	}

	writeJSON(w, http.StatusOK, models.StatsResponse{
		TotalPoints:     s.TotalPoints,
		GamesPlayed:     s.GamesPlayed,
		CorrectCount:    s.CorrectCount,
		IncorrectCount:  s.IncorrectCount,
		Accuracy:        Accuracy(s.CorrectCount, s.IncorrectCount),
		RetryCount:      s.RetryCount,
		NextRetryPoints: RetryAmount(s.RetryCount),
	})
}

func (h *Handler) ResetPoints(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	s, err := h.ledger.ApplyRetryGrant(userID)
	if errors.Is(err, ErrStatsNotFound) {
		log.Printf("[stats] missing stats row for user %d", userID)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "User stats not found"})
		return
	}
	if err != nil {
		log.Printf("[stats] ResetPoints error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to reset points"})
		return
	}

	writeJSON(w, http.StatusOK, models.ResetResponse{
		Message:         "Points reset",
		TotalPoints:     s.TotalPoints,
		RetryCount:      s.RetryCount,
		NextRetryPoints: RetryAmount(s.RetryCount),
	})
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
