package game

import (
	"encoding/json"
	"log"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/trivia-wager/backend/internal/models"
)

type categoryLister interface {
	Categories() []string
}

type Handler struct {
	coordinator *Coordinator
	bank        categoryLister
}

func NewHandler(coordinator *Coordinator, bank categoryLister) *Handler {
	return &Handler{coordinator: coordinator, bank: bank}
}

// RegisterRoutes registers the game endpoints on the protected subrouter.
func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/game/categories", h.GetCategories).Methods("GET")
	protected.HandleFunc("/game/wager", h.StartRound).Methods("POST")
	protected.HandleFunc("/game/submit", h.SubmitAnswer).Methods("POST")
	protected.HandleFunc("/game/pending", h.GetPending).Methods("GET")
	protected.HandleFunc("/game/pending", h.AbandonPending).Methods("DELETE")
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories := h.bank.Categories()
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, models.CategoriesResponse{Categories: categories})
}

func (h *Handler) StartRound(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.WagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.Category == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Category is required"})
		return
	}
	if req.Wager != math.Trunc(req.Wager) || math.IsInf(req.Wager, 0) || math.IsNaN(req.Wager) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: ErrInvalidWager.Error()})
		return
	}

	question, err := h.coordinator.StartRound(r.Context(), userID, req.Category, int(req.Wager))
	if err != nil {
		if IsDomainError(err) {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
			return
		}
		log.Printf("[game] StartRound error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to start round"})
		return
	}

	writeJSON(w, http.StatusOK, question)
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.QuestionID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "questionId is required"})
		return
	}
	if req.ChosenIndex < 0 || req.ChosenIndex != math.Trunc(req.ChosenIndex) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "chosenIndex must be a non-negative integer"})
		return
	}

	result, err := h.coordinator.SubmitAnswer(r.Context(), userID, req.QuestionID, int(req.ChosenIndex))
	if err != nil {
		if IsDomainError(err) {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
			return
		}
		log.Printf("[game] SubmitAnswer error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to submit answer"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) GetPending(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	pending, err := h.coordinator.HasPendingRound(r.Context(), userID)
	if err != nil {
		log.Printf("[game] GetPending error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to check pending round"})
		return
	}

	writeJSON(w, http.StatusOK, models.PendingResponse{Pending: pending})
}

func (h *Handler) AbandonPending(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	if err := h.coordinator.ClearPendingRound(r.Context(), userID); err != nil {
		log.Printf("[game] AbandonPending error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to abandon round"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Pending round cleared"})
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
