package handler

import (
	"encoding/json"
	"net/http"

	"github.com/edsafest/trivia-service/internal/api/middleware"
	"github.com/edsafest/trivia-service/internal/api/request"
	"github.com/edsafest/trivia-service/internal/api/response"
	"github.com/edsafest/trivia-service/internal/services/raffle"
	"github.com/edsafest/trivia-service/internal/sse"
)

// RaffleHandler handles the raffle board endpoints
type RaffleHandler struct {
	raffleService *raffle.Service
	broadcaster   *sse.Broadcaster
}

// NewRaffleHandler creates a new raffle handler
func NewRaffleHandler(raffleService *raffle.Service, broadcaster *sse.Broadcaster) *RaffleHandler {
	return &RaffleHandler{
		raffleService: raffleService,
		broadcaster:   broadcaster,
	}
}

// Board handles GET /api/v1/raffle
func (h *RaffleHandler) Board(w http.ResponseWriter, r *http.Request) {
	board, err := h.raffleService.Board(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RaffleBoardFromService(board))
}

// Select handles POST /api/v1/raffle/select
func (h *RaffleHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req request.SelectNumberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	userID := middleware.MustGetUserID(r.Context())
	if err := h.raffleService.SelectNumber(r.Context(), userID, req.Number); err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.BroadcastRaffleClaimed(req.Number, userID)
	response.NoContent(w)
}
