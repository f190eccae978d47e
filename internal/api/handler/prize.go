package handler

import (
	"net/http"

	"github.com/edsafest/trivia-service/internal/api/response"
	"github.com/edsafest/trivia-service/internal/services/prize"
)

// PrizeHandler handles the player-facing prize catalog
type PrizeHandler struct {
	prizeService *prize.Service
}

// NewPrizeHandler creates a new prize handler
func NewPrizeHandler(prizeService *prize.Service) *PrizeHandler {
	return &PrizeHandler{
		prizeService: prizeService,
	}
}

// List handles GET /api/v1/prizes. Product URLs are subject to the
// visibility toggle.
func (h *PrizeHandler) List(w http.ResponseWriter, r *http.Request) {
	prizes, err := h.prizeService.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PrizesFromModels(prizes))
}
