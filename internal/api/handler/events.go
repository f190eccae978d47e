package handler

import (
	"net/http"

	"github.com/edsafest/trivia-service/internal/api/middleware"
	"github.com/edsafest/trivia-service/internal/sse"
)

// EventsHandler serves the SSE stream
type EventsHandler struct {
	hub *sse.Hub
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub *sse.Hub) *EventsHandler {
	return &EventsHandler{
		hub: hub,
	}
}

// Stream handles GET /api/v1/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())
	sse.ServeSSE(w, r, h.hub, userID)
}
