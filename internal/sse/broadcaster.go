package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/edsafest/trivia-service/internal/model"
)

// Event names streamed to clients
const (
	EventConfig  = "config-update"
	EventRaffle  = "raffle-update"
	EventScore   = "score-update"
	EventTrivias = "trivias-update"
	EventPrizes  = "prizes-update"
)

// Broadcaster publishes state-change events to SSE clients. Handlers call
// it after a successful mutation so connected clients track the live state
// without polling.
type Broadcaster struct {
	hub    *Hub
	logger *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:    hub,
		logger: logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// BroadcastConfig broadcasts the new global configuration
func (b *Broadcaster) BroadcastConfig(cfg *model.GlobalConfig) {
	b.broadcastJSON(EventConfig, cfg)
}

// RaffleChange describes one change to the raffle board
type RaffleChange struct {
	Action string       `json:"action"` // "claimed", "freed" or "reset"
	Number int          `json:"number,omitempty"`
	UserID model.UserID `json:"user_id,omitempty"`
}

// BroadcastRaffleClaimed broadcasts that a number was taken
func (b *Broadcaster) BroadcastRaffleClaimed(number int, userID model.UserID) {
	b.broadcastJSON(EventRaffle, RaffleChange{Action: "claimed", Number: number, UserID: userID})
}

// BroadcastRaffleFreed broadcasts that a number was released
func (b *Broadcaster) BroadcastRaffleFreed(number int) {
	b.broadcastJSON(EventRaffle, RaffleChange{Action: "freed", Number: number})
}

// BroadcastRaffleReset broadcasts that the board was cleared
func (b *Broadcaster) BroadcastRaffleReset() {
	b.broadcastJSON(EventRaffle, RaffleChange{Action: "reset"})
}

// ScoreChange carries a user's new total after any score mutation
type ScoreChange struct {
	UserID model.UserID `json:"user_id"`
	Score  int          `json:"score"`
}

// BroadcastScore broadcasts a user's updated total score
func (b *Broadcaster) BroadcastScore(userID model.UserID, score int) {
	b.broadcastJSON(EventScore, ScoreChange{UserID: userID, Score: score})
}

// BroadcastTriviasChanged signals that the trivia catalog changed;
// clients refetch the list
func (b *Broadcaster) BroadcastTriviasChanged() {
	b.hub.BroadcastEvent(EventTrivias, "changed")
}

// BroadcastPrizesChanged signals that the prize catalog changed;
// clients refetch the list
func (b *Broadcaster) BroadcastPrizesChanged() {
	b.hub.BroadcastEvent(EventPrizes, "changed")
}

func (b *Broadcaster) broadcastJSON(eventName string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("sse failed to marshal event",
			slog.String("event", eventName),
			slog.Any("error", err))
		return
	}
	b.hub.BroadcastEvent(eventName, string(data))
}
