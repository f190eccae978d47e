package model

// GlobalConfig is the singleton event configuration document.
// Version increments on every save so concurrent admin edits are detected
// instead of silently last-write-wins.
type GlobalConfig struct {
	ActiveTriviaIDs  []TriviaID `json:"active_trivia_ids"`
	RaffleEnabled    bool       `json:"raffle_enabled"`
	PrizeURLsEnabled bool       `json:"prize_urls_enabled"`
	// TriviaPointsLimit caps the derived trivia score; nil means unlimited
	TriviaPointsLimit *int  `json:"trivia_points_limit"`
	Version           int64 `json:"version"`
}

// DefaultGlobalConfig returns the config created lazily on first access
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		ActiveTriviaIDs:   []TriviaID{},
		RaffleEnabled:     false,
		PrizeURLsEnabled:  true,
		TriviaPointsLimit: nil,
		Version:           1,
	}
}

// IsActive reports whether the given trivia is currently playable
func (c *GlobalConfig) IsActive(triviaID TriviaID) bool {
	for _, id := range c.ActiveTriviaIDs {
		if id == triviaID {
			return true
		}
	}
	return false
}
