package request

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Legajo   string `json:"legajo"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the request body for changing the own password
type ChangePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// AnswerRequest is the request body for answering the current quiz
// question. A null answer means the timer ran out without a selection.
type AnswerRequest struct {
	Answer *string `json:"answer"`
}

// SelectNumberRequest is the request body for claiming a raffle number
type SelectNumberRequest struct {
	Number int `json:"number"`
}

// CreateUserRequest is the request body for registering a user
type CreateUserRequest struct {
	Legajo         string `json:"legajo"`
	Username       string `json:"username"`
	Role           string `json:"role,omitempty"`
	UserType       string `json:"user_type,omitempty"`
	SeniorityScore int    `json:"seniority_score,omitempty"`
	Password       string `json:"password,omitempty"`
}

// AdjustScoreRequest is the request body for adjusting a score bucket
type AdjustScoreRequest struct {
	Bucket string `json:"bucket"`
	Amount int    `json:"amount"`
}

// QuestionPayload is a question within a trivia create/update request
type QuestionPayload struct {
	Text          string   `json:"text"`
	ImageURL      string   `json:"image_url,omitempty"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Timer         int      `json:"timer"`
	Points        int      `json:"points"`
}

// TriviaRequest is the request body for creating or updating a trivia
type TriviaRequest struct {
	Name      string            `json:"name"`
	Questions []QuestionPayload `json:"questions"`
}

// PrizeRequest is the request body for creating or updating a prize
type PrizeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Cost        int    `json:"cost"`
	ProductURL  string `json:"product_url,omitempty"`
}

// UpdateConfigRequest is the request body for replacing the global config.
// Version is the version the client last read; a mismatch is rejected.
type UpdateConfigRequest struct {
	ActiveTriviaIDs   []string `json:"active_trivia_ids"`
	RaffleEnabled     bool     `json:"raffle_enabled"`
	PrizeURLsEnabled  bool     `json:"prize_urls_enabled"`
	TriviaPointsLimit *int     `json:"trivia_points_limit"`
	Version           int64    `json:"version"`
}

// ToggleRequest is the request body for boolean config toggles
type ToggleRequest struct {
	Enabled bool `json:"enabled"`
}

// PointsLimitRequest is the request body for setting the trivia points cap
type PointsLimitRequest struct {
	Limit *int `json:"limit"`
}

// ActiveTriviasRequest is the request body for replacing the active set
type ActiveTriviasRequest struct {
	TriviaIDs []string `json:"trivia_ids"`
}
