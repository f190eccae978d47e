package response

import (
	"time"

	"github.com/edsafest/trivia-service/internal/model"
	"github.com/edsafest/trivia-service/internal/services/auth"
	"github.com/edsafest/trivia-service/internal/services/game"
	"github.com/edsafest/trivia-service/internal/services/quiz"
	"github.com/edsafest/trivia-service/internal/services/raffle"
)

// Profile is the authenticated user's own view of their account
type Profile struct {
	ID               string     `json:"id"`
	Legajo           string     `json:"legajo"`
	Username         string     `json:"username"`
	Role             string     `json:"role"`
	UserType         string     `json:"user_type"`
	Score            int        `json:"score"`
	CompletedTrivias []string   `json:"completed_trivias"`
	RaffleNumber     *int       `json:"raffle_number,omitempty"`
	LastLogin        *time.Time `json:"last_login,omitempty"`
}

// ProfileFromModel converts a model.User to a Profile
func ProfileFromModel(u *model.User) Profile {
	completed := make([]string, 0, len(u.CompletedTrivias))
	for _, id := range u.CompletedTrivias {
		completed = append(completed, string(id))
	}
	return Profile{
		ID:               string(u.ID),
		Legajo:           u.Legajo,
		Username:         u.Username,
		Role:             string(u.Role),
		UserType:         string(u.UserType),
		Score:            u.Score,
		CompletedTrivias: completed,
		RaffleNumber:     u.RaffleNumber,
		LastLogin:        u.LastLogin,
	}
}

// AuthResponse is the response for the login endpoint
type AuthResponse struct {
	Profile            Profile `json:"profile"`
	SessionToken       string  `json:"session_token"`
	MustChangePassword bool    `json:"must_change_password"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Profile:            ProfileFromModel(&s.User),
		SessionToken:       s.Token,
		MustChangePassword: s.MustChangePassword,
	}
}

// User is the admin view of an account, including score buckets
type User struct {
	ID               string     `json:"id"`
	Legajo           string     `json:"legajo"`
	Username         string     `json:"username"`
	Role             string     `json:"role"`
	UserType         string     `json:"user_type"`
	Score            int        `json:"score"`
	SeniorityScore   int        `json:"seniority_score"`
	PeladoScore      int        `json:"pelado_score"`
	RaffleScore      int        `json:"raffle_score"`
	TriviaScore      int        `json:"trivia_score"`
	CompletedTrivias []string   `json:"completed_trivias"`
	RaffleNumber     *int       `json:"raffle_number,omitempty"`
	LastLogin        *time.Time `json:"last_login,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// UserFromModel converts a model.User to the admin view
func UserFromModel(u *model.User) User {
	completed := make([]string, 0, len(u.CompletedTrivias))
	for _, id := range u.CompletedTrivias {
		completed = append(completed, string(id))
	}
	return User{
		ID:               string(u.ID),
		Legajo:           u.Legajo,
		Username:         u.Username,
		Role:             string(u.Role),
		UserType:         string(u.UserType),
		Score:            u.Score,
		SeniorityScore:   u.SeniorityScore,
		PeladoScore:      u.PeladoScore,
		RaffleScore:      u.RaffleScore,
		TriviaScore:      u.TriviaScore(),
		CompletedTrivias: completed,
		RaffleNumber:     u.RaffleNumber,
		LastLogin:        u.LastLogin,
		CreatedAt:        u.CreatedAt,
	}
}

// UsersFromModels converts a list of users
func UsersFromModels(users []*model.User) []User {
	out := make([]User, 0, len(users))
	for _, u := range users {
		out = append(out, UserFromModel(u))
	}
	return out
}

// TriviaSummary is the player-facing view of a trivia: question content
// stays hidden until the quiz serves it
type TriviaSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	QuestionCount int    `json:"question_count"`
	TotalPoints   int    `json:"total_points"`
	Completed     bool   `json:"completed"`
}

// TriviaSummaryFromModel converts a trivia to its player-facing summary
func TriviaSummaryFromModel(t *model.Trivia, completed bool) TriviaSummary {
	return TriviaSummary{
		ID:            string(t.ID),
		Name:          t.Name,
		QuestionCount: len(t.Questions),
		TotalPoints:   t.TotalPoints(),
		Completed:     completed,
	}
}

// Question is the admin view of a question, correct answer included
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	ImageURL      string   `json:"image_url,omitempty"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Timer         int      `json:"timer"`
	Points        int      `json:"points"`
}

// Trivia is the admin view of a trivia
type Trivia struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
}

// TriviaFromModel converts a trivia to the admin view
func TriviaFromModel(t *model.Trivia) Trivia {
	questions := make([]Question, 0, len(t.Questions))
	for _, q := range t.Questions {
		questions = append(questions, Question{
			ID:            string(q.ID),
			Text:          q.Text,
			ImageURL:      q.ImageURL,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Timer:         q.Timer,
			Points:        q.Points,
		})
	}
	return Trivia{
		ID:        string(t.ID),
		Name:      t.Name,
		Questions: questions,
	}
}

// QuizQuestion is the live question shown to a player mid-quiz
type QuizQuestion struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	ImageURL string   `json:"image_url,omitempty"`
	Options  []string `json:"options"`
	Timer    int      `json:"timer"`
	Points   int      `json:"points"`
	Index    int      `json:"index"`
	Total    int      `json:"total"`
}

// QuizSnapshot is the quiz state returned by start/current/advance
type QuizSnapshot struct {
	TriviaID   string        `json:"trivia_id"`
	TriviaName string        `json:"trivia_name"`
	State      string        `json:"state"`
	Question   *QuizQuestion `json:"question,omitempty"`
	Remaining  int           `json:"remaining"`
	Resumed    bool          `json:"resumed,omitempty"`
}

// QuizSnapshotFromService converts a quiz snapshot
func QuizSnapshotFromService(s *quiz.Snapshot) QuizSnapshot {
	out := QuizSnapshot{
		TriviaID:   string(s.TriviaID),
		TriviaName: s.TriviaName,
		State:      string(s.State),
		Remaining:  s.Remaining,
		Resumed:    s.Resumed,
	}
	if s.Question != nil {
		out.Question = &QuizQuestion{
			ID:       string(s.Question.ID),
			Text:     s.Question.Text,
			ImageURL: s.Question.ImageURL,
			Options:  s.Question.Options,
			Timer:    s.Question.Timer,
			Points:   s.Question.Points,
			Index:    s.Question.Index,
			Total:    s.Question.Total,
		}
	}
	return out
}

// AnswerResult is the response after answering a question: the correct
// answer is revealed so the client can show it during the reveal pause
type AnswerResult struct {
	Outcome       string `json:"outcome"`
	Correct       bool   `json:"correct"`
	Awarded       int    `json:"awarded"`
	TotalScore    int    `json:"total_score"`
	CorrectAnswer string `json:"correct_answer"`
	TimedOut      bool   `json:"timed_out,omitempty"`
	LastQuestion  bool   `json:"last_question"`
}

// AnswerResultFromService converts an answer outcome
func AnswerResultFromService(o *quiz.AnswerOutcome) AnswerResult {
	return AnswerResult{
		Outcome:       string(o.Result.Outcome),
		Correct:       o.Result.Correct,
		Awarded:       o.Result.Awarded,
		TotalScore:    o.Result.TotalScore,
		CorrectAnswer: o.Result.CorrectAnswer,
		TimedOut:      o.TimedOut,
		LastQuestion:  o.LastQuestion,
	}
}

// QuestionResult is one question's outcome in the results view
type QuestionResult struct {
	QuestionID string `json:"question_id"`
	Text       string `json:"text"`
	Points     int    `json:"points"`
	Answered   bool   `json:"answered"`
	Correct    bool   `json:"correct"`
}

// Results is the per-trivia results view
type Results struct {
	TriviaID    string           `json:"trivia_id"`
	TriviaName  string           `json:"trivia_name"`
	TriviaScore int              `json:"trivia_score"`
	MaxScore    int              `json:"max_score"`
	Questions   []QuestionResult `json:"questions"`
	Completed   bool             `json:"completed"`
}

// ResultsFromService converts trivia results
func ResultsFromService(r *game.Results) Results {
	questions := make([]QuestionResult, 0, len(r.Questions))
	for _, q := range r.Questions {
		questions = append(questions, QuestionResult{
			QuestionID: string(q.QuestionID),
			Text:       q.Text,
			Points:     q.Points,
			Answered:   q.Answered,
			Correct:    q.Correct,
		})
	}
	return Results{
		TriviaID:    string(r.TriviaID),
		TriviaName:  r.TriviaName,
		TriviaScore: r.TriviaScore,
		MaxScore:    r.MaxScore,
		Questions:   questions,
		Completed:   r.Completed,
	}
}

// Prize is a catalog entry
type Prize struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Cost        int    `json:"cost"`
	ProductURL  string `json:"product_url,omitempty"`
}

// PrizeFromModel converts a prize
func PrizeFromModel(p *model.Prize) Prize {
	return Prize{
		ID:          string(p.ID),
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Cost:        p.Cost,
		ProductURL:  p.ProductURL,
	}
}

// PrizesFromModels converts a list of prizes
func PrizesFromModels(prizes []*model.Prize) []Prize {
	out := make([]Prize, 0, len(prizes))
	for _, p := range prizes {
		out = append(out, PrizeFromModel(p))
	}
	return out
}

// RaffleClaim is one taken number on the board
type RaffleClaim struct {
	Number int    `json:"number"`
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Legajo string `json:"legajo,omitempty"`
}

// RaffleBoard is the full board state
type RaffleBoard struct {
	Size    int           `json:"size"`
	Enabled bool          `json:"enabled"`
	Claims  []RaffleClaim `json:"claims"`
}

// RaffleBoardFromService converts the board
func RaffleBoardFromService(b *raffle.Board) RaffleBoard {
	claims := make([]RaffleClaim, 0, len(b.Claims))
	for _, c := range b.Claims {
		claims = append(claims, RaffleClaim{
			Number: c.Number,
			UserID: string(c.UserID),
			Name:   c.Name,
			Legajo: c.Legajo,
		})
	}
	return RaffleBoard{
		Size:    b.Size,
		Enabled: b.Enabled,
		Claims:  claims,
	}
}

// PublicConfig is the player-facing slice of the global configuration.
// The active set is served through the trivia listing; versioning is an
// admin concern.
type PublicConfig struct {
	RaffleEnabled     bool `json:"raffle_enabled"`
	PrizeURLsEnabled  bool `json:"prize_urls_enabled"`
	TriviaPointsLimit *int `json:"trivia_points_limit"`
}

// PublicConfigFromModel converts the global config to its player view
func PublicConfigFromModel(c *model.GlobalConfig) PublicConfig {
	return PublicConfig{
		RaffleEnabled:     c.RaffleEnabled,
		PrizeURLsEnabled:  c.PrizeURLsEnabled,
		TriviaPointsLimit: c.TriviaPointsLimit,
	}
}

// Config is the global configuration response
type Config struct {
	ActiveTriviaIDs   []string `json:"active_trivia_ids"`
	RaffleEnabled     bool     `json:"raffle_enabled"`
	PrizeURLsEnabled  bool     `json:"prize_urls_enabled"`
	TriviaPointsLimit *int     `json:"trivia_points_limit"`
	Version           int64    `json:"version"`
}

// ConfigFromModel converts the global config
func ConfigFromModel(c *model.GlobalConfig) Config {
	ids := make([]string, 0, len(c.ActiveTriviaIDs))
	for _, id := range c.ActiveTriviaIDs {
		ids = append(ids, string(id))
	}
	return Config{
		ActiveTriviaIDs:   ids,
		RaffleEnabled:     c.RaffleEnabled,
		PrizeURLsEnabled:  c.PrizeURLsEnabled,
		TriviaPointsLimit: c.TriviaPointsLimit,
		Version:           c.Version,
	}
}
