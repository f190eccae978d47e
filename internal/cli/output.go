package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Profile:
		o.printProfile(v)
	case AuthResult:
		o.printAuthResult(v)
	case []TriviaSummary:
		o.printTriviaSummaries(v)
	case QuizSnapshot:
		o.printQuizSnapshot(v)
	case AnswerResult:
		o.printAnswerResult(v)
	case Results:
		o.printResults(v)
	case []Prize:
		o.printPrizes(v)
	case RaffleBoard:
		o.printRaffleBoard(v)
	case RaffleClaim:
		o.printRaffleClaim(v)
	case ConfigResult:
		o.printConfig(v)
	case []User:
		o.printUsers(v)
	case User:
		o.printUser(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Profile response type (matches API)
type Profile struct {
	ID               string   `json:"id"`
	Legajo           string   `json:"legajo"`
	Username         string   `json:"username"`
	Role             string   `json:"role"`
	UserType         string   `json:"user_type"`
	Score            int      `json:"score"`
	CompletedTrivias []string `json:"completed_trivias"`
	RaffleNumber     *int     `json:"raffle_number"`
}

// AuthResult combines profile and token
type AuthResult struct {
	Profile            Profile `json:"profile"`
	SessionToken       string  `json:"session_token"`
	MustChangePassword bool    `json:"must_change_password"`
}

// TriviaSummary response type
type TriviaSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	QuestionCount int    `json:"question_count"`
	TotalPoints   int    `json:"total_points"`
	Completed     bool   `json:"completed"`
}

// QuizQuestion response type
type QuizQuestion struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	ImageURL string   `json:"image_url"`
	Options  []string `json:"options"`
	Timer    int      `json:"timer"`
	Points   int      `json:"points"`
	Index    int      `json:"index"`
	Total    int      `json:"total"`
}

// QuizSnapshot response type
type QuizSnapshot struct {
	TriviaID   string        `json:"trivia_id"`
	TriviaName string        `json:"trivia_name"`
	State      string        `json:"state"`
	Question   *QuizQuestion `json:"question"`
	Remaining  int           `json:"remaining"`
	Resumed    bool          `json:"resumed"`
}

// AnswerResult response type
type AnswerResult struct {
	Outcome       string `json:"outcome"`
	Correct       bool   `json:"correct"`
	Awarded       int    `json:"awarded"`
	TotalScore    int    `json:"total_score"`
	CorrectAnswer string `json:"correct_answer"`
	TimedOut      bool   `json:"timed_out"`
	LastQuestion  bool   `json:"last_question"`
}

// QuestionResult response type
type QuestionResult struct {
	QuestionID string `json:"question_id"`
	Text       string `json:"text"`
	Points     int    `json:"points"`
	Answered   bool   `json:"answered"`
	Correct    bool   `json:"correct"`
}

// Results response type
type Results struct {
	TriviaID    string           `json:"trivia_id"`
	TriviaName  string           `json:"trivia_name"`
	TriviaScore int              `json:"trivia_score"`
	MaxScore    int              `json:"max_score"`
	Questions   []QuestionResult `json:"questions"`
	Completed   bool             `json:"completed"`
}

// Prize response type
type Prize struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Cost        int    `json:"cost"`
	ProductURL  string `json:"product_url"`
}

// RaffleClaim response type
type RaffleClaim struct {
	Number int    `json:"number"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Legajo string `json:"legajo"`
}

// RaffleBoard response type
type RaffleBoard struct {
	Size    int           `json:"size"`
	Enabled bool          `json:"enabled"`
	Claims  []RaffleClaim `json:"claims"`
}

// ConfigResult response type
type ConfigResult struct {
	ActiveTriviaIDs   []string `json:"active_trivia_ids"`
	RaffleEnabled     bool     `json:"raffle_enabled"`
	PrizeURLsEnabled  bool     `json:"prize_urls_enabled"`
	TriviaPointsLimit *int     `json:"trivia_points_limit"`
	Version           int64    `json:"version"`
}

// User response type (admin view)
type User struct {
	ID             string `json:"id"`
	Legajo         string `json:"legajo"`
	Username       string `json:"username"`
	Role           string `json:"role"`
	UserType       string `json:"user_type"`
	Score          int    `json:"score"`
	SeniorityScore int    `json:"seniority_score"`
	PeladoScore    int    `json:"pelado_score"`
	RaffleScore    int    `json:"raffle_score"`
	TriviaScore    int    `json:"trivia_score"`
	RaffleNumber   *int   `json:"raffle_number"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printProfile(p Profile) {
	fmt.Printf("User: %s (%s)\n", p.Username, p.Legajo)
	fmt.Printf("Role: %s\n", p.Role)
	fmt.Printf("Score: %d\n", p.Score)
	if len(p.CompletedTrivias) > 0 {
		fmt.Printf("Completed trivias: %s\n", strings.Join(p.CompletedTrivias, ", "))
	}
	if p.RaffleNumber != nil {
		fmt.Printf("Raffle number: %d\n", *p.RaffleNumber)
	}
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printProfile(a.Profile)
	fmt.Printf("Token: %s\n", a.SessionToken)
	if a.MustChangePassword {
		fmt.Println("You must change your password before playing")
	}
}

func (o *Output) printTriviaSummaries(trivias []TriviaSummary) {
	if len(trivias) == 0 {
		fmt.Println("No active trivias")
		return
	}
	fmt.Printf("Active trivias (%d):\n", len(trivias))
	for _, t := range trivias {
		doneStr := ""
		if t.Completed {
			doneStr = " [completed]"
		}
		fmt.Printf("  - %s (%s): %d questions, %d points%s\n",
			t.Name, t.ID, t.QuestionCount, t.TotalPoints, doneStr)
	}
}

func (o *Output) printQuizSnapshot(s QuizSnapshot) {
	fmt.Printf("Trivia: %s\n", s.TriviaName)
	fmt.Printf("State: %s\n", s.State)
	if s.Resumed {
		fmt.Println("(resumed)")
	}
	if s.Question == nil {
		return
	}
	q := s.Question
	fmt.Printf("\nQuestion %d/%d (%d pts, %ds left):\n", q.Index+1, q.Total, q.Points, s.Remaining)
	fmt.Printf("  %s\n", q.Text)
	for i, opt := range q.Options {
		fmt.Printf("  %d) %s\n", i+1, opt)
	}
}

func (o *Output) printAnswerResult(a AnswerResult) {
	if a.TimedOut {
		fmt.Println("Time's up!")
	}
	if a.Correct {
		fmt.Printf("Correct! +%d points (total: %d)\n", a.Awarded, a.TotalScore)
	} else {
		fmt.Printf("Incorrect. The answer was: %s\n", a.CorrectAnswer)
	}
	if a.Outcome != "applied" {
		fmt.Printf("Note: %s\n", a.Outcome)
	}
	if a.LastQuestion {
		fmt.Println("That was the last question - advance to finish")
	}
}

func (o *Output) printResults(r Results) {
	fmt.Printf("Results: %s\n", r.TriviaName)
	fmt.Printf("Score: %d/%d\n", r.TriviaScore, r.MaxScore)
	for _, q := range r.Questions {
		mark := "-"
		if !q.Answered {
			mark = "?"
		} else if q.Correct {
			mark = "+"
		} else {
			mark = "x"
		}
		fmt.Printf("  [%s] %s (%d pts)\n", mark, q.Text, q.Points)
	}
}

func (o *Output) printPrizes(prizes []Prize) {
	if len(prizes) == 0 {
		fmt.Println("No prizes")
		return
	}
	fmt.Printf("Prizes (%d):\n", len(prizes))
	for _, p := range prizes {
		fmt.Printf("  - %s: %d points", p.Name, p.Cost)
		if p.Description != "" {
			fmt.Printf(" - %s", p.Description)
		}
		if p.ProductURL != "" {
			fmt.Printf(" (%s)", p.ProductURL)
		}
		fmt.Println()
	}
}

func (o *Output) printRaffleBoard(b RaffleBoard) {
	enabledStr := "disabled"
	if b.Enabled {
		enabledStr = "enabled"
	}
	fmt.Printf("Raffle board: %d slots, %s\n", b.Size, enabledStr)
	fmt.Printf("Taken (%d):\n", len(b.Claims))
	for _, c := range b.Claims {
		fmt.Printf("  %3d: %s (%s)\n", c.Number, c.Name, c.Legajo)
	}
}

func (o *Output) printRaffleClaim(c RaffleClaim) {
	fmt.Printf("Winner: number %d - %s (%s)\n", c.Number, c.Name, c.Legajo)
}

func (o *Output) printConfig(c ConfigResult) {
	fmt.Printf("Version: %d\n", c.Version)
	fmt.Printf("Raffle enabled: %t\n", c.RaffleEnabled)
	fmt.Printf("Prize URLs enabled: %t\n", c.PrizeURLsEnabled)
	if c.TriviaPointsLimit != nil {
		fmt.Printf("Points limit: %d\n", *c.TriviaPointsLimit)
	} else {
		fmt.Println("Points limit: none")
	}
	if len(c.ActiveTriviaIDs) > 0 {
		fmt.Printf("Active trivias: %s\n", strings.Join(c.ActiveTriviaIDs, ", "))
	} else {
		fmt.Println("Active trivias: none")
	}
}

func (o *Output) printUsers(users []User) {
	fmt.Printf("Users (%d):\n", len(users))
	for _, u := range users {
		fmt.Printf("  - %s (%s) [%s]: %d points\n", u.Username, u.Legajo, u.Role, u.Score)
	}
}

func (o *Output) printUser(u User) {
	fmt.Printf("User: %s (%s)\n", u.Username, u.Legajo)
	fmt.Printf("ID: %s\n", u.ID)
	fmt.Printf("Role: %s, Type: %s\n", u.Role, u.UserType)
	fmt.Printf("Score: %d (seniority %d, pelado %d, raffle %d, trivia %d)\n",
		u.Score, u.SeniorityScore, u.PeladoScore, u.RaffleScore, u.TriviaScore)
	if u.RaffleNumber != nil {
		fmt.Printf("Raffle number: %d\n", *u.RaffleNumber)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
