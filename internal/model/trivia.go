package model

// TriviaID uniquely identifies a trivia
type TriviaID string

// QuestionID uniquely identifies a question within a trivia
type QuestionID string

// Question bounds enforced on create/update
const (
	MinOptions = 2
	MaxOptions = 4
	MinTimer   = 5
	MaxTimer   = 120
)

// Question is a single timed multiple-choice question
type Question struct {
	ID            QuestionID `json:"id"`
	Text          string     `json:"text"`
	ImageURL      string     `json:"image_url,omitempty"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correct_answer"`
	// Timer is the countdown duration in seconds (5-120)
	Timer  int `json:"timer"`
	Points int `json:"points"`
}

// HasOption reports whether the given text is one of the question's options
func (q *Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

// Trivia is an ordered list of questions played as one game
type Trivia struct {
	ID        TriviaID   `json:"id"`
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
}

// Question returns the question with the given id, or nil
func (t *Trivia) Question(id QuestionID) *Question {
	for i := range t.Questions {
		if t.Questions[i].ID == id {
			return &t.Questions[i]
		}
	}
	return nil
}

// QuestionAt returns the question at index i, or nil if out of range
func (t *Trivia) QuestionAt(i int) *Question {
	if i < 0 || i >= len(t.Questions) {
		return nil
	}
	return &t.Questions[i]
}

// TotalPoints is the maximum score obtainable from this trivia
func (t *Trivia) TotalPoints() int {
	total := 0
	for _, q := range t.Questions {
		total += q.Points
	}
	return total
}
