package trivia

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/edsafest/trivia-service/internal/model"
	"github.com/edsafest/trivia-service/internal/storage"
)

// QuestionInput is a question as submitted by an admin
type QuestionInput struct {
	Text          string
	ImageURL      string
	Options       []string
	CorrectAnswer string
	Timer         int
	Points        int
}

// Service manages trivia definitions
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewService creates a trivia service
func NewService(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Create validates and stores a new trivia
func (s *Service) Create(ctx context.Context, name string, questions []QuestionInput) (*model.Trivia, error) {
	built, err := buildQuestions(questions)
	if err != nil {
		return nil, err
	}

	trivia := &model.Trivia{
		ID:        model.TriviaID(uuid.NewString()),
		Name:      name,
		Questions: built,
	}
	if err := validate(trivia); err != nil {
		return nil, err
	}
	if err := s.storage.SaveTrivia(ctx, trivia); err != nil {
		return nil, err
	}

	s.logger.Info("trivia created",
		slog.String("trivia_id", string(trivia.ID)),
		slog.String("name", trivia.Name),
		slog.Int("questions", len(trivia.Questions)),
	)
	return trivia, nil
}

// Update replaces an existing trivia's name and questions
func (s *Service) Update(ctx context.Context, id model.TriviaID, name string, questions []QuestionInput) (*model.Trivia, error) {
	if _, err := s.storage.GetTrivia(ctx, id); err != nil {
		return nil, err
	}

	built, err := buildQuestions(questions)
	if err != nil {
		return nil, err
	}

	trivia := &model.Trivia{
		ID:        id,
		Name:      name,
		Questions: built,
	}
	if err := validate(trivia); err != nil {
		return nil, err
	}
	if err := s.storage.SaveTrivia(ctx, trivia); err != nil {
		return nil, err
	}

	s.logger.Info("trivia updated", slog.String("trivia_id", string(id)))
	return trivia, nil
}

// Get returns a trivia by id
func (s *Service) Get(ctx context.Context, id model.TriviaID) (*model.Trivia, error) {
	return s.storage.GetTrivia(ctx, id)
}

// List returns all trivias
func (s *Service) List(ctx context.Context) ([]*model.Trivia, error) {
	return s.storage.ListTrivias(ctx)
}

// ListActive returns the trivias currently in the active set
func (s *Service) ListActive(ctx context.Context) ([]*model.Trivia, error) {
	cfg, err := s.storage.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]*model.Trivia, 0, len(cfg.ActiveTriviaIDs))
	for _, id := range cfg.ActiveTriviaIDs {
		trivia, err := s.storage.GetTrivia(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrTriviaNotFound) {
				continue
			}
			return nil, err
		}
		active = append(active, trivia)
	}
	return active, nil
}

// Delete removes a trivia and drops it from the active set if present.
// The active-set update retries on config version conflicts.
func (s *Service) Delete(ctx context.Context, id model.TriviaID) error {
	if err := s.storage.DeleteTrivia(ctx, id); err != nil {
		return err
	}

	for {
		cfg, err := s.storage.GetConfig(ctx)
		if err != nil {
			return err
		}
		remaining := make([]model.TriviaID, 0, len(cfg.ActiveTriviaIDs))
		for _, active := range cfg.ActiveTriviaIDs {
			if active != id {
				remaining = append(remaining, active)
			}
		}
		if len(remaining) == len(cfg.ActiveTriviaIDs) {
			break
		}
		cfg.ActiveTriviaIDs = remaining
		err = s.storage.SaveConfig(ctx, cfg, cfg.Version)
		if err == nil {
			break
		}
		if !errors.Is(err, model.ErrConfigConflict) {
			return err
		}
	}

	s.logger.Info("trivia deleted", slog.String("trivia_id", string(id)))
	return nil
}

func buildQuestions(inputs []QuestionInput) ([]model.Question, error) {
	questions := make([]model.Question, 0, len(inputs))
	for _, in := range inputs {
		questions = append(questions, model.Question{
			ID:            model.QuestionID(uuid.NewString()),
			Text:          in.Text,
			ImageURL:      in.ImageURL,
			Options:       in.Options,
			CorrectAnswer: in.CorrectAnswer,
			Timer:         in.Timer,
			Points:        in.Points,
		})
	}
	return questions, nil
}

func validate(t *model.Trivia) error {
	if t.Name == "" {
		return fmt.Errorf("trivia name is required")
	}
	if len(t.Questions) == 0 {
		return fmt.Errorf("trivia must have at least one question")
	}
	for i := range t.Questions {
		q := &t.Questions[i]
		if q.Text == "" {
			return fmt.Errorf("question %d: text is required", i)
		}
		if len(q.Options) < model.MinOptions || len(q.Options) > model.MaxOptions {
			return fmt.Errorf("question %d: must have between %d and %d options",
				i, model.MinOptions, model.MaxOptions)
		}
		if !q.HasOption(q.CorrectAnswer) {
			return fmt.Errorf("question %d: correct answer must be one of the options", i)
		}
		if q.Timer < model.MinTimer || q.Timer > model.MaxTimer {
			return fmt.Errorf("question %d: timer must be between %d and %d seconds",
				i, model.MinTimer, model.MaxTimer)
		}
		if q.Points <= 0 {
			return fmt.Errorf("question %d: points must be positive", i)
		}
	}
	return nil
}
