package prize

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/google/uuid"

	"github.com/edsafest/trivia-service/internal/model"
	"github.com/edsafest/trivia-service/internal/storage"
)

// Input carries the fields for creating or updating a prize
type Input struct {
	Name        string
	Description string
	ImageURL    string
	Cost        int
	ProductURL  string
}

// Service manages the prize catalog
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewService creates a prize service
func NewService(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Create validates and stores a new prize
func (s *Service) Create(ctx context.Context, input Input) (*model.Prize, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	prize := &model.Prize{
		ID:          model.PrizeID(uuid.NewString()),
		Name:        input.Name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Cost:        input.Cost,
		ProductURL:  input.ProductURL,
	}
	if err := s.storage.SavePrize(ctx, prize); err != nil {
		return nil, err
	}

	s.logger.Info("prize created",
		slog.String("prize_id", string(prize.ID)),
		slog.String("name", prize.Name),
		slog.Int("cost", prize.Cost),
	)
	return prize, nil
}

// Update replaces an existing prize
func (s *Service) Update(ctx context.Context, id model.PrizeID, input Input) (*model.Prize, error) {
	if _, err := s.storage.GetPrize(ctx, id); err != nil {
		return nil, err
	}
	if err := validate(input); err != nil {
		return nil, err
	}

	prize := &model.Prize{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Cost:        input.Cost,
		ProductURL:  input.ProductURL,
	}
	if err := s.storage.SavePrize(ctx, prize); err != nil {
		return nil, err
	}

	s.logger.Info("prize updated", slog.String("prize_id", string(id)))
	return prize, nil
}

// Get returns a prize by id
func (s *Service) Get(ctx context.Context, id model.PrizeID) (*model.Prize, error) {
	return s.storage.GetPrize(ctx, id)
}

// List returns the catalog. Product URLs are blanked when the config has
// them hidden, so the visibility toggle cannot be bypassed by a client.
func (s *Service) List(ctx context.Context) ([]*model.Prize, error) {
	prizes, err := s.storage.ListPrizes(ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := s.storage.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if !cfg.PrizeURLsEnabled {
		// Blank copies, not the stored documents
		blanked := make([]*model.Prize, len(prizes))
		for i, p := range prizes {
			c := *p
			c.ProductURL = ""
			blanked[i] = &c
		}
		return blanked, nil
	}
	return prizes, nil
}

// ListFull returns the catalog with product URLs regardless of the
// visibility toggle, for the admin surface
func (s *Service) ListFull(ctx context.Context) ([]*model.Prize, error) {
	return s.storage.ListPrizes(ctx)
}

// Delete removes a prize from the catalog
func (s *Service) Delete(ctx context.Context, id model.PrizeID) error {
	if err := s.storage.DeletePrize(ctx, id); err != nil {
		return err
	}
	s.logger.Info("prize deleted", slog.String("prize_id", string(id)))
	return nil
}

func validate(input Input) error {
	if input.Name == "" {
		return fmt.Errorf("prize name is required")
	}
	if input.Cost <= 0 {
		return fmt.Errorf("prize cost must be positive")
	}
	if input.ProductURL != "" {
		u, err := url.Parse(input.ProductURL)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("product URL must be an absolute URL")
		}
	}
	return nil
}
