package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/edsafest/trivia-service/internal/model"
	"github.com/edsafest/trivia-service/internal/storage"
)

// Service manages the versioned global event configuration
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewService creates a config service
func NewService(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Get returns the current configuration, creating the default on first read
func (s *Service) Get(ctx context.Context) (*model.GlobalConfig, error) {
	return s.storage.GetConfig(ctx)
}

// Update replaces the configuration at the given version. A stale version
// returns ErrConfigConflict so concurrent admin edits cannot silently
// clobber each other.
func (s *Service) Update(ctx context.Context, cfg *model.GlobalConfig, expectedVersion int64) (*model.GlobalConfig, error) {
	if err := s.validate(ctx, cfg); err != nil {
		return nil, err
	}
	if err := s.storage.SaveConfig(ctx, cfg, expectedVersion); err != nil {
		return nil, err
	}

	s.logger.Info("config updated",
		slog.Int64("version", cfg.Version),
		slog.Int("active_trivias", len(cfg.ActiveTriviaIDs)),
		slog.Bool("raffle_enabled", cfg.RaffleEnabled),
	)
	return cfg, nil
}

// mutate applies fn to the current config and saves, retrying on version
// conflicts with other writers
func (s *Service) mutate(ctx context.Context, fn func(cfg *model.GlobalConfig)) (*model.GlobalConfig, error) {
	for {
		cfg, err := s.storage.GetConfig(ctx)
		if err != nil {
			return nil, err
		}
		fn(cfg)
		if err := s.validate(ctx, cfg); err != nil {
			return nil, err
		}
		err = s.storage.SaveConfig(ctx, cfg, cfg.Version)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, model.ErrConfigConflict) {
			return nil, err
		}
	}
}

// SetRaffleEnabled toggles raffle number selection
func (s *Service) SetRaffleEnabled(ctx context.Context, enabled bool) (*model.GlobalConfig, error) {
	cfg, err := s.mutate(ctx, func(cfg *model.GlobalConfig) {
		cfg.RaffleEnabled = enabled
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("raffle toggled", slog.Bool("enabled", enabled))
	return cfg, nil
}

// SetPrizeURLsEnabled toggles product link visibility in the prize catalog
func (s *Service) SetPrizeURLsEnabled(ctx context.Context, enabled bool) (*model.GlobalConfig, error) {
	cfg, err := s.mutate(ctx, func(cfg *model.GlobalConfig) {
		cfg.PrizeURLsEnabled = enabled
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("prize urls toggled", slog.Bool("enabled", enabled))
	return cfg, nil
}

// SetActiveTrivias replaces the set of trivias players may start
func (s *Service) SetActiveTrivias(ctx context.Context, ids []model.TriviaID) (*model.GlobalConfig, error) {
	cfg, err := s.mutate(ctx, func(cfg *model.GlobalConfig) {
		cfg.ActiveTriviaIDs = ids
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("active trivias set", slog.Int("count", len(ids)))
	return cfg, nil
}

// SetPointsLimit sets the trivia points cap; nil removes it
func (s *Service) SetPointsLimit(ctx context.Context, limit *int) (*model.GlobalConfig, error) {
	cfg, err := s.mutate(ctx, func(cfg *model.GlobalConfig) {
		cfg.TriviaPointsLimit = limit
	})
	if err != nil {
		return nil, err
	}
	if limit != nil {
		s.logger.Info("points limit set", slog.Int("limit", *limit))
	} else {
		s.logger.Info("points limit removed")
	}
	return cfg, nil
}

func (s *Service) validate(ctx context.Context, cfg *model.GlobalConfig) error {
	if cfg.TriviaPointsLimit != nil && *cfg.TriviaPointsLimit < 0 {
		return fmt.Errorf("points limit must not be negative")
	}
	for _, id := range cfg.ActiveTriviaIDs {
		if _, err := s.storage.GetTrivia(ctx, id); err != nil {
			if errors.Is(err, model.ErrTriviaNotFound) {
				return fmt.Errorf("active trivia %s: %w", id, err)
			}
			return err
		}
	}
	return nil
}
