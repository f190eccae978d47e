package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/edsafest/trivia-service/internal/dependencies/clock"
	"github.com/edsafest/trivia-service/internal/model"
	"github.com/edsafest/trivia-service/internal/services/auth"
	"github.com/edsafest/trivia-service/internal/storage"
)

// CreateInput carries the fields an admin provides when registering a user
type CreateInput struct {
	Legajo         string
	Username       string
	Role           model.Role
	UserType       model.UserType
	SeniorityScore int
	// Password overrides the event default when non-empty
	Password string
}

// Service manages user accounts and score adjustments
type Service struct {
	storage         storage.Storage
	clock           clock.Clock
	defaultPassword string
	logger          *slog.Logger
}

// NewService creates a user service
func NewService(storage storage.Storage, clock clock.Clock, defaultPassword string, logger *slog.Logger) *Service {
	return &Service{
		storage:         storage,
		clock:           clock,
		defaultPassword: defaultPassword,
		logger:          logger,
	}
}

// Create registers a new user. The legajo must be unique; the seniority
// score seeds both its bucket and the total so the score invariant holds
// from the start.
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.User, error) {
	if input.Legajo == "" {
		return nil, fmt.Errorf("legajo is required")
	}
	if input.Username == "" {
		return nil, fmt.Errorf("username is required")
	}

	if _, err := s.storage.GetUserByLegajo(ctx, input.Legajo); err == nil {
		return nil, model.ErrLegajoExists
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = model.RoleUser
	}
	userType := input.UserType
	if userType == "" {
		userType = model.UserTypeEmployee
	}

	password := input.Password
	isDefault := false
	if password == "" {
		password = s.defaultPassword
		isDefault = true
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := s.clock.Now()
	user := &model.User{
		ID:                model.UserID(uuid.NewString()),
		Legajo:            input.Legajo,
		Username:          input.Username,
		Role:              role,
		UserType:          userType,
		PasswordHash:      hash,
		PasswordIsDefault: isDefault,
		Score:             input.SeniorityScore,
		SeniorityScore:    input.SeniorityScore,
		Answers:           model.UserAnswers{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		slog.String("user_id", string(user.ID)),
		slog.String("legajo", user.Legajo),
		slog.String("role", string(user.Role)),
	)
	return user, nil
}

// Get returns a user by id
func (s *Service) Get(ctx context.Context, id model.UserID) (*model.User, error) {
	return s.storage.GetUser(ctx, id)
}

// GetByLegajo returns a user by their legajo
func (s *Service) GetByLegajo(ctx context.Context, legajo string) (*model.User, error) {
	return s.storage.GetUserByLegajo(ctx, legajo)
}

// List returns all users
func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	return s.storage.ListUsers(ctx)
}

// Delete removes a user along with their raffle claim and quiz sessions
func (s *Service) Delete(ctx context.Context, id model.UserID) error {
	if err := s.storage.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", slog.String("user_id", string(id)))
	return nil
}

// AdjustScore adds amount (possibly negative) to one of the user's score
// buckets, keeping the total in step
func (s *Service) AdjustScore(ctx context.Context, id model.UserID, bucket model.ScoreBucket, amount int) (*model.User, error) {
	switch bucket {
	case model.BucketSeniority, model.BucketPelado, model.BucketRaffle:
	default:
		return nil, fmt.Errorf("unknown score bucket %q", bucket)
	}

	if err := s.storage.AdjustScore(ctx, id, bucket, amount); err != nil {
		return nil, err
	}

	s.logger.Info("score adjusted",
		slog.String("user_id", string(id)),
		slog.String("bucket", string(bucket)),
		slog.Int("amount", amount),
	)
	return s.storage.GetUser(ctx, id)
}
