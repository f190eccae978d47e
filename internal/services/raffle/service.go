package raffle

import (
	"context"
	"log/slog"
	"sort"

	"github.com/edsafest/trivia-service/internal/dependencies/random"
	"github.com/edsafest/trivia-service/internal/model"
	"github.com/edsafest/trivia-service/internal/storage"
)

// Claim is one taken number on the raffle board
type Claim struct {
	Number int
	UserID model.UserID
	Name   string
	Legajo string
}

// Board is the full raffle board state
type Board struct {
	Size    int
	Enabled bool
	Claims  []Claim
}

// Service manages raffle number selection. Reservation is delegated to the
// storage layer so two users racing for the same number cannot both win it.
type Service struct {
	storage storage.Storage
	random  random.Random
	size    int
	logger  *slog.Logger
}

// NewService creates a raffle service with the given board size
func NewService(storage storage.Storage, rnd random.Random, size int, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		random:  rnd,
		size:    size,
		logger:  logger,
	}
}

// Size returns the number of slots on the board
func (s *Service) Size() int {
	return s.size
}

// SelectNumber claims a raffle number for the user, releasing any number
// they held before. Selection is refused while the raffle is disabled,
// guests are not eligible, and ErrNumberTaken is returned when another
// user holds the number.
func (s *Service) SelectNumber(ctx context.Context, userID model.UserID, number int) error {
	if number < 1 || number > s.size {
		return model.ErrInvalidNumber
	}

	cfg, err := s.storage.GetConfig(ctx)
	if err != nil {
		return err
	}
	if !cfg.RaffleEnabled {
		return model.ErrRaffleDisabled
	}

	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.UserType == model.UserTypeGuest {
		return model.ErrGuestNotEligible
	}

	claimed, err := s.storage.ClaimRaffleNumber(ctx, number, userID)
	if err != nil {
		return err
	}
	if !claimed {
		return model.ErrNumberTaken
	}

	s.logger.Info("raffle number selected",
		slog.String("user_id", string(userID)),
		slog.Int("number", number),
	)
	return nil
}

// Board returns the current board: every taken number with its holder
func (s *Service) Board(ctx context.Context) (*Board, error) {
	cfg, err := s.storage.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	claims, err := s.storage.ListRaffleClaims(ctx)
	if err != nil {
		return nil, err
	}

	board := &Board{
		Size:    s.size,
		Enabled: cfg.RaffleEnabled,
		Claims:  make([]Claim, 0, len(claims)),
	}
	for number := 1; number <= s.size; number++ {
		userID, ok := claims[number]
		if !ok {
			continue
		}
		claim := Claim{Number: number, UserID: userID}
		// A deleted user may have left a stale claim; show the bare number
		if user, err := s.storage.GetUser(ctx, userID); err == nil {
			claim.Name = user.Username
			claim.Legajo = user.Legajo
		}
		board.Claims = append(board.Claims, claim)
	}
	return board, nil
}

// Draw picks a winner uniformly among the taken numbers. The board is
// left untouched so the draw can be repeated for runner-up prizes.
func (s *Service) Draw(ctx context.Context) (*Claim, error) {
	claims, err := s.storage.ListRaffleClaims(ctx)
	if err != nil {
		return nil, err
	}
	if len(claims) == 0 {
		return nil, model.ErrRaffleEmpty
	}

	numbers := make([]int, 0, len(claims))
	for number := range claims {
		numbers = append(numbers, number)
	}
	sort.Ints(numbers)
	winner := numbers[s.random.Intn(len(numbers))]

	claim := &Claim{Number: winner, UserID: claims[winner]}
	if user, err := s.storage.GetUser(ctx, claim.UserID); err == nil {
		claim.Name = user.Username
		claim.Legajo = user.Legajo
	}

	s.logger.Info("raffle winner drawn",
		slog.Int("number", claim.Number),
		slog.String("user_id", string(claim.UserID)),
	)
	return claim, nil
}

// FreeNumber releases a taken number regardless of who holds it
func (s *Service) FreeNumber(ctx context.Context, number int) error {
	if number < 1 || number > s.size {
		return model.ErrInvalidNumber
	}
	if err := s.storage.ReleaseRaffleNumber(ctx, number); err != nil {
		return err
	}
	s.logger.Info("raffle number freed", slog.Int("number", number))
	return nil
}

// Reset clears the entire board and every user's held number
func (s *Service) Reset(ctx context.Context) error {
	if err := s.storage.ResetRaffle(ctx); err != nil {
		return err
	}
	s.logger.Info("raffle board reset")
	return nil
}
