package memory

import (
	"context"
	"sync"
	"time"

	"github.com/edsafest/trivia-service/internal/model"
	"github.com/edsafest/trivia-service/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users        map[model.UserID]*model.User
	legajoIndex  map[string]model.UserID
	trivias      map[model.TriviaID]*model.Trivia
	prizes       map[model.PrizeID]*model.Prize
	raffleClaims map[int]model.UserID
	sessions     map[sessionKey]*model.QuizSession
	config       *model.GlobalConfig
}

type sessionKey struct {
	userID   model.UserID
	triviaID model.TriviaID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:        make(map[model.UserID]*model.User),
		legajoIndex:  make(map[string]model.UserID),
		trivias:      make(map[model.TriviaID]*model.Trivia),
		prizes:       make(map[model.PrizeID]*model.Prize),
		raffleClaims: make(map[int]model.UserID),
		sessions:     make(map[sessionKey]*model.QuizSession),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// cloneUser returns a deep copy so callers never share mutable maps with
// the store
func cloneUser(u *model.User) *model.User {
	c := *u
	if u.CompletedTrivias != nil {
		c.CompletedTrivias = append([]model.TriviaID(nil), u.CompletedTrivias...)
	}
	if u.Answers != nil {
		c.Answers = make(model.UserAnswers, len(u.Answers))
		for tid, qs := range u.Answers {
			m := make(map[model.QuestionID]bool, len(qs))
			for qid, v := range qs {
				m[qid] = v
			}
			c.Answers[tid] = m
		}
	}
	if u.RaffleNumber != nil {
		n := *u.RaffleNumber
		c.RaffleNumber = &n
	}
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	return &c
}

// cloneTrivia deep-copies a trivia, including each question's options
func cloneTrivia(t *model.Trivia) *model.Trivia {
	c := *t
	if t.Questions != nil {
		c.Questions = make([]model.Question, len(t.Questions))
		for i, q := range t.Questions {
			c.Questions[i] = q
			if q.Options != nil {
				c.Questions[i].Options = append([]string(nil), q.Options...)
			}
		}
	}
	return &c
}

// clonePrize is a plain value copy; prizes hold no reference fields
func clonePrize(p *model.Prize) *model.Prize {
	c := *p
	return &c
}

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.users[user.ID]; ok && old.Legajo != user.Legajo {
		delete(s.legajoIndex, old.Legajo)
	}
	s.users[user.ID] = cloneUser(user)
	s.legajoIndex[user.Legajo] = user.ID
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (s *Storage) GetUserByLegajo(ctx context.Context, legajo string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.legajoIndex[legajo]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]*model.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, cloneUser(user))
	}
	return users, nil
}

func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil
	}
	delete(s.legajoIndex, user.Legajo)
	delete(s.users, id)
	if user.RaffleNumber != nil {
		delete(s.raffleClaims, *user.RaffleNumber)
	}
	for key := range s.sessions {
		if key.userID == id {
			delete(s.sessions, key)
		}
	}
	return nil
}

func (s *Storage) RecordAnswer(ctx context.Context, id model.UserID, triviaID model.TriviaID, questionID model.QuestionID, correct bool, delta int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return false, model.ErrUserNotFound
	}
	if user.Answers == nil {
		user.Answers = make(model.UserAnswers)
	}
	qs, ok := user.Answers[triviaID]
	if !ok {
		qs = make(map[model.QuestionID]bool)
		user.Answers[triviaID] = qs
	}
	if _, recorded := qs[questionID]; recorded {
		return false, nil
	}
	qs[questionID] = correct
	user.Score += delta
	user.UpdatedAt = time.Now()
	return true, nil
}

func (s *Storage) AdjustScore(ctx context.Context, id model.UserID, bucket model.ScoreBucket, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	switch bucket {
	case model.BucketSeniority:
		user.SeniorityScore += amount
	case model.BucketPelado:
		user.PeladoScore += amount
	case model.BucketRaffle:
		user.RaffleScore += amount
	}
	user.Score += amount
	user.UpdatedAt = time.Now()
	return nil
}

func (s *Storage) SetPassword(ctx context.Context, id model.UserID, hash string, isDefault bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	user.PasswordHash = hash
	user.PasswordIsDefault = isDefault
	user.UpdatedAt = time.Now()
	return nil
}

func (s *Storage) SetLastLogin(ctx context.Context, id model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	now := time.Now()
	user.LastLogin = &now
	return nil
}

func (s *Storage) CompleteTrivia(ctx context.Context, id model.UserID, triviaID model.TriviaID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return false, model.ErrUserNotFound
	}
	for _, t := range user.CompletedTrivias {
		if t == triviaID {
			return false, nil
		}
	}
	user.CompletedTrivias = append(user.CompletedTrivias, triviaID)
	user.UpdatedAt = time.Now()
	return true, nil
}

func (s *Storage) ResetTrivia(ctx context.Context, triviaID model.TriviaID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	affected := 0
	for _, user := range s.users {
		touched := false
		for i, t := range user.CompletedTrivias {
			if t == triviaID {
				user.CompletedTrivias = append(user.CompletedTrivias[:i], user.CompletedTrivias[i+1:]...)
				touched = true
				break
			}
		}
		if user.Answers != nil {
			if _, ok := user.Answers[triviaID]; ok {
				delete(user.Answers, triviaID)
				touched = true
			}
		}
		if touched {
			user.UpdatedAt = time.Now()
			affected++
		}
	}
	return affected, nil
}

// Raffle operations

func (s *Storage) ClaimRaffleNumber(ctx context.Context, number int, id model.UserID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return false, model.ErrUserNotFound
	}
	if holder, taken := s.raffleClaims[number]; taken {
		return holder == id, nil
	}
	if user.RaffleNumber != nil {
		delete(s.raffleClaims, *user.RaffleNumber)
	}
	s.raffleClaims[number] = id
	n := number
	user.RaffleNumber = &n
	user.UpdatedAt = time.Now()
	return true, nil
}

func (s *Storage) ReleaseRaffleNumber(ctx context.Context, number int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	holder, ok := s.raffleClaims[number]
	if !ok {
		return nil
	}
	delete(s.raffleClaims, number)
	if user, ok := s.users[holder]; ok {
		user.RaffleNumber = nil
		user.UpdatedAt = time.Now()
	}
	return nil
}

func (s *Storage) ResetRaffle(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for number, holder := range s.raffleClaims {
		if user, ok := s.users[holder]; ok {
			user.RaffleNumber = nil
			user.UpdatedAt = time.Now()
		}
		delete(s.raffleClaims, number)
	}
	return nil
}

func (s *Storage) ListRaffleClaims(ctx context.Context) (map[int]model.UserID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	claims := make(map[int]model.UserID, len(s.raffleClaims))
	for number, holder := range s.raffleClaims {
		claims[number] = holder
	}
	return claims, nil
}

// Trivia operations

func (s *Storage) SaveTrivia(ctx context.Context, trivia *model.Trivia) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trivias[trivia.ID] = cloneTrivia(trivia)
	return nil
}

func (s *Storage) GetTrivia(ctx context.Context, id model.TriviaID) (*model.Trivia, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	trivia, ok := s.trivias[id]
	if !ok {
		return nil, model.ErrTriviaNotFound
	}
	return cloneTrivia(trivia), nil
}

func (s *Storage) ListTrivias(ctx context.Context) ([]*model.Trivia, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	trivias := make([]*model.Trivia, 0, len(s.trivias))
	for _, trivia := range s.trivias {
		trivias = append(trivias, cloneTrivia(trivia))
	}
	return trivias, nil
}

func (s *Storage) DeleteTrivia(ctx context.Context, id model.TriviaID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.trivias, id)
	return nil
}

// Prize operations

func (s *Storage) SavePrize(ctx context.Context, prize *model.Prize) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prizes[prize.ID] = clonePrize(prize)
	return nil
}

func (s *Storage) GetPrize(ctx context.Context, id model.PrizeID) (*model.Prize, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prize, ok := s.prizes[id]
	if !ok {
		return nil, model.ErrPrizeNotFound
	}
	return clonePrize(prize), nil
}

func (s *Storage) ListPrizes(ctx context.Context) ([]*model.Prize, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prizes := make([]*model.Prize, 0, len(s.prizes))
	for _, prize := range s.prizes {
		prizes = append(prizes, clonePrize(prize))
	}
	return prizes, nil
}

func (s *Storage) DeletePrize(ctx context.Context, id model.PrizeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.prizes, id)
	return nil
}

// Config operations

func (s *Storage) GetConfig(ctx context.Context) (*model.GlobalConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config == nil {
		s.config = model.DefaultGlobalConfig()
	}
	cfg := *s.config
	cfg.ActiveTriviaIDs = append([]model.TriviaID(nil), s.config.ActiveTriviaIDs...)
	if s.config.TriviaPointsLimit != nil {
		limit := *s.config.TriviaPointsLimit
		cfg.TriviaPointsLimit = &limit
	}
	return &cfg, nil
}

func (s *Storage) SaveConfig(ctx context.Context, cfg *model.GlobalConfig, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config != nil && s.config.Version != expectedVersion {
		return model.ErrConfigConflict
	}
	saved := *cfg
	saved.Version = expectedVersion + 1
	saved.ActiveTriviaIDs = append([]model.TriviaID(nil), cfg.ActiveTriviaIDs...)
	if cfg.TriviaPointsLimit != nil {
		limit := *cfg.TriviaPointsLimit
		saved.TriviaPointsLimit = &limit
	}
	s.config = &saved
	cfg.Version = saved.Version
	return nil
}

// Quiz session operations

func (s *Storage) SaveQuizSession(ctx context.Context, session *model.QuizSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.sessions[sessionKey{userID: session.UserID, triviaID: session.TriviaID}] = &copied
	return nil
}

func (s *Storage) GetQuizSession(ctx context.Context, userID model.UserID, triviaID model.TriviaID) (*model.QuizSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionKey{userID: userID, triviaID: triviaID}]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *Storage) DeleteQuizSession(ctx context.Context, userID model.UserID, triviaID model.TriviaID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionKey{userID: userID, triviaID: triviaID})
	return nil
}
