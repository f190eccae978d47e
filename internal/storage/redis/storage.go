package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/edsafest/trivia-service/internal/model"
	"github.com/edsafest/trivia-service/internal/storage"
)

// maxTxRetries bounds optimistic-transaction retries under WATCH contention
const maxTxRetries = 16

// errNoChange signals a mutation callback decided nothing needs writing
var errNoChange = errors.New("no change")

// Storage is a Redis-backed implementation of the storage interface.
// Entities are JSON documents under prefixed keys; user mutations that must
// be atomic run as WATCH-based optimistic transactions, and raffle
// reservations live in a hash written with HSETNX so the uniqueness check
// and the write are one operation.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	// Pipeline for atomic doc + index updates
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, userKey(user.ID), data, 0)
	pipe.Set(ctx, legajoIndexKey(user.Legajo), string(user.ID), 0)
	pipe.SAdd(ctx, userIndexKey(), string(user.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByLegajo(ctx context.Context, legajo string) (*model.User, error) {
	idStr, err := s.client.Get(ctx, legajoIndexKey(legajo)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return s.GetUser(ctx, model.UserID(idStr))
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.User, error) {
	ids, err := s.client.SMembers(ctx, userIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.User{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = userKey(model.UserID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	users := make([]*model.User, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // index member without a document
		}
		var user model.User
		if err := json.Unmarshal([]byte(val.(string)), &user); err != nil {
			continue
		}
		users = append(users, &user)
	}
	return users, nil
}

func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, userKey(id))
	pipe.Del(ctx, legajoIndexKey(user.Legajo))
	pipe.SRem(ctx, userIndexKey(), string(id))
	if user.RaffleNumber != nil {
		pipe.HDel(ctx, raffleClaimsKey(), strconv.Itoa(*user.RaffleNumber))
	}
	_, err = pipe.Exec(ctx)
	return err
}

// mutateUser applies fn to the user document inside a WATCH-based
// optimistic transaction, retrying on contention. fn may return errNoChange
// to commit nothing.
func (s *Storage) mutateUser(ctx context.Context, id model.UserID, fn func(*model.User) error) error {
	key := userKey(id)

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrUserNotFound
			}
			return err
		}

		var user model.User
		if err := json.Unmarshal(data, &user); err != nil {
			return err
		}

		if err := fn(&user); err != nil {
			if errors.Is(err, errNoChange) {
				return nil
			}
			return err
		}
		user.UpdatedAt = time.Now()

		updated, err := json.Marshal(&user)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return redis.TxFailedErr
}

func (s *Storage) RecordAnswer(ctx context.Context, id model.UserID, triviaID model.TriviaID, questionID model.QuestionID, correct bool, delta int) (bool, error) {
	applied := false
	err := s.mutateUser(ctx, id, func(user *model.User) error {
		if _, recorded := user.AnswerFor(triviaID, questionID); recorded {
			return errNoChange
		}
		if user.Answers == nil {
			user.Answers = make(model.UserAnswers)
		}
		if user.Answers[triviaID] == nil {
			user.Answers[triviaID] = make(map[model.QuestionID]bool)
		}
		user.Answers[triviaID][questionID] = correct
		user.Score += delta
		applied = true
		return nil
	})
	return applied, err
}

func (s *Storage) AdjustScore(ctx context.Context, id model.UserID, bucket model.ScoreBucket, amount int) error {
	return s.mutateUser(ctx, id, func(user *model.User) error {
		switch bucket {
		case model.BucketSeniority:
			user.SeniorityScore += amount
		case model.BucketPelado:
			user.PeladoScore += amount
		case model.BucketRaffle:
			user.RaffleScore += amount
		}
		user.Score += amount
		return nil
	})
}

func (s *Storage) SetPassword(ctx context.Context, id model.UserID, hash string, isDefault bool) error {
	return s.mutateUser(ctx, id, func(user *model.User) error {
		user.PasswordHash = hash
		user.PasswordIsDefault = isDefault
		return nil
	})
}

func (s *Storage) SetLastLogin(ctx context.Context, id model.UserID) error {
	return s.mutateUser(ctx, id, func(user *model.User) error {
		now := time.Now()
		user.LastLogin = &now
		return nil
	})
}

func (s *Storage) CompleteTrivia(ctx context.Context, id model.UserID, triviaID model.TriviaID) (bool, error) {
	added := false
	err := s.mutateUser(ctx, id, func(user *model.User) error {
		if user.HasCompleted(triviaID) {
			return errNoChange
		}
		user.CompletedTrivias = append(user.CompletedTrivias, triviaID)
		added = true
		return nil
	})
	return added, err
}

func (s *Storage) ResetTrivia(ctx context.Context, triviaID model.TriviaID) (int, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return 0, err
	}

	// Single MULTI/EXEC so the reset applies as one batch
	pipe := s.client.TxPipeline()
	affected := 0
	for _, user := range users {
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
		if !touched {
			continue
		}
		user.UpdatedAt = time.Now()
		data, err := json.Marshal(user)
		if err != nil {
			return 0, err
		}
		pipe.Set(ctx, userKey(user.ID), data, 0)
		affected++
	}
	if affected == 0 {
		return 0, nil
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return affected, nil
}

// Raffle operations

func (s *Storage) ClaimRaffleNumber(ctx context.Context, number int, id model.UserID) (bool, error) {
	field := strconv.Itoa(number)

	// HSETNX is the atomic check-and-reserve
	claimed, err := s.client.HSetNX(ctx, raffleClaimsKey(), field, string(id)).Result()
	if err != nil {
		return false, err
	}
	if !claimed {
		holder, err := s.client.HGet(ctx, raffleClaimsKey(), field).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return false, err
		}
		return holder == string(id), nil
	}

	var previous *int
	err = s.mutateUser(ctx, id, func(user *model.User) error {
		if user.RaffleNumber != nil && *user.RaffleNumber != number {
			prev := *user.RaffleNumber
			previous = &prev
		}
		n := number
		user.RaffleNumber = &n
		return nil
	})
	if err != nil {
		// User vanished after the reservation was taken; free it again
		_ = s.client.HDel(ctx, raffleClaimsKey(), field).Err()
		return false, err
	}

	if previous != nil {
		if err := s.client.HDel(ctx, raffleClaimsKey(), strconv.Itoa(*previous)).Err(); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (s *Storage) ReleaseRaffleNumber(ctx context.Context, number int) error {
	field := strconv.Itoa(number)
	holder, err := s.client.HGet(ctx, raffleClaimsKey(), field).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}

	if err := s.client.HDel(ctx, raffleClaimsKey(), field).Err(); err != nil {
		return err
	}

	err = s.mutateUser(ctx, model.UserID(holder), func(user *model.User) error {
		if user.RaffleNumber == nil || *user.RaffleNumber != number {
			return errNoChange
		}
		user.RaffleNumber = nil
		return nil
	})
	if errors.Is(err, model.ErrUserNotFound) {
		return nil
	}
	return err
}

func (s *Storage) ResetRaffle(ctx context.Context) error {
	claims, err := s.client.HGetAll(ctx, raffleClaimsKey()).Result()
	if err != nil {
		return err
	}

	if err := s.client.Del(ctx, raffleClaimsKey()).Err(); err != nil {
		return err
	}

	for _, holder := range claims {
		err := s.mutateUser(ctx, model.UserID(holder), func(user *model.User) error {
			if user.RaffleNumber == nil {
				return errNoChange
			}
			user.RaffleNumber = nil
			return nil
		})
		if err != nil && !errors.Is(err, model.ErrUserNotFound) {
			return err
		}
	}
	return nil
}

func (s *Storage) ListRaffleClaims(ctx context.Context) (map[int]model.UserID, error) {
	raw, err := s.client.HGetAll(ctx, raffleClaimsKey()).Result()
	if err != nil {
		return nil, err
	}

	claims := make(map[int]model.UserID, len(raw))
	for field, holder := range raw {
		number, err := strconv.Atoi(field)
		if err != nil {
			continue // skip malformed fields
		}
		claims[number] = model.UserID(holder)
	}
	return claims, nil
}

// Trivia operations

func (s *Storage) SaveTrivia(ctx context.Context, trivia *model.Trivia) error {
	data, err := json.Marshal(trivia)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, triviaKey(trivia.ID), data, 0)
	pipe.SAdd(ctx, triviaIndexKey(), string(trivia.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetTrivia(ctx context.Context, id model.TriviaID) (*model.Trivia, error) {
	data, err := s.client.Get(ctx, triviaKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrTriviaNotFound
		}
		return nil, err
	}

	var trivia model.Trivia
	if err := json.Unmarshal(data, &trivia); err != nil {
		return nil, err
	}
	return &trivia, nil
}

func (s *Storage) ListTrivias(ctx context.Context) ([]*model.Trivia, error) {
	ids, err := s.client.SMembers(ctx, triviaIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Trivia{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = triviaKey(model.TriviaID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	trivias := make([]*model.Trivia, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var trivia model.Trivia
		if err := json.Unmarshal([]byte(val.(string)), &trivia); err != nil {
			continue
		}
		trivias = append(trivias, &trivia)
	}
	return trivias, nil
}

func (s *Storage) DeleteTrivia(ctx context.Context, id model.TriviaID) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, triviaKey(id))
	pipe.SRem(ctx, triviaIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

// Prize operations

func (s *Storage) SavePrize(ctx context.Context, prize *model.Prize) error {
	data, err := json.Marshal(prize)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, prizeKey(prize.ID), data, 0)
	pipe.SAdd(ctx, prizeIndexKey(), string(prize.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPrize(ctx context.Context, id model.PrizeID) (*model.Prize, error) {
	data, err := s.client.Get(ctx, prizeKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPrizeNotFound
		}
		return nil, err
	}

	var prize model.Prize
	if err := json.Unmarshal(data, &prize); err != nil {
		return nil, err
	}
	return &prize, nil
}

func (s *Storage) ListPrizes(ctx context.Context) ([]*model.Prize, error) {
	ids, err := s.client.SMembers(ctx, prizeIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Prize{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = prizeKey(model.PrizeID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	prizes := make([]*model.Prize, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var prize model.Prize
		if err := json.Unmarshal([]byte(val.(string)), &prize); err != nil {
			continue
		}
		prizes = append(prizes, &prize)
	}
	return prizes, nil
}

func (s *Storage) DeletePrize(ctx context.Context, id model.PrizeID) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, prizeKey(id))
	pipe.SRem(ctx, prizeIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

// Config operations

func (s *Storage) GetConfig(ctx context.Context) (*model.GlobalConfig, error) {
	data, err := s.client.Get(ctx, configKey()).Bytes()
	if err == nil {
		var cfg model.GlobalConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, err
	}

	// Lazily create defaults; SetNX so concurrent first readers agree
	cfg := model.DefaultGlobalConfig()
	defaultData, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	created, err := s.client.SetNX(ctx, configKey(), defaultData, 0).Result()
	if err != nil {
		return nil, err
	}
	if created {
		return cfg, nil
	}
	return s.GetConfig(ctx)
}

func (s *Storage) SaveConfig(ctx context.Context, cfg *model.GlobalConfig, expectedVersion int64) error {
	key := configKey()

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if err == nil {
			var stored model.GlobalConfig
			if err := json.Unmarshal(data, &stored); err != nil {
				return err
			}
			if stored.Version != expectedVersion {
				return model.ErrConfigConflict
			}
		}

		cfg.Version = expectedVersion + 1
		updated, err := json.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return redis.TxFailedErr
}

// Quiz session operations

func (s *Storage) SaveQuizSession(ctx context.Context, session *model.QuizSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, quizSessionKey(session.UserID, session.TriviaID), data, s.cfg.QuizSessionTTL).Err()
}

func (s *Storage) GetQuizSession(ctx context.Context, userID model.UserID, triviaID model.TriviaID) (*model.QuizSession, error) {
	data, err := s.client.Get(ctx, quizSessionKey(userID, triviaID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.QuizSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) DeleteQuizSession(ctx context.Context, userID model.UserID, triviaID model.TriviaID) error {
	return s.client.Del(ctx, quizSessionKey(userID, triviaID)).Err()
}
