package redis

import (
	"fmt"

	"github.com/edsafest/trivia-service/internal/model"
)

// Key prefix for all event data
const keyPrefix = "triviafest"

// userKey returns the Redis key for a User document
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// userIndexKey returns the Redis key for the SET of all user ids
func userIndexKey() string {
	return fmt.Sprintf("%s:idx:users", keyPrefix)
}

// legajoIndexKey returns the Redis key for the legajo -> user_id index
func legajoIndexKey(legajo string) string {
	return fmt.Sprintf("%s:idx:legajo:%s", keyPrefix, legajo)
}

// triviaKey returns the Redis key for a Trivia document
func triviaKey(id model.TriviaID) string {
	return fmt.Sprintf("%s:trivia:%s", keyPrefix, id)
}

// triviaIndexKey returns the Redis key for the SET of all trivia ids
func triviaIndexKey() string {
	return fmt.Sprintf("%s:idx:trivias", keyPrefix)
}

// prizeKey returns the Redis key for a Prize document
func prizeKey(id model.PrizeID) string {
	return fmt.Sprintf("%s:prize:%s", keyPrefix, id)
}

// prizeIndexKey returns the Redis key for the SET of all prize ids
func prizeIndexKey() string {
	return fmt.Sprintf("%s:idx:prizes", keyPrefix)
}

// raffleClaimsKey returns the Redis key for the number -> user_id HASH.
// HSETNX on this hash is the atomic create-if-absent reservation.
func raffleClaimsKey() string {
	return fmt.Sprintf("%s:raffle:claims", keyPrefix)
}

// configKey returns the Redis key for the singleton GlobalConfig document
func configKey() string {
	return fmt.Sprintf("%s:config:global", keyPrefix)
}

// quizSessionKey returns the Redis key for a QuizSession document
func quizSessionKey(userID model.UserID, triviaID model.TriviaID) string {
	return fmt.Sprintf("%s:quiz:%s:%s", keyPrefix, userID, triviaID)
}
