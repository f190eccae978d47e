package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/edsafest/trivia-service/internal/model"
	"github.com/edsafest/trivia-service/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeLegajoExists       = "LEGAJO_EXISTS"
	CodeTriviaNotFound     = "TRIVIA_NOT_FOUND"
	CodeQuestionNotFound   = "QUESTION_NOT_FOUND"
	CodeTriviaInactive     = "TRIVIA_INACTIVE"
	CodeTriviaCompleted    = "TRIVIA_COMPLETED"
	CodeSessionNotFound    = "QUIZ_SESSION_NOT_FOUND"
	CodeAlreadyAnswered    = "ALREADY_ANSWERED"
	CodeNotAnswered        = "NOT_ANSWERED"
	CodeQuizFinished       = "QUIZ_FINISHED"
	CodeRaffleDisabled     = "RAFFLE_DISABLED"
	CodeNumberTaken        = "NUMBER_TAKEN"
	CodeInvalidNumber      = "INVALID_NUMBER"
	CodeRaffleEmpty        = "RAFFLE_EMPTY"
	CodeGuestNotEligible   = "GUEST_NOT_ELIGIBLE"
	CodePrizeNotFound      = "PRIZE_NOT_FOUND"
	CodeConfigConflict     = "CONFIG_CONFLICT"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrLegajoExists):
		return &httpError{http.StatusConflict, APIError{CodeLegajoExists, "A user with this legajo already exists"}}
	case errors.Is(err, model.ErrTriviaNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeTriviaNotFound, "Trivia not found"}}
	case errors.Is(err, model.ErrQuestionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeQuestionNotFound, "Question not found"}}
	case errors.Is(err, model.ErrTriviaInactive):
		return &httpError{http.StatusConflict, APIError{CodeTriviaInactive, "Trivia is not currently active"}}
	case errors.Is(err, model.ErrTriviaCompleted):
		return &httpError{http.StatusConflict, APIError{CodeTriviaCompleted, "Trivia already completed"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "No quiz in progress"}}
	case errors.Is(err, model.ErrAlreadyAnswered):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyAnswered, "Question already answered"}}
	case errors.Is(err, model.ErrNotAnswered):
		return &httpError{http.StatusConflict, APIError{CodeNotAnswered, "Current question has not been answered"}}
	case errors.Is(err, model.ErrQuizFinished):
		return &httpError{http.StatusConflict, APIError{CodeQuizFinished, "Quiz already finished"}}
	case errors.Is(err, model.ErrRaffleDisabled):
		return &httpError{http.StatusConflict, APIError{CodeRaffleDisabled, "Raffle selection is disabled"}}
	case errors.Is(err, model.ErrNumberTaken):
		return &httpError{http.StatusConflict, APIError{CodeNumberTaken, "Number is already taken"}}
	case errors.Is(err, model.ErrInvalidNumber):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidNumber, "Number is outside the raffle board"}}
	case errors.Is(err, model.ErrGuestNotEligible):
		return &httpError{http.StatusForbidden, APIError{CodeGuestNotEligible, "Guests cannot participate in the raffle"}}
	case errors.Is(err, model.ErrRaffleEmpty):
		return &httpError{http.StatusConflict, APIError{CodeRaffleEmpty, "No raffle numbers have been claimed"}}
	case errors.Is(err, model.ErrPrizeNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePrizeNotFound, "Prize not found"}}
	case errors.Is(err, model.ErrConfigConflict):
		return &httpError{http.StatusConflict, APIError{CodeConfigConflict, "Configuration was modified by another admin"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid legajo or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError() error {
	return &httpError{http.StatusForbidden, APIError{CodeForbidden, "Admin access required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
