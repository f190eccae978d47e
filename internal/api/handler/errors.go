package handler

import (
	"net/http"

	"github.com/edsafest/trivia-service/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest     = apierr.CodeInvalidRequest
	CodeUnauthorized       = apierr.CodeUnauthorized
	CodeForbidden          = apierr.CodeForbidden
	CodeInvalidCredentials = apierr.CodeInvalidCredentials
	CodeUserNotFound       = apierr.CodeUserNotFound
	CodeLegajoExists       = apierr.CodeLegajoExists
	CodeTriviaNotFound     = apierr.CodeTriviaNotFound
	CodeQuestionNotFound   = apierr.CodeQuestionNotFound
	CodeTriviaInactive     = apierr.CodeTriviaInactive
	CodeTriviaCompleted    = apierr.CodeTriviaCompleted
	CodeSessionNotFound    = apierr.CodeSessionNotFound
	CodeAlreadyAnswered    = apierr.CodeAlreadyAnswered
	CodeNotAnswered        = apierr.CodeNotAnswered
	CodeQuizFinished       = apierr.CodeQuizFinished
	CodeRaffleDisabled     = apierr.CodeRaffleDisabled
	CodeNumberTaken        = apierr.CodeNumberTaken
	CodeInvalidNumber      = apierr.CodeInvalidNumber
	CodePrizeNotFound      = apierr.CodePrizeNotFound
	CodeConfigConflict     = apierr.CodeConfigConflict
	CodeInternalError      = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return apierr.NewUnauthorizedError()
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
