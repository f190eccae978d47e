package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/edsafest/trivia-service/internal/api/middleware"
	"github.com/edsafest/trivia-service/internal/api/request"
	"github.com/edsafest/trivia-service/internal/api/response"
	"github.com/edsafest/trivia-service/internal/model"
	"github.com/edsafest/trivia-service/internal/services/game"
	"github.com/edsafest/trivia-service/internal/services/quiz"
	"github.com/edsafest/trivia-service/internal/services/trivia"
	"github.com/edsafest/trivia-service/internal/sse"
	"github.com/edsafest/trivia-service/internal/storage"
)

// QuizHandler handles the player-facing trivia and quiz endpoints
type QuizHandler struct {
	triviaService *trivia.Service
	runner        *quiz.Runner
	engine        game.EngineInterface
	storage       storage.Storage
	broadcaster   *sse.Broadcaster
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(
	triviaService *trivia.Service,
	runner *quiz.Runner,
	engine game.EngineInterface,
	storage storage.Storage,
	broadcaster *sse.Broadcaster,
) *QuizHandler {
	return &QuizHandler{
		triviaService: triviaService,
		runner:        runner,
		engine:        engine,
		storage:       storage,
		broadcaster:   broadcaster,
	}
}

// ListActive handles GET /api/v1/trivias: the active trivias, flagged
// with the caller's completion state
func (h *QuizHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())
	user, err := h.storage.GetUser(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	trivias, err := h.triviaService.ListActive(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	summaries := make([]response.TriviaSummary, 0, len(trivias))
	for _, t := range trivias {
		summaries = append(summaries, response.TriviaSummaryFromModel(t, user.HasCompleted(t.ID)))
	}
	response.JSON(w, http.StatusOK, summaries)
}

// Start handles POST /api/v1/trivias/{trivia_id}/quiz
func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())
	triviaID := model.TriviaID(mux.Vars(r)["trivia_id"])

	snapshot, err := h.runner.Start(r.Context(), userID, triviaID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.QuizSnapshotFromService(snapshot))
}

// Current handles GET /api/v1/trivias/{trivia_id}/quiz
func (h *QuizHandler) Current(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())
	triviaID := model.TriviaID(mux.Vars(r)["trivia_id"])

	snapshot, err := h.runner.Current(r.Context(), userID, triviaID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.QuizSnapshotFromService(snapshot))
}

// Answer handles POST /api/v1/trivias/{trivia_id}/quiz/answer
func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req request.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	userID := middleware.MustGetUserID(r.Context())
	triviaID := model.TriviaID(mux.Vars(r)["trivia_id"])

	outcome, err := h.runner.Answer(r.Context(), userID, triviaID, req.Answer)
	if err != nil {
		WriteError(w, err)
		return
	}

	if outcome.Result.Awarded > 0 {
		h.broadcaster.BroadcastScore(userID, outcome.Result.TotalScore)
	}
	response.JSON(w, http.StatusOK, response.AnswerResultFromService(outcome))
}

// Advance handles POST /api/v1/trivias/{trivia_id}/quiz/advance
func (h *QuizHandler) Advance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())
	triviaID := model.TriviaID(mux.Vars(r)["trivia_id"])

	snapshot, err := h.runner.Advance(r.Context(), userID, triviaID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.QuizSnapshotFromService(snapshot))
}

// Results handles GET /api/v1/trivias/{trivia_id}/results
func (h *QuizHandler) Results(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())
	triviaID := model.TriviaID(mux.Vars(r)["trivia_id"])

	results, err := h.engine.TriviaResults(r.Context(), userID, triviaID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ResultsFromService(results))
}
