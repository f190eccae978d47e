package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/edsafest/trivia-service/internal/api/request"
	"github.com/edsafest/trivia-service/internal/api/response"
	"github.com/edsafest/trivia-service/internal/model"
	"github.com/edsafest/trivia-service/internal/services/auth"
	configsvc "github.com/edsafest/trivia-service/internal/services/config"
	"github.com/edsafest/trivia-service/internal/services/game"
	"github.com/edsafest/trivia-service/internal/services/prize"
	"github.com/edsafest/trivia-service/internal/services/raffle"
	"github.com/edsafest/trivia-service/internal/services/trivia"
	"github.com/edsafest/trivia-service/internal/services/user"
	"github.com/edsafest/trivia-service/internal/sse"
)

// AdminHandler handles the administrator endpoints
type AdminHandler struct {
	userService   *user.Service
	authService   *auth.Service
	triviaService *trivia.Service
	prizeService  *prize.Service
	raffleService *raffle.Service
	configService *configsvc.Service
	engine        game.EngineInterface
	broadcaster   *sse.Broadcaster
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	userService *user.Service,
	authService *auth.Service,
	triviaService *trivia.Service,
	prizeService *prize.Service,
	raffleService *raffle.Service,
	configService *configsvc.Service,
	engine game.EngineInterface,
	broadcaster *sse.Broadcaster,
) *AdminHandler {
	return &AdminHandler{
		userService:   userService,
		authService:   authService,
		triviaService: triviaService,
		prizeService:  prizeService,
		raffleService: raffleService,
		configService: configService,
		engine:        engine,
		broadcaster:   broadcaster,
	}
}

// --- Users ---

// CreateUser handles POST /api/v1/admin/users
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req request.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	created, err := h.userService.Create(r.Context(), user.CreateInput{
		Legajo:         req.Legajo,
		Username:       req.Username,
		Role:           model.Role(req.Role),
		UserType:       model.UserType(req.UserType),
		SeniorityScore: req.SeniorityScore,
		Password:       req.Password,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.UserFromModel(created))
}

// ListUsers handles GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.UsersFromModels(users))
}

// GetUser handles GET /api/v1/admin/users/{user_id}
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := model.UserID(mux.Vars(r)["user_id"])
	u, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.UserFromModel(u))
}

// UserResults handles GET /api/v1/admin/users/{user_id}/results.
// It reports the user's answer history for every trivia they have
// started or completed, one results block per trivia.
func (h *AdminHandler) UserResults(w http.ResponseWriter, r *http.Request) {
	userID := model.UserID(mux.Vars(r)["user_id"])
	u, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	seen := make(map[model.TriviaID]bool)
	ids := make([]model.TriviaID, 0, len(u.Answers)+len(u.CompletedTrivias))
	for id := range u.Answers {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, id := range u.CompletedTrivias {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	results := make([]response.Results, 0, len(ids))
	for _, id := range ids {
		res, err := h.engine.TriviaResults(r.Context(), userID, id)
		if errors.Is(err, model.ErrTriviaNotFound) {
			// the trivia was deleted after the user played it
			continue
		}
		if err != nil {
			WriteError(w, err)
			return
		}
		results = append(results, response.ResultsFromService(res))
	}
	response.JSON(w, http.StatusOK, results)
}

// DeleteUser handles DELETE /api/v1/admin/users/{user_id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := model.UserID(mux.Vars(r)["user_id"])
	if err := h.userService.Delete(r.Context(), userID); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// AdjustScore handles POST /api/v1/admin/users/{user_id}/score
func (h *AdminHandler) AdjustScore(w http.ResponseWriter, r *http.Request) {
	var req request.AdjustScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Amount == 0 {
		WriteError(w, NewInvalidRequestError("amount must not be zero"))
		return
	}
	switch model.ScoreBucket(req.Bucket) {
	case model.BucketSeniority, model.BucketPelado, model.BucketRaffle:
	default:
		WriteError(w, NewInvalidRequestError("bucket must be seniority, pelado or raffle"))
		return
	}

	userID := model.UserID(mux.Vars(r)["user_id"])
	u, err := h.userService.AdjustScore(r.Context(), userID, model.ScoreBucket(req.Bucket), req.Amount)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.BroadcastScore(u.ID, u.Score)
	response.JSON(w, http.StatusOK, response.UserFromModel(u))
}

// ResetPassword handles POST /api/v1/admin/users/{user_id}/password-reset
func (h *AdminHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	userID := model.UserID(mux.Vars(r)["user_id"])
	if err := h.authService.ResetPassword(r.Context(), userID); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// --- Trivias ---

// CreateTrivia handles POST /api/v1/admin/trivias
func (h *AdminHandler) CreateTrivia(w http.ResponseWriter, r *http.Request) {
	var req request.TriviaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	created, err := h.triviaService.Create(r.Context(), req.Name, questionInputs(req.Questions))
	if err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	h.broadcaster.BroadcastTriviasChanged()
	response.JSON(w, http.StatusCreated, response.TriviaFromModel(created))
}

// ListTrivias handles GET /api/v1/admin/trivias
func (h *AdminHandler) ListTrivias(w http.ResponseWriter, r *http.Request) {
	trivias, err := h.triviaService.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	out := make([]response.Trivia, 0, len(trivias))
	for _, t := range trivias {
		out = append(out, response.TriviaFromModel(t))
	}
	response.JSON(w, http.StatusOK, out)
}

// GetTrivia handles GET /api/v1/admin/trivias/{trivia_id}
func (h *AdminHandler) GetTrivia(w http.ResponseWriter, r *http.Request) {
	triviaID := model.TriviaID(mux.Vars(r)["trivia_id"])
	t, err := h.triviaService.Get(r.Context(), triviaID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.TriviaFromModel(t))
}

// UpdateTrivia handles PUT /api/v1/admin/trivias/{trivia_id}
func (h *AdminHandler) UpdateTrivia(w http.ResponseWriter, r *http.Request) {
	var req request.TriviaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	triviaID := model.TriviaID(mux.Vars(r)["trivia_id"])
	updated, err := h.triviaService.Update(r.Context(), triviaID, req.Name, questionInputs(req.Questions))
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.BroadcastTriviasChanged()
	response.JSON(w, http.StatusOK, response.TriviaFromModel(updated))
}

// DeleteTrivia handles DELETE /api/v1/admin/trivias/{trivia_id}
func (h *AdminHandler) DeleteTrivia(w http.ResponseWriter, r *http.Request) {
	triviaID := model.TriviaID(mux.Vars(r)["trivia_id"])
	if err := h.triviaService.Delete(r.Context(), triviaID); err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.BroadcastTriviasChanged()
	response.NoContent(w)
}

// ResetTrivia handles POST /api/v1/admin/trivias/{trivia_id}/reset:
// clears every user's completion and answers for the trivia so it can
// be replayed. Scores already awarded are kept.
func (h *AdminHandler) ResetTrivia(w http.ResponseWriter, r *http.Request) {
	triviaID := model.TriviaID(mux.Vars(r)["trivia_id"])
	affected, err := h.engine.ResetTriviaForAllUsers(r.Context(), triviaID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.BroadcastTriviasChanged()
	response.JSON(w, http.StatusOK, map[string]int{"affected_users": affected})
}

// --- Prizes ---

// CreatePrize handles POST /api/v1/admin/prizes
func (h *AdminHandler) CreatePrize(w http.ResponseWriter, r *http.Request) {
	var req request.PrizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	created, err := h.prizeService.Create(r.Context(), prizeInput(req))
	if err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	h.broadcaster.BroadcastPrizesChanged()
	response.JSON(w, http.StatusCreated, response.PrizeFromModel(created))
}

// ListPrizes handles GET /api/v1/admin/prizes (product URLs always shown)
func (h *AdminHandler) ListPrizes(w http.ResponseWriter, r *http.Request) {
	prizes, err := h.prizeService.ListFull(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PrizesFromModels(prizes))
}

// UpdatePrize handles PUT /api/v1/admin/prizes/{prize_id}
func (h *AdminHandler) UpdatePrize(w http.ResponseWriter, r *http.Request) {
	var req request.PrizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	prizeID := model.PrizeID(mux.Vars(r)["prize_id"])
	updated, err := h.prizeService.Update(r.Context(), prizeID, prizeInput(req))
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.BroadcastPrizesChanged()
	response.JSON(w, http.StatusOK, response.PrizeFromModel(updated))
}

// DeletePrize handles DELETE /api/v1/admin/prizes/{prize_id}
func (h *AdminHandler) DeletePrize(w http.ResponseWriter, r *http.Request) {
	prizeID := model.PrizeID(mux.Vars(r)["prize_id"])
	if err := h.prizeService.Delete(r.Context(), prizeID); err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.BroadcastPrizesChanged()
	response.NoContent(w)
}

// --- Raffle ---

// FreeNumber handles DELETE /api/v1/admin/raffle/{number}
func (h *AdminHandler) FreeNumber(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("number must be an integer"))
		return
	}

	if err := h.raffleService.FreeNumber(r.Context(), number); err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.BroadcastRaffleFreed(number)
	response.NoContent(w)
}

// DrawRaffle handles POST /api/v1/admin/raffle/draw: picks a random
// winner among the claimed numbers without touching the board
func (h *AdminHandler) DrawRaffle(w http.ResponseWriter, r *http.Request) {
	winner, err := h.raffleService.Draw(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RaffleClaim{
		Number: winner.Number,
		UserID: string(winner.UserID),
		Name:   winner.Name,
		Legajo: winner.Legajo,
	})
}

// ResetRaffle handles POST /api/v1/admin/raffle/reset
func (h *AdminHandler) ResetRaffle(w http.ResponseWriter, r *http.Request) {
	if err := h.raffleService.Reset(r.Context()); err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.BroadcastRaffleReset()
	response.NoContent(w)
}

// --- Config ---

// GetConfig handles GET /api/v1/admin/config
func (h *AdminHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.configService.Get(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ConfigFromModel(cfg))
}

// UpdateConfig handles PUT /api/v1/admin/config. The request carries the
// version the admin last read; stale writes are rejected.
func (h *AdminHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	ids := make([]model.TriviaID, 0, len(req.ActiveTriviaIDs))
	for _, id := range req.ActiveTriviaIDs {
		ids = append(ids, model.TriviaID(id))
	}
	cfg := &model.GlobalConfig{
		ActiveTriviaIDs:   ids,
		RaffleEnabled:     req.RaffleEnabled,
		PrizeURLsEnabled:  req.PrizeURLsEnabled,
		TriviaPointsLimit: req.TriviaPointsLimit,
	}

	updated, err := h.configService.Update(r.Context(), cfg, req.Version)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.BroadcastConfig(updated)
	response.JSON(w, http.StatusOK, response.ConfigFromModel(updated))
}

// SetRaffleEnabled handles PATCH /api/v1/admin/config/raffle
func (h *AdminHandler) SetRaffleEnabled(w http.ResponseWriter, r *http.Request) {
	var req request.ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	cfg, err := h.configService.SetRaffleEnabled(r.Context(), req.Enabled)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.BroadcastConfig(cfg)
	response.JSON(w, http.StatusOK, response.ConfigFromModel(cfg))
}

// SetPrizeURLsEnabled handles PATCH /api/v1/admin/config/prize-urls
func (h *AdminHandler) SetPrizeURLsEnabled(w http.ResponseWriter, r *http.Request) {
	var req request.ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	cfg, err := h.configService.SetPrizeURLsEnabled(r.Context(), req.Enabled)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.BroadcastConfig(cfg)
	response.JSON(w, http.StatusOK, response.ConfigFromModel(cfg))
}

// SetPointsLimit handles PATCH /api/v1/admin/config/points-limit
func (h *AdminHandler) SetPointsLimit(w http.ResponseWriter, r *http.Request) {
	var req request.PointsLimitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	cfg, err := h.configService.SetPointsLimit(r.Context(), req.Limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.BroadcastConfig(cfg)
	response.JSON(w, http.StatusOK, response.ConfigFromModel(cfg))
}

// SetActiveTrivias handles PATCH /api/v1/admin/config/active-trivias
func (h *AdminHandler) SetActiveTrivias(w http.ResponseWriter, r *http.Request) {
	var req request.ActiveTriviasRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	ids := make([]model.TriviaID, 0, len(req.TriviaIDs))
	for _, id := range req.TriviaIDs {
		ids = append(ids, model.TriviaID(id))
	}

	cfg, err := h.configService.SetActiveTrivias(r.Context(), ids)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.BroadcastConfig(cfg)
	response.JSON(w, http.StatusOK, response.ConfigFromModel(cfg))
}

func questionInputs(payloads []request.QuestionPayload) []trivia.QuestionInput {
	inputs := make([]trivia.QuestionInput, 0, len(payloads))
	for _, p := range payloads {
		inputs = append(inputs, trivia.QuestionInput{
			Text:          p.Text,
			ImageURL:      p.ImageURL,
			Options:       p.Options,
			CorrectAnswer: p.CorrectAnswer,
			Timer:         p.Timer,
			Points:        p.Points,
		})
	}
	return inputs
}

func prizeInput(req request.PrizeRequest) prize.Input {
	return prize.Input{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Cost:        req.Cost,
		ProductURL:  req.ProductURL,
	}
}
