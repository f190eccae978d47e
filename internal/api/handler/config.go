package handler

import (
	"net/http"

	"github.com/edsafest/trivia-service/internal/api/response"
	configsvc "github.com/edsafest/trivia-service/internal/services/config"
)

// ConfigHandler serves the player-facing configuration view
type ConfigHandler struct {
	configService *configsvc.Service
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(configService *configsvc.Service) *ConfigHandler {
	return &ConfigHandler{
		configService: configService,
	}
}

// View handles GET /api/v1/config
func (h *ConfigHandler) View(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.configService.Get(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PublicConfigFromModel(cfg))
}
