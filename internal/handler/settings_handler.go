package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "focustimer/internal/errors"
	"focustimer/internal/model"
	"focustimer/internal/service"
)

type SettingsHandler struct {
	settingsService *service.SettingsService
}

func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": h.settingsService.Current()})
}

func (h *SettingsHandler) Update(c *gin.Context) {
	var patch model.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeInvalidJSON(c)
		return
	}
	if patch.Empty() {
		writeError(c, apperrors.BadRequest(apperrors.CodeEmptyUpdate, "no settings to update"))
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), patch)
	if err != nil {
		writeServiceError(c, err, "failed to update settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *SettingsHandler) Reset(c *gin.Context) {
	settings, err := h.settingsService.Reset(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "failed to reset settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *SettingsHandler) Presets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": h.settingsService.Presets()})
}

func (h *SettingsHandler) ApplyPreset(c *gin.Context) {
	settings, err := h.settingsService.ApplyPreset(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrPresetNotFound) {
		writeError(c, apperrors.NotFound(apperrors.CodePresetNotFound, "preset not found"))
		return
	}
	if err != nil {
		writeServiceError(c, err, "failed to apply preset")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}
