package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"focustimer/internal/model"
	"focustimer/internal/service"
)

type TimerHandler struct {
	timerService *service.TimerService
}

type taskRequest struct {
	Label string `json:"label"`
}

func NewTimerHandler(timerService *service.TimerService) *TimerHandler {
	return &TimerHandler{timerService: timerService}
}

func (h *TimerHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.timerService.Status()})
}

func (h *TimerHandler) Start(c *gin.Context) {
	h.transition(c, h.timerService.Start)
}

func (h *TimerHandler) Pause(c *gin.Context) {
	h.transition(c, h.timerService.Pause)
}

func (h *TimerHandler) Resume(c *gin.Context) {
	h.transition(c, h.timerService.Resume)
}

func (h *TimerHandler) Reset(c *gin.Context) {
	h.transition(c, h.timerService.Reset)
}

func (h *TimerHandler) Skip(c *gin.Context) {
	h.transition(c, h.timerService.Skip)
}

func (h *TimerHandler) Next(c *gin.Context) {
	h.transition(c, h.timerService.StartNextSession)
}

func (h *TimerHandler) SetTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	state := h.timerService.SetTaskLabel(c.Request.Context(), req.Label)
	c.JSON(http.StatusOK, gin.H{"state": state})
}

// transition runs a timer action. Actions that do not apply in the current
// state still answer 200 with changed=false.
func (h *TimerHandler) transition(c *gin.Context, action func(context.Context) (model.TimerStatus, bool)) {
	state, changed := action(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"state": state, "changed": changed})
}
