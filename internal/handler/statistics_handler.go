package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"focustimer/internal/daterange"
	apperrors "focustimer/internal/errors"
	"focustimer/internal/service"
)

const defaultSessionLimit = 50

type StatisticsHandler struct {
	statisticsService *service.StatisticsService
	sessionLog        *service.SessionLog
	dates             *daterange.Parser
	now               func() time.Time
}

func NewStatisticsHandler(statisticsService *service.StatisticsService, sessionLog *service.SessionLog) *StatisticsHandler {
	return &StatisticsHandler{
		statisticsService: statisticsService,
		sessionLog:        sessionLog,
		dates:             daterange.NewParser(time.Local),
		now:               time.Now,
	}
}

func (h *StatisticsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"statistics": h.statisticsService.Current()})
}

// Daily answers the buckets between ?from and ?to. Both accept ISO dates or
// phrases such as "last monday".
func (h *StatisticsHandler) Daily(c *gin.Context) {
	from, to, err := h.dates.Range(c.Query("from"), c.Query("to"), h.now())
	if err != nil {
		writeError(c, apperrors.BadRequest(apperrors.CodeInvalidDateRange, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from": from.Format("2006-01-02"),
		"to":   to.Format("2006-01-02"),
		"days": h.statisticsService.DailyRange(from, to),
	})
}

func (h *StatisticsHandler) Rebuild(c *gin.Context) {
	if err := h.statisticsService.Rebuild(c.Request.Context()); err != nil {
		writeServiceError(c, err, "failed to rebuild statistics")
		return
	}
	c.JSON(http.StatusOK, gin.H{"statistics": h.statisticsService.Current()})
}

func (h *StatisticsHandler) Reset(c *gin.Context) {
	if err := h.statisticsService.Reset(c.Request.Context()); err != nil {
		writeServiceError(c, err, "failed to reset statistics")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StatisticsHandler) Sessions(c *gin.Context) {
	limit := defaultSessionLimit
	rawLimit := c.Query("limit")
	if rawLimit != "" {
		if parsed, err := strconv.Atoi(rawLimit); err == nil {
			limit = parsed
		}
	}

	c.JSON(http.StatusOK, gin.H{"sessions": h.sessionLog.Recent(limit)})
}
