package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"focustimer/internal/model"
	"focustimer/internal/service"
)

type DataHandler struct {
	dataService *service.DataService
}

func NewDataHandler(dataService *service.DataService) *DataHandler {
	return &DataHandler{dataService: dataService}
}

// Export returns the portable document. ?settings=false leaves settings out.
func (h *DataHandler) Export(c *gin.Context) {
	includeSettings := true
	if raw := c.Query("settings"); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			includeSettings = parsed
		}
	}
	c.JSON(http.StatusOK, h.dataService.Export(includeSettings))
}

func (h *DataHandler) Import(c *gin.Context) {
	var data model.ExportData
	if err := c.ShouldBindJSON(&data); err != nil {
		writeInvalidJSON(c)
		return
	}

	if err := h.dataService.Import(c.Request.Context(), data); err != nil {
		writeServiceError(c, err, "failed to import data")
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": len(data.Sessions)})
}
