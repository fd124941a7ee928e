package handler

import (
	"github.com/gin-gonic/gin"

	apperrors "focustimer/internal/errors"
)

func writeError(c *gin.Context, apiErr *apperrors.APIError) {
	if apiErr == nil {
		apiErr = apperrors.Internal("")
	}
	c.JSON(apiErr.Status, apiErr.Envelope())
}

// writeServiceError maps a service error onto the error envelope.
func writeServiceError(c *gin.Context, err error, fallback string) {
	writeError(c, apperrors.FromError(err, fallback))
}

func writeInvalidJSON(c *gin.Context) {
	writeError(c, apperrors.BadRequest(apperrors.CodeInvalidJSON, "invalid request body"))
}
