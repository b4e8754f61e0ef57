package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"octopus-dashboard/internal/api/models"
)

// Recovery converts panics into a 500 with the standard error envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "An unexpected error occurred",
		})
		c.Abort()
	})
}
