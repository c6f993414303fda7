package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Zachkp/portfolio/internal/apperror"
)

const (
	visitorCookie  = "visitor_id"
	visitorKey     = "visitorID"
	visitorMaxAge  = 3600 * 24 * 365
	genericFailure = "An unexpected error occurred. Please try again later."
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// errorHandler renders the last error a handler pushed with c.Error.
func errorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Err != nil {
				logger.Warn("request failed", "path", c.Request.URL.Path, "status", appErr.Code, "error", appErr.Err)
			}
			c.JSON(appErr.Code, errorBody{Message: appErr.Message})
			return
		}
		logger.Error("internal server error", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, errorBody{Message: genericFailure})
	}
}

// visitorMiddleware gives every browser a stable random id. The contact
// form, its notifications and the theme preference all hang off it.
func visitorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(visitorCookie)
		if err == nil {
			_, err = uuid.Parse(id)
		}
		if err != nil {
			id = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(visitorCookie, id, visitorMaxAge, "/", "", false, true)
		}
		c.Set(visitorKey, id)
		c.Next()
	}
}

func visitorID(c *gin.Context) string {
	return c.GetString(visitorKey)
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}
