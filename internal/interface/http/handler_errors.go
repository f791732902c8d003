package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jobtrackio/jobtrack-api/internal/application"
	"github.com/jobtrackio/jobtrack-api/pkg/response"
)

// writeServiceErr maps application errors onto the wire taxonomy. Anything
// unrecognized is logged and returned as an opaque 500.
func writeServiceErr(c *gin.Context, logger *logrus.Logger, err error) {
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrDetails(c, http.StatusBadRequest, "Validation failed", verr.Error(),
			map[string]string{verr.Field: verr.Reason})
	case errors.Is(err, application.ErrEmailTaken):
		response.Err(c, http.StatusConflict, "Registration failed", "Email is already registered")
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Err(c, http.StatusUnauthorized, "Authentication failed", "Invalid email or password")
	case errors.Is(err, application.ErrInvalidRefreshToken):
		response.Err(c, http.StatusUnauthorized, "Authentication failed", "Invalid or expired refresh token")
	case errors.Is(err, application.ErrUserNotFound):
		response.Err(c, http.StatusNotFound, "Not found", "User not found")
	case errors.Is(err, application.ErrJobNotFound):
		response.Err(c, http.StatusNotFound, "Not found", "Job not found")
	default:
		if logger != nil {
			logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		}
		response.Err(c, http.StatusInternalServerError, "Internal server error", "")
	}
}
