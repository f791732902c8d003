package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobtrackio/jobtrack-api/pkg/helpers"
	"github.com/jobtrackio/jobtrack-api/pkg/response"
)

// Context keys set by the auth middleware.
const (
	CtxUserID    = "userID"
	CtxUserEmail = "userEmail"
)

// RequireAuth validates the bearer access token and sets userID and userEmail
// in the Gin context. Missing and invalid tokens produce distinct 401 bodies
// so clients can tell "log in" apart from "refresh".
func RequireAuth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := helpers.ExtractBearer(c.GetHeader("Authorization"))
		if token == "" {
			response.Err(c, http.StatusUnauthorized, "Authentication required", "No token provided")
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Err(c, http.StatusUnauthorized, "Authentication failed", "Invalid or expired token")
			c.Abort()
			return
		}
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserEmail, claims.Email)
		c.Next()
	}
}

// OptionalAuth sets the user identity when a valid bearer token is present and
// otherwise lets the request through anonymously. It never aborts.
func OptionalAuth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := helpers.ExtractBearer(c.GetHeader("Authorization")); token != "" {
			if claims, err := jwt.ParseAccessToken(token); err == nil {
				c.Set(CtxUserID, claims.UserID)
				c.Set(CtxUserEmail, claims.Email)
			}
		}
		c.Next()
	}
}

// UserID returns the authenticated user's id from the context, or false when
// the request is anonymous.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
