package response

import "github.com/gin-gonic/gin"

// ErrorBody is the error envelope for every failed request:
// a short machine-ish title plus a human message, optionally with
// per-field validation details.
type ErrorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// Meta carries pagination info alongside list payloads.
type Meta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Err writes a standard error body and the given status.
func Err(c *gin.Context, status int, title, message string) {
	c.JSON(status, ErrorBody{Error: title, Message: message})
}

// ErrDetails writes an error body with validation details.
func ErrDetails(c *gin.Context, status int, title, message string, details map[string]string) {
	c.JSON(status, ErrorBody{Error: title, Message: message, Details: details})
}

// JSON writes an arbitrary success payload.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// Data wraps a payload in {"data": ...}.
func Data(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

// DataMeta wraps a list payload with pagination meta.
func DataMeta(c *gin.Context, status int, data any, meta Meta) {
	c.JSON(status, gin.H{"data": data, "meta": meta})
}
