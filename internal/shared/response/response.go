package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ApiEnvelope struct {
	Ok    bool `json:"ok"`
	Error any  `json:"error,omitempty"`
}

// JSON writes data as the bare response body.
func JSON(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

// NoContent writes the status line immediately so handlers invoked outside
// the engine still report 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
	c.Writer.WriteHeaderNow()
}

// Error writes the error envelope. details is left out when nil.
func Error(c *gin.Context, status int, errorCode string, message string, details any) {
	body := map[string]any{
		"code":    errorCode,
		"message": message,
	}
	if details != nil {
		body["details"] = details
	}
	c.JSON(status, ApiEnvelope{
		Ok:    false,
		Error: body,
	})
}

// AbortWithError writes the error envelope and stops the handler chain.
func AbortWithError(c *gin.Context, status int, errorCode string, message string) {
	Error(c, status, errorCode, message, nil)
	c.Abort()
}
