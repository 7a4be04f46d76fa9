package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is written for every non-2xx response.
type ErrorBody struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Data writes v as a 200 JSON body.
func Data[T any](c *gin.Context, v T) {
	c.JSON(http.StatusOK, v)
}

// Empty writes a 200 with no body.
func Empty(c *gin.Context) {
	c.Status(http.StatusOK)
}

// Error aborts the chain and writes an ErrorBody.
func Error(c *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.AbortWithStatusJSON(status, ErrorBody{
		Message:   message,
		RequestID: c.GetString("request_id"),
	})
}
