// internal/pkg/response/response.go
package response

import (
	"net/http"

	xerrors "screenerbot-gateway/internal/pkg/errors"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the failure shape used by guarded and pass-through routes.
type ErrorBody struct {
	Error string `json:"error"`
}

// Result is the success/message envelope used by call and campaign routes.
type Result struct {
	Success  bool        `json:"success"`
	Message  string      `json:"message,omitempty"`
	CallID   string      `json:"callId,omitempty"`
	Campaign interface{} `json:"campaign,omitempty"`
}

// Success writes payload as-is with the given status.
func Success(c *gin.Context, status int, payload interface{}) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, payload)
}

// Error sends {"error": message} and stops the handler chain.
func Error(c *gin.Context, code int, message string) {
	// Abort first so later middleware never runs on a rejected request.
	c.Abort()
	c.JSON(code, ErrorBody{Error: message})
}

// Fail sends {"success": false, "message": message} and stops the handler chain.
func Fail(c *gin.Context, code int, message string) {
	c.Abort()
	c.JSON(code, Result{Success: false, Message: message})
}

// ValidationError sends a 400 Bad Request response for invalid input.
func ValidationError(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 Unauthorized response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 Forbidden response.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound sends a 404 Not Found response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// FromError writes {"error": ...} using the status and public text of err.
func FromError(c *gin.Context, err error) {
	Error(c, xerrors.StatusCode(err), xerrors.PublicMessage(err))
}

// FailFromError writes {"success": false, "message": ...} for err.
func FailFromError(c *gin.Context, err error) {
	Fail(c, xerrors.StatusCode(err), xerrors.PublicMessage(err))
}
