package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/scanpay/pkg/apperror"
	"github.com/sangkips/scanpay/pkg/pagination"
	"github.com/sangkips/scanpay/pkg/utils"
)

// APIResponse represents a standard API response. Failures carry the
// notification Title and the error Kind for the screen to present.
type APIResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Title   string        `json:"title,omitempty"`
	Kind    apperror.Kind `json:"kind,omitempty"`
	Warning string        `json:"warning,omitempty"`
	Data    interface{}   `json:"data,omitempty"`
	Errors  interface{}   `json:"errors,omitempty"`
	Meta    *Meta         `json:"meta,omitempty"`
}

// Meta contains metadata about the response
type Meta struct {
	Timestamp  string                 `json:"timestamp"`
	RequestID  string                 `json:"request_id"`
	Pagination *pagination.Pagination `json:"pagination,omitempty"`
}

// RequestIDKey is the gin context key the request id is stored under
const RequestIDKey = "request_id"

func newMeta(c *gin.Context) *Meta {
	requestID := c.GetString(RequestIDKey)
	if requestID == "" {
		requestID = c.GetHeader(utils.RequestIDHeader)
	}
	if requestID == "" {
		requestID = utils.NewRequestID()
	}
	return &Meta{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
	}
}

// Success sends a success response
func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    newMeta(c),
	})
}

// SuccessWithWarning reports a completed action whose follow-up step failed
func SuccessWithWarning(c *gin.Context, message, warning string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: message,
		Warning: warning,
		Data:    data,
		Meta:    newMeta(c),
	})
}

// SuccessWithPagination sends a page of items with its pagination in meta
func SuccessWithPagination(c *gin.Context, message string, data interface{}, p *pagination.Pagination) {
	meta := newMeta(c)
	meta.Pagination = p
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// Error sends an error response
func Error(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	if !apperror.IsAppError(err) {
		// never leak internal error text to the screen
		appErr = apperror.With(apperror.ErrInternalServer, "", err)
	}
	_ = c.Error(err)
	c.JSON(appErr.Code, APIResponse{
		Success: false,
		Message: appErr.Message,
		Title:   appErr.Title,
		Kind:    appErr.Kind,
		Errors:  appErr.Errors,
		Meta:    newMeta(c),
	})
}

// OK sends a 200 OK response
func OK(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusOK, message, data)
}

// BadRequest sends a 400 Bad Request response
func BadRequest(c *gin.Context, message string) {
	Error(c, apperror.NewBadRequestError(message))
}
