package helpers

import (
	"fmt"
	"net/http"
	"strings"

	"live-auction/internal/biddingerrors"
	"live-auction/internal/models"
	"live-auction/utils"

	"github.com/gin-gonic/gin"
)

// Identity headers set by the upstream gateway
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserName = "X-User-Name"
)

const currentUserKey = "currentUser"

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	message := biddingerrors.UserMessage(err)
	switch biddingerrors.KindOf(err) {
	case biddingerrors.KindNotFound:
		return http.StatusNotFound, message
	case biddingerrors.KindInvalidInput, biddingerrors.KindInvalidState:
		return http.StatusBadRequest, message
	case biddingerrors.KindUnauthenticated:
		return http.StatusUnauthorized, message
	case biddingerrors.KindUnavailable:
		return http.StatusServiceUnavailable, message
	default:
		return http.StatusInternalServerError, message
	}
}

// RespondError writes the mapped error response and logs it at a level that
// matches who is at fault
func RespondError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, err, message)

	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
		return
	}
	utils.Warn(handlerName+": request rejected", fields)
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}

// UserFromHeaders reads the trusted identity headers
func UserFromHeaders(r *http.Request) (models.User, bool) {
	user := models.User{
		UserID: strings.TrimSpace(r.Header.Get(HeaderUserID)),
		Name:   strings.TrimSpace(r.Header.Get(HeaderUserName)),
	}
	return user, user.UserID != ""
}

// SetCurrentUser stores the caller identity on the request context
func SetCurrentUser(c *gin.Context, user models.User) {
	c.Set(currentUserKey, user)
}

// CurrentUser returns the identity stored by SetCurrentUser
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok && user.UserID != ""
}
