package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"helpmarket/internal/auth"
	"helpmarket/internal/marketerrors"
	"helpmarket/internal/models"
	"helpmarket/utils"

	"github.com/gin-gonic/gin"
)

const (
	identityKey = "market.identity"
	tokenKey    = "market.token"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, marketerrors.ErrRequestNotFound):
		return http.StatusNotFound, "request not found"
	case errors.Is(err, marketerrors.ErrBidNotFound):
		return http.StatusNotFound, "bid not found"
	case errors.Is(err, marketerrors.ErrConversationNotFound):
		return http.StatusNotFound, "conversation not found"
	case errors.Is(err, marketerrors.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, marketerrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, marketerrors.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid request details"
	case errors.Is(err, marketerrors.ErrInvalidMessage):
		return http.StatusBadRequest, "invalid message"
	case errors.Is(err, auth.ErrInvalidIdentity):
		return http.StatusBadRequest, "invalid identity"
	case errors.Is(err, marketerrors.ErrUnauthenticated):
		return http.StatusUnauthorized, "sign in required"
	case errors.Is(err, marketerrors.ErrSelfBidForbidden):
		return http.StatusForbidden, "cannot bid on your own request"
	case errors.Is(err, marketerrors.ErrForbidden):
		return http.StatusForbidden, "not allowed"
	case errors.Is(err, marketerrors.ErrRequestNotOpen):
		return http.StatusConflict, "request is no longer open"
	case errors.Is(err, marketerrors.ErrInvalidState):
		return http.StatusConflict, "invalid request state"
	case errors.Is(err, marketerrors.ErrDuplicateID):
		return http.StatusConflict, "duplicate id"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// HandleServiceError sends the mapped error response and logs the failure
func HandleServiceError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)

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

// SetIdentity stores the authenticated caller on the gin context
func SetIdentity(c *gin.Context, token string, identity models.Identity) {
	c.Set(identityKey, identity)
	c.Set(tokenKey, token)
}

// Identity returns the authenticated caller, if any
func Identity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}

// SessionToken returns the token the caller authenticated with
func SessionToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}

// RequireIdentity returns the caller or writes a 401 response
func RequireIdentity(c *gin.Context, handlerName string) (models.Identity, bool) {
	id, ok := Identity(c)
	if !ok {
		HandleServiceError(c, handlerName, marketerrors.ErrUnauthenticated, nil)
		return models.Identity{}, false
	}
	return id, true
}
