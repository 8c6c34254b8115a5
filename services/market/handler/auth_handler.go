package handler

import (
	"net/http"

	model "helpmarket/internal/models"
	"helpmarket/services/market/helpers"
	"helpmarket/utils"

	"github.com/gin-gonic/gin"
)

// SessionManager signs identities in and out
type SessionManager interface {
	SignIn(identity model.Identity) (string, error)
	SignOut(token string)
}

type AuthHandler struct {
	sessions SessionManager
}

func NewAuthHandler(sessions SessionManager) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// SignInHandler handles POST /auth/sessions
func (h *AuthHandler) SignInHandler(c *gin.Context) {
	var req helpers.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SignInHandler", err)
		return
	}

	identity := model.Identity{UserID: req.UserID, DisplayName: req.DisplayName, Rating: req.Rating}
	token, err := h.sessions.SignIn(identity)
	if err != nil {
		helpers.HandleServiceError(c, "SignInHandler", err, map[string]any{"user_id": req.UserID})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.SessionResponse{Token: token, Identity: identity}, "signed in")
	helpers.LogSuccess("SignInHandler", "signed in", map[string]any{"user_id": identity.UserID})
}

// SignOutHandler handles DELETE /auth/sessions
func (h *AuthHandler) SignOutHandler(c *gin.Context) {
	user, ok := helpers.RequireIdentity(c, "SignOutHandler")
	if !ok {
		return
	}

	h.sessions.SignOut(helpers.SessionToken(c))
	utils.JSONResponse(c, http.StatusOK, nil, "signed out")
	helpers.LogSuccess("SignOutHandler", "signed out", map[string]any{"user_id": user.UserID})
}

// CurrentUserHandler handles GET /auth/me
func (h *AuthHandler) CurrentUserHandler(c *gin.Context) {
	user, ok := helpers.RequireIdentity(c, "CurrentUserHandler")
	if !ok {
		return
	}
	utils.JSONResponse(c, http.StatusOK, user, "current user")
}
