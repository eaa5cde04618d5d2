package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/clinical-data-api/internal/constants"
	"github.com/yukikurage/clinical-data-api/internal/contract"
	"github.com/yukikurage/clinical-data-api/internal/dto"
	apierrors "github.com/yukikurage/clinical-data-api/internal/errors"
	"github.com/yukikurage/clinical-data-api/internal/middleware"
	"github.com/yukikurage/clinical-data-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login authenticates a user and initializes the session. The session is
// saved before the LOGIN audit entry is written, so a failed save leaves no
// entry behind.
func (h *AuthHandler) Login(c *gin.Context) {
	var req contract.LoginRequest
	if !bindJSON(c, &req, false) {
		return
	}

	ctx := c.Request.Context()
	user, err := h.authService.Authenticate(ctx, services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	if err := h.authService.RecordLogin(ctx, user.ID); err != nil {
		session.Clear()
		session.Options(sessions.Options{Path: "/", MaxAge: -1})
		if saveErr := session.Save(); saveErr != nil {
			slog.ErrorContext(ctx, "failed to revoke unrecorded session", slog.String("error", saveErr.Error()))
		}
		respondServiceError(c, err)
		return
	}

	respond(c, contract.AuthLogin, http.StatusOK, dto.ToUserDTO(*user))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if userID, ok := middleware.GetUserID(c); ok {
		h.authService.Logout(c.Request.Context(), userID)
	}

	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	respond(c, contract.AuthLogout, http.StatusOK, dto.MessageResponse{Message: "Logged out"})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.Unauthorized(c, "Not authenticated")
			return
		}
		respondServiceError(c, err)
		return
	}

	respond(c, contract.AuthMe, http.StatusOK, dto.ToUserDTO(*user))
}
