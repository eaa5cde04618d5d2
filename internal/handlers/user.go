package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/clinical-data-api/internal/contract"
	"github.com/yukikurage/clinical-data-api/internal/dto"
	"github.com/yukikurage/clinical-data-api/internal/middleware"
	"github.com/yukikurage/clinical-data-api/internal/services"
)

// UserHandler serves user management.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers returns every user.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, contract.UsersList, http.StatusOK, dto.ToUserDTOs(users))
}

// CreateUser creates a user.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req contract.CreateUserRequest
	if !bindJSON(c, &req, false) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), middleware.ActorID(c), services.CreateUserInput{
		Username:    req.Username,
		Password:    req.Password,
		Role:        req.Role,
		FullName:    req.FullName,
		Institution: req.Institution,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, contract.UsersCreate, http.StatusCreated, dto.ToUserDTO(*user))
}

// UpdateUser applies a partial update.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req contract.UpdateUserRequest
	if !bindJSON(c, &req, false) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), middleware.ActorID(c), id, services.UpdateUserInput{
		Username:    req.Username,
		Password:    req.Password,
		Role:        req.Role,
		FullName:    req.FullName,
		Institution: req.Institution,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, contract.UsersUpdate, http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser deletes a user.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), middleware.ActorID(c), id); err != nil {
		respondServiceError(c, err)
		return
	}

	respond(c, contract.UsersDelete, http.StatusOK, dto.MessageResponse{Message: "User deleted"})
}
