package dto

import (
	"time"

	"github.com/yukikurage/clinical-data-api/internal/models"
)

// UserDTO represents a user in API responses. Credentials never leave the server.
type UserDTO struct {
	ID          uint64      `json:"id"`
	Username    string      `json:"username"`
	Role        models.Role `json:"role"`
	FullName    string      `json:"fullName"`
	Institution string      `json:"institution"`
	IsActive    bool        `json:"isActive"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		Role:        user.Role,
		FullName:    user.FullName,
		Institution: user.Institution,
		IsActive:    user.IsActive,
		CreatedAt:   user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of users, never returning nil
func ToUserDTOs(users []models.User) []UserDTO {
	items := make([]UserDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDTO(user)
	}
	return items
}
