package models

import "time"

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleResearcher Role = "researcher"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'researcher'" json:"role"`
	FullName     string    `gorm:"type:varchar(255);not null" json:"fullName"`
	Institution  string    `gorm:"type:varchar(255);not null" json:"institution"`
	IsActive     bool      `gorm:"not null" json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewUser holds the fields a caller supplies when creating a user.
type NewUser struct {
	Username     string
	PasswordHash string
	Role         Role
	FullName     string
	Institution  string
	IsActive     bool
}

// UserPatch lists the user fields to overwrite. Nil fields are left as they are.
type UserPatch struct {
	Username     *string
	PasswordHash *string
	Role         *Role
	FullName     *string
	Institution  *string
	IsActive     *bool
}

// Apply merges the patch over u.
func (p UserPatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Institution != nil {
		u.Institution = *p.Institution
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
}
