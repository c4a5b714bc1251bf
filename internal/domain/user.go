package domain

import "time"

// Role determines which administrative routes a user may call.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents an authenticated user's profile.
type User struct {
	ID          int64     `json:"id" db:"id"`
	Email       string    `json:"email" db:"email"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Headline    *string   `json:"headline,omitempty" db:"headline"`
	AvatarURL   *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	Role        Role      `json:"role" db:"role"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ProfileUpdate carries the editable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,min=1,max=120"`
	Headline    *string `json:"headline,omitempty" validate:"omitempty,max=200"`
	AvatarURL   *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}
