// Package models defines server-side data models persisted in the database
// and the read models the stores return.
package models

import "time"

// User is the full identity record. PasswordHash never leaves the server:
// it is excluded from JSON and only populated by lookups meant for login.
type User struct {
	ID           string    `json:"id"`
	UserName     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Avatar       *string   `json:"avatar"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is a User without the password hash.
type PublicUser struct {
	ID        string    `json:"id"`
	UserName  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

// Public strips the password hash.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		UserName:  u.UserName,
		Email:     u.Email,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}

// UserUpdate is a partial profile update; nil fields keep their value.
type UserUpdate struct {
	UserName *string `json:"username"`
	Email    *string `json:"email"`
	Avatar   *string `json:"avatar"`
}

// Author holds the identity fields joined onto posts, comments and likes.
type Author struct {
	UserName   string  `json:"username"`
	Email      string  `json:"email"`
	UserAvatar *string `json:"user_avatar"`
}
