package model

import "time"

// UserStatus is the presence flag stored on a user. Any value can be set
// from any other value; there are no transition rules.
type UserStatus string

const (
	StatusOnline  UserStatus = "online"
	StatusOffline UserStatus = "offline"
	StatusAway    UserStatus = "away"
	StatusBusy    UserStatus = "busy"
)

// Valid reports whether s is one of the known status values.
func (s UserStatus) Valid() bool {
	switch s {
	case StatusOnline, StatusOffline, StatusAway, StatusBusy:
		return true
	}
	return false
}

// User mirrors the 'users' table. Email is lowercase-normalized and unique.
// PasswordHash is a bcrypt hash and must never be serialized to clients;
// handlers return the UserResponse projection instead.
type User struct {
	ID             uint64
	Email          string
	PasswordHash   string
	FullName       string
	ProfilePicture string // optional, empty when unset
	Status         UserStatus
	IsVerified     bool
	LastLogin      *time.Time // nil until the first successful login
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserResponse is the sanitized projection returned by the API. It carries
// every user field except the password hash.
type UserResponse struct {
	ID             uint64     `json:"id"`
	Email          string     `json:"email"`
	FullName       string     `json:"full_name"`
	ProfilePicture string     `json:"profile_picture,omitempty"`
	Status         UserStatus `json:"status"`
	IsVerified     bool       `json:"is_verified"`
	LastLogin      *time.Time `json:"last_login"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Response builds the sanitized projection for u.
func (u User) Response() UserResponse {
	return UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		FullName:       u.FullName,
		ProfilePicture: u.ProfilePicture,
		Status:         u.Status,
		IsVerified:     u.IsVerified,
		LastLogin:      u.LastLogin,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
