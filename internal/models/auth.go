package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and the session it encodes.
type LoginResponse struct {
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserInfo  `json:"user"`
}

// SessionClaims is the signed session payload. Nothing about a session is
// stored server side.
type SessionClaims struct {
	UserID int64  `json:"id"`
	Name   string `json:"name"`
	Level  int    `json:"level"`
	jwt.RegisteredClaims
}

// Privileged reports whether the session may act on every hearing.
func (s *SessionClaims) Privileged() bool {
	return s != nil && s.Level > LevelStaff
}

// CanActOn reports whether the session may modify a hearing assigned to userID.
func (s *SessionClaims) CanActOn(assignedUserID int64) bool {
	if s == nil {
		return false
	}
	return s.Privileged() || s.UserID == assignedUserID
}
