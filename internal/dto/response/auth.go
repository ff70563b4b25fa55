package response

import (
	"time"
)

// AuthResponse is returned by a successful login
type AuthResponse struct {
	UserID    int64
	Username  string
	Token     string
	ExpiresAt time.Time
}
