package domain

import "time"

// User models an account issued by the identity store.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Confirmed    bool      `json:"confirmed"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the application-level record carrying authorization flags.
// ID is the owning user's ID; there is exactly one profile per user.
type Profile struct {
	ID        string    `json:"id"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	// Degraded marks the fallback value handed out when the profile row could
	// not be provisioned. It is never persisted.
	Degraded bool `json:"degraded,omitempty"`
}

// DegradedProfile returns the least-privilege stand-in for a profile that
// could not be loaded or created.
func DegradedProfile(userID string) *Profile {
	return &Profile{ID: userID, IsAdmin: false, Degraded: true}
}

// Session is the per-login context passed to every authenticated handler.
type Session struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	Profile   Profile   `json:"profile"`
	Token     string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
