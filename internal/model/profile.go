// Package model defines domain entities for the application.
package model

import "time"

// Role constants for profile authorization.
const (
	RoleAdmin      = "admin"
	RoleCoach      = "coach"
	RoleCompetitor = "competitor"
	RoleParent     = "parent"
)

// Profile represents a user profile row. Identity records are created by the
// upstream auth provider on signup; this service reads them for authorization
// and competitor enumeration.
type Profile struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name,omitempty"`
	Role        string     `json:"role"`
	Grade       string     `json:"grade,omitempty"`
	Division    string     `json:"division,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	Track       string     `json:"track,omitempty"`
	Race        string     `json:"race,omitempty"`
	Ethnicities []string   `json:"ethnicities,omitempty"`
	DeviceType  string     `json:"device_type,omitempty"`
	IsAdult     bool       `json:"is_adult"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// IsAdmin returns true only for an exact admin role match.
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// AdminEntry is the directory listing shape for an admin profile.
// Only fields a messaging client needs to address an admin are exposed.
type AdminEntry struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// SessionContext holds the authenticated caller's identity.
// Injected into the request context by the session middleware.
type SessionContext struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

// IsAdmin returns true only for an exact admin role match.
func (s *SessionContext) IsAdmin() bool {
	return s.Role == RoleAdmin
}
