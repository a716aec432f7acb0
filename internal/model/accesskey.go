package model

import "time"

// AccessKey represents a coach access key entity. Keys are minted by admins,
// handed to coaches out-of-band, and exchanged for a session at
// POST /api/auth/token. Only the argon2 hash is stored.
type AccessKey struct {
	ID         string     `json:"id"`
	ProfileID  string     `json:"profile_id"`
	KeyHash    string     `json:"-"` // Never serialize
	KeyPrefix  string     `json:"key_prefix"`
	Label      string     `json:"label,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// IsRevoked returns true if the key has been revoked.
func (k *AccessKey) IsRevoked() bool {
	return k.RevokedAt != nil
}

// AccessKeyCreateRequest represents a request to mint a key for a profile.
type AccessKeyCreateRequest struct {
	ProfileID string `json:"profile_id"`
	Label     string `json:"label,omitempty"`
}

// AccessKeyResponse is the listing shape for an access key (no secrets).
type AccessKeyResponse struct {
	ID         string     `json:"id"`
	ProfileID  string     `json:"profile_id"`
	KeyPrefix  string     `json:"key_prefix"`
	Label      string     `json:"label,omitempty"`
	Revoked    bool       `json:"revoked"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ToResponse converts an AccessKey to AccessKeyResponse.
func (k *AccessKey) ToResponse() AccessKeyResponse {
	return AccessKeyResponse{
		ID:         k.ID,
		ProfileID:  k.ProfileID,
		KeyPrefix:  k.KeyPrefix,
		Label:      k.Label,
		Revoked:    k.IsRevoked(),
		LastUsedAt: k.LastUsedAt,
		CreatedAt:  k.CreatedAt,
	}
}

// AccessKeyCreateResponse includes the plaintext key (shown only once).
type AccessKeyCreateResponse struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"` // Plaintext - display once only!
	ProfileID string    `json:"profile_id"`
	KeyPrefix string    `json:"key_prefix"`
	Label     string    `json:"label,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
