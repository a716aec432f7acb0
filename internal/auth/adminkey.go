package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// DigestAdminKey returns the SHA-256 hex digest of an admin creation key.
// This is the value stored in ADMIN_CREATION_KEY_HASH and the value clients
// submit to the verify-access endpoint.
func DigestAdminKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// VerifyAdminKeyDigest compares a submitted digest against the configured
// one in constant time. Digests are hex strings; case is ignored.
func VerifyAdminKeyDigest(submitted, expected string) bool {
	if submitted == "" || expected == "" {
		return false
	}

	a := strings.ToLower(submitted)
	b := strings.ToLower(expected)
	if len(a) != len(b) {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// QuickHash returns a truncated SHA-256 hash of the input for cache keys.
// This is NOT for credential storage, only for cache key derivation.
func QuickHash(input string) string {
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:16]) // first 16 bytes (32 hex chars)
}
