package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/courtside/courtside/internal/model"
)

// Common errors for access key repository operations.
var (
	ErrAccessKeyNotFound = errors.New("access key not found")
)

// CreateAccessKey inserts a new coach access key.
func (r *Repository) CreateAccessKey(ctx context.Context, key *model.AccessKey) error {
	query := `
		INSERT INTO access_keys (id, profile_id, key_hash, key_prefix, label, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		key.ID,
		key.ProfileID,
		key.KeyHash,
		key.KeyPrefix,
		key.Label,
		key.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create access key: %w", err)
	}

	return nil
}

// GetAccessKeyByID retrieves an access key by its ID.
func (r *Repository) GetAccessKeyByID(ctx context.Context, id string) (*model.AccessKey, error) {
	query := `
		SELECT id, profile_id, key_hash, key_prefix, label, revoked_at, last_used_at, created_at
		FROM access_keys
		WHERE id = $1
	`

	return r.scanAccessKey(r.pool.QueryRow(ctx, query, id))
}

// GetAccessKeysByPrefix retrieves all active access keys matching a prefix.
// Used during token exchange to find candidate keys for verification.
func (r *Repository) GetAccessKeysByPrefix(ctx context.Context, prefix string) ([]*model.AccessKey, error) {
	query := `
		SELECT id, profile_id, key_hash, key_prefix, label, revoked_at, last_used_at, created_at
		FROM access_keys
		WHERE key_prefix = $1 AND revoked_at IS NULL
	`

	rows, err := r.pool.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to get access keys by prefix: %w", err)
	}
	defer rows.Close()

	var keys []*model.AccessKey
	for rows.Next() {
		key, err := r.scanAccessKey(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan access key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating access keys: %w", err)
	}

	return keys, nil
}

// ListAccessKeysByProfile retrieves all access keys minted for a profile.
func (r *Repository) ListAccessKeysByProfile(ctx context.Context, profileID string) ([]*model.AccessKey, error) {
	query := `
		SELECT id, profile_id, key_hash, key_prefix, label, revoked_at, last_used_at, created_at
		FROM access_keys
		WHERE profile_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list access keys: %w", err)
	}
	defer rows.Close()

	var keys []*model.AccessKey
	for rows.Next() {
		key, err := r.scanAccessKey(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan access key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating access keys: %w", err)
	}

	return keys, nil
}

// RevokeAccessKey marks an access key as revoked.
func (r *Repository) RevokeAccessKey(ctx context.Context, id string) error {
	query := `
		UPDATE access_keys
		SET revoked_at = $2
		WHERE id = $1 AND revoked_at IS NULL
	`

	tag, err := r.pool.Exec(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to revoke access key: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrAccessKeyNotFound
	}

	return nil
}

// UpdateAccessKeyLastUsed records the last successful exchange time.
func (r *Repository) UpdateAccessKeyLastUsed(ctx context.Context, id string) error {
	query := `UPDATE access_keys SET last_used_at = $2 WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id, time.Now()); err != nil {
		return fmt.Errorf("failed to update access key last_used_at: %w", err)
	}

	return nil
}

func (r *Repository) scanAccessKey(row rowScanner) (*model.AccessKey, error) {
	var k model.AccessKey
	var label *string

	err := row.Scan(
		&k.ID,
		&k.ProfileID,
		&k.KeyHash,
		&k.KeyPrefix,
		&label,
		&k.RevokedAt,
		&k.LastUsedAt,
		&k.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccessKeyNotFound
		}
		return nil, fmt.Errorf("failed to scan access key: %w", err)
	}

	k.Label = deref(label)

	return &k, nil
}
