package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/courtside/courtside/internal/model"
)

// Common errors for profile repository operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
)

// GetProfileByID retrieves a profile by its ID.
func (r *Repository) GetProfileByID(ctx context.Context, id string) (*model.Profile, error) {
	query := `
		SELECT id, email, name, role, grade, division, gender, track, race,
		       ethnicities, device_type, is_adult, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	return r.scanProfile(r.pool.QueryRow(ctx, query, id))
}

// GetProfileByEmail retrieves a profile by email address.
func (r *Repository) GetProfileByEmail(ctx context.Context, email string) (*model.Profile, error) {
	query := `
		SELECT id, email, name, role, grade, division, gender, track, race,
		       ethnicities, device_type, is_adult, created_at, updated_at
		FROM profiles
		WHERE lower(email) = lower($1)
	`

	return r.scanProfile(r.pool.QueryRow(ctx, query, email))
}

// GetProfileRole retrieves only the role column for a profile.
// Used on every authorization check; kept to a single-column lookup.
func (r *Repository) GetProfileRole(ctx context.Context, id string) (string, error) {
	query := `SELECT role FROM profiles WHERE id = $1`

	var role string
	err := r.pool.QueryRow(ctx, query, id).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrProfileNotFound
		}
		return "", fmt.Errorf("failed to get profile role: %w", err)
	}

	return role, nil
}

// ListAdmins retrieves the directory of admin profiles.
func (r *Repository) ListAdmins(ctx context.Context) ([]model.AdminEntry, error) {
	query := `
		SELECT id, email, COALESCE(name, '')
		FROM profiles
		WHERE role = $1
		ORDER BY lower(email)
	`

	rows, err := r.pool.Query(ctx, query, model.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	defer rows.Close()

	admins := make([]model.AdminEntry, 0)
	for rows.Next() {
		var a model.AdminEntry
		if err := rows.Scan(&a.ID, &a.Email, &a.Name); err != nil {
			return nil, fmt.Errorf("failed to scan admin entry: %w", err)
		}
		admins = append(admins, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating admins: %w", err)
	}

	return admins, nil
}

// CompetitorProfileUpdate carries the normalized competitor fields.
// All values must already be canonical enum tokens.
type CompetitorProfileUpdate struct {
	Grade       string
	Division    string
	Gender      string
	Track       string
	Race        string
	Ethnicities []string
	DeviceType  string
	IsAdult     bool
}

// UpdateCompetitorProfile writes the competitor enumeration fields for a
// profile. Ethnicities is a text[] column.
func (r *Repository) UpdateCompetitorProfile(ctx context.Context, id string, upd *CompetitorProfileUpdate) error {
	query := `
		UPDATE profiles
		SET grade = $2, division = $3, gender = $4, track = $5, race = $6,
		    ethnicities = $7, device_type = $8, is_adult = $9, updated_at = $10
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		id,
		upd.Grade,
		upd.Division,
		upd.Gender,
		upd.Track,
		upd.Race,
		pq.Array(upd.Ethnicities),
		upd.DeviceType,
		upd.IsAdult,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update competitor profile: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// UpdateProfileRole sets the role column for a profile.
// Role changes happen out-of-band through admin tooling.
func (r *Repository) UpdateProfileRole(ctx context.Context, id, role string) error {
	query := `UPDATE profiles SET role = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, role, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update profile role: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanProfile(row rowScanner) (*model.Profile, error) {
	var p model.Profile
	var name, grade, division, gender, track, race, deviceType *string

	err := row.Scan(
		&p.ID,
		&p.Email,
		&name,
		&p.Role,
		&grade,
		&division,
		&gender,
		&track,
		&race,
		pq.Array(&p.Ethnicities),
		&deviceType,
		&p.IsAdult,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}

	p.Name = deref(name)
	p.Grade = deref(grade)
	p.Division = deref(division)
	p.Gender = deref(gender)
	p.Track = deref(track)
	p.Race = deref(race)
	p.DeviceType = deref(deviceType)

	return &p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
