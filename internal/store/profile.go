package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Profile is a named calibration profile: the per-user tuning that is
// worth switching as a unit when the camera setup or lighting changes.
type Profile struct {
	ID              string
	Name            string
	CursorMode      string
	MirrorX         bool
	BaseSensitivity float64
	InRatio         float64
	OutRatio        float64
	BaselineFloorCm float64
	SmoothAlpha     float64
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ProfileRepository provides CRUD operations for calibration profiles.
type ProfileRepository struct {
	db *sql.DB
}

// Profiles returns the profile repository for this store.
func (s *Store) Profiles() *ProfileRepository {
	return &ProfileRepository{db: s.db}
}

// Create inserts a new profile. An empty ID is assigned a fresh UUID.
func (r *ProfileRepository) Create(p *Profile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO profiles (id, name, cursor_mode, mirror_x, base_sensitivity,
		                       in_ratio, out_ratio, baseline_floor_cm, smooth_alpha,
		                       active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.CursorMode, p.MirrorX, p.BaseSensitivity,
		p.InRatio, p.OutRatio, p.BaselineFloorCm, p.SmoothAlpha,
		p.Active, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

const profileColumns = `id, name, cursor_mode, mirror_x, base_sensitivity,
	in_ratio, out_ratio, baseline_floor_cm, smooth_alpha, active, created_at, updated_at`

func scanProfile(row interface{ Scan(dest ...any) error }) (*Profile, error) {
	p := &Profile{}
	err := row.Scan(&p.ID, &p.Name, &p.CursorMode, &p.MirrorX, &p.BaseSensitivity,
		&p.InRatio, &p.OutRatio, &p.BaselineFloorCm, &p.SmoothAlpha,
		&p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetByID retrieves a profile by its ID.
func (r *ProfileRepository) GetByID(id string) (*Profile, error) {
	row := r.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	return scanProfile(row)
}

// GetActive retrieves the currently active profile.
// Returns ErrNotFound when no profile is active.
func (r *ProfileRepository) GetActive() (*Profile, error) {
	row := r.db.QueryRow(`SELECT ` + profileColumns + ` FROM profiles WHERE active = 1 LIMIT 1`)
	return scanProfile(row)
}

// List returns all profiles ordered by name.
func (r *ProfileRepository) List() ([]*Profile, error) {
	rows, err := r.db.Query(`SELECT ` + profileColumns + ` FROM profiles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update rewrites a profile's tuning fields.
func (r *ProfileRepository) Update(p *Profile) error {
	p.UpdatedAt = time.Now()

	res, err := r.db.Exec(
		`UPDATE profiles SET name = ?, cursor_mode = ?, mirror_x = ?,
		        base_sensitivity = ?, in_ratio = ?, out_ratio = ?,
		        baseline_floor_cm = ?, smooth_alpha = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.CursorMode, p.MirrorX,
		p.BaseSensitivity, p.InRatio, p.OutRatio,
		p.BaselineFloorCm, p.SmoothAlpha, p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a profile by ID.
func (r *ProfileRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActive marks the given profile active and deactivates the rest,
// atomically.
func (r *ProfileRepository) SetActive(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE profiles SET active = 0 WHERE active = 1`); err != nil {
		return err
	}
	res, err := tx.Exec(`UPDATE profiles SET active = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}
