package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/member-portal-api/internal/models"
	"github.com/noah-isme/member-portal-api/pkg/database"
)

const profileColumns = `id, user_id, role, department, year, student_id, position, is_active, created_at, updated_at`

// ProfileRepository persists user profiles and executive appointments.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByUserID returns the profile owned by userID or sql.ErrNoRows.
func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*models.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE user_id = $1`
	var profile models.UserProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find profile by user: %w", err)
	}
	return &profile, nil
}

// Ensure returns the profile of userID, inserting a default student profile when none exists.
// The unique constraint on user_id makes concurrent calls converge on a single row.
func (r *ProfileRepository) Ensure(ctx context.Context, userID string) (*models.UserProfile, error) {
	now := time.Now().UTC()
	const insert = `INSERT INTO user_profiles (id, user_id, role, is_active, created_at, updated_at) VALUES ($1, $2, $3, TRUE, $4, $4) ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, insert, uuid.NewString(), userID, models.RoleStudent, now); err != nil {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}
	return r.FindByUserID(ctx, userID)
}

// UpsertOwn applies a partial update to the caller's profile, creating a student profile first if needed.
// Nil fields keep their stored value.
func (r *ProfileRepository) UpsertOwn(ctx context.Context, userID string, patch models.UpdateProfileRequest) (*models.UserProfile, error) {
	query := `INSERT INTO user_profiles (id, user_id, role, department, year, student_id, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $7)
ON CONFLICT (user_id) DO UPDATE SET
	department = COALESCE(EXCLUDED.department, user_profiles.department),
	year = COALESCE(EXCLUDED.year, user_profiles.year),
	student_id = COALESCE(EXCLUDED.student_id, user_profiles.student_id),
	updated_at = EXCLUDED.updated_at
RETURNING ` + profileColumns
	var profile models.UserProfile
	err := r.db.GetContext(ctx, &profile, query,
		uuid.NewString(), userID, models.RoleStudent, patch.Department, patch.Year, patch.StudentID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return &profile, nil
}

// Promote makes userID an executive holding position and appends the appointment history row in one
// transaction. An admin keeps the admin role and only has the position updated.
func (r *ProfileRepository) Promote(ctx context.Context, userID, position, appointedBy string, appointedAt time.Time) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		upsert := `INSERT INTO user_profiles (id, user_id, role, position, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, TRUE, $5, $5)
ON CONFLICT (user_id) DO UPDATE SET
	role = CASE WHEN user_profiles.role = 'admin' THEN user_profiles.role ELSE EXCLUDED.role END,
	position = EXCLUDED.position,
	updated_at = EXCLUDED.updated_at
RETURNING ` + profileColumns
		if err := tx.GetContext(ctx, &profile, upsert, uuid.NewString(), userID, models.RoleExecutive, position, appointedAt); err != nil {
			return fmt.Errorf("upsert executive profile: %w", err)
		}

		const appoint = `INSERT INTO executive_positions (id, position, user_id, is_active, appointed_date, appointed_by, created_at) VALUES ($1, $2, $3, TRUE, $4, $5, $6)`
		if _, err := tx.ExecContext(ctx, appoint, uuid.NewString(), position, userID, appointedAt.Format("2006-01-02"), appointedBy, appointedAt); err != nil {
			return fmt.Errorf("insert executive position: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

type executiveRow struct {
	models.UserProfile
	UserName  string  `db:"user_name"`
	UserEmail *string `db:"user_email"`
}

// ListExecutives returns every profile with role executive joined with its user.
func (r *ProfileRepository) ListExecutives(ctx context.Context) ([]models.Executive, error) {
	const query = `SELECT p.id, p.user_id, p.role, p.department, p.year, p.student_id, p.position, p.is_active, p.created_at, p.updated_at,
	u.name AS user_name, u.email AS user_email
FROM user_profiles p
JOIN users u ON u.id = p.user_id
WHERE p.role = $1
ORDER BY p.updated_at DESC, p.id DESC`
	var rows []executiveRow
	if err := r.db.SelectContext(ctx, &rows, query, models.RoleExecutive); err != nil {
		return nil, fmt.Errorf("list executives: %w", err)
	}
	executives := make([]models.Executive, 0, len(rows))
	for _, row := range rows {
		executives = append(executives, models.Executive{
			UserProfile: row.UserProfile,
			User:        &models.ExecutiveUser{ID: row.UserID, Name: row.UserName, Email: row.UserEmail},
		})
	}
	return executives, nil
}
