package signups

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/santai-app/santai-backend/pkg/db/models"
	"github.com/santai-app/santai-backend/pkg/enums"
	"github.com/santai-app/santai-backend/pkg/pagination"
)

// Repository persists membership signups. Every transition helper is a
// conditional UPDATE guarded by the statuses the transition is legal
// from; callers inspect the returned row count to distinguish a missing
// row from a lost race.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a signups repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repo to the supplied transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a fresh signup row.
func (r *Repository) Create(ctx context.Context, signup *models.MembershipSignup) error {
	return r.db.WithContext(ctx).Create(signup).Error
}

// FindByID loads a signup by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.MembershipSignup, error) {
	var signup models.MembershipSignup
	if err := r.db.WithContext(ctx).First(&signup, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &signup, nil
}

// FindByUserID returns the most recent signup owned by a user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.MembershipSignup, error) {
	var signup models.MembershipSignup
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&signup).Error
	if err != nil {
		return nil, err
	}
	return &signup, nil
}

// Transition applies values to a signup only when its current status is
// one of the allowed source statuses.
func (r *Repository) Transition(ctx context.Context, id uuid.UUID, from []enums.SignupStatus, values map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.MembershipSignup{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(values)
	return result.RowsAffected, result.Error
}

// Exists reports whether a signup row is present at all, used to turn a
// zero-row transition into NotFound vs StateConflict.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MembershipSignup{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// ListExpiredAwaitingPayment returns signups whose payment window has
// lapsed, oldest deadline first. The sweep deactivates them one by one.
func (r *Repository) ListExpiredAwaitingPayment(ctx context.Context, now time.Time, limit int) ([]models.MembershipSignup, error) {
	var rows []models.MembershipSignup
	query := r.db.WithContext(ctx).
		Where("status = ? AND payment_deadline IS NOT NULL AND payment_deadline < ?", enums.SignupStatusAwaitingPayment, now).
		Order("payment_deadline ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByStatus pages through signups in a given status, newest first.
func (r *Repository) ListByStatus(ctx context.Context, status enums.SignupStatus, limit int, cursor *pagination.Cursor) ([]models.MembershipSignup, *pagination.Cursor, error) {
	buffered := pagination.LimitWithBuffer(limit)
	normalized := pagination.NormalizeLimit(limit)

	query := r.db.WithContext(ctx).
		Model(&models.MembershipSignup{}).
		Where("status = ?", status)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.MembershipSignup
	if err := query.Order("created_at DESC, id DESC").Limit(buffered).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) > normalized {
		rows = rows[:normalized]
		// The cursor marks the last row handed out; the next page
		// resumes strictly after it.
		last := rows[normalized-1]
		return rows, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return rows, nil, nil
}
