package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/santai-app/santai-backend/pkg/db/models"
	"github.com/santai-app/santai-backend/pkg/enums"
	"github.com/santai-app/santai-backend/pkg/pagination"
)

// Repository persists payment proof submissions.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a payments repo bound to the provided GORM DB.
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

// Create appends a submission row. Re-uploads create fresh rows.
func (r *Repository) Create(ctx context.Context, submission *models.PaymentSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

// FindByID loads a single submission.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PaymentSubmission, error) {
	var submission models.PaymentSubmission
	if err := r.db.WithContext(ctx).First(&submission, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// ListBySignup returns all submissions for a signup, newest first.
func (r *Repository) ListBySignup(ctx context.Context, signupID uuid.UUID) ([]models.PaymentSubmission, error) {
	var rows []models.PaymentSubmission
	err := r.db.WithContext(ctx).
		Where("signup_id = ?", signupID).
		Order("uploaded_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPending returns the admin review queue, oldest upload first,
// paginated by cursor.
func (r *Repository) ListPending(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.PaymentSubmission, *pagination.Cursor, error) {
	buffered := pagination.LimitWithBuffer(limit)
	normalized := pagination.NormalizeLimit(limit)

	query := r.db.WithContext(ctx).
		Model(&models.PaymentSubmission{}).
		Where("review_status = ?", enums.ReviewStatusPending)
	if cursor != nil {
		query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.PaymentSubmission
	if err := query.Order("created_at ASC, id ASC").Limit(buffered).Find(&rows).Error; err != nil {
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

// Review stamps a pending submission with the admin's verdict. Only
// pending rows transition; the returned count is zero otherwise.
func (r *Repository) Review(ctx context.Context, id uuid.UUID, verdict enums.ReviewStatus, reviewedBy uuid.UUID, notes *string, now time.Time) (int64, error) {
	values := map[string]any{
		"review_status": verdict,
		"reviewed_by":   reviewedBy,
		"reviewed_at":   now,
		"updated_at":    now,
	}
	if notes != nil {
		values["review_notes"] = *notes
	}
	result := r.db.WithContext(ctx).
		Model(&models.PaymentSubmission{}).
		Where("id = ? AND review_status = ?", id, enums.ReviewStatusPending).
		Updates(values)
	return result.RowsAffected, result.Error
}

// ExpirePendingForSignup marks any still-pending submissions of a
// signup as expired, used when the payment window lapses.
func (r *Repository) ExpirePendingForSignup(ctx context.Context, signupID uuid.UUID, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PaymentSubmission{}).
		Where("signup_id = ? AND review_status = ?", signupID, enums.ReviewStatusPending).
		Updates(map[string]any{"review_status": enums.ReviewStatusExpired, "updated_at": now})
	return result.RowsAffected, result.Error
}

// ExpirePendingBefore sweeps pending submissions whose copied payment
// deadline fell before the cutoff. Used by the cron cleanup job.
func (r *Repository) ExpirePendingBefore(ctx context.Context, cutoff time.Time, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PaymentSubmission{}).
		Where("review_status = ? AND deadline IS NOT NULL AND deadline < ?", enums.ReviewStatusPending, cutoff).
		Updates(map[string]any{"review_status": enums.ReviewStatusExpired, "updated_at": now})
	return result.RowsAffected, result.Error
}
