package agreements

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/santai-app/santai-backend/pkg/db/models"
)

// Repository persists the append-only terms acceptance trail.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an agreements repo bound to the provided GORM DB.
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

// Create appends an agreement row. Rows are never updated or deleted.
func (r *Repository) Create(ctx context.Context, agreement *models.MembershipAgreement) error {
	return r.db.WithContext(ctx).Create(agreement).Error
}

// ListBySignup returns all acceptance rows for a signup, oldest first.
func (r *Repository) ListBySignup(ctx context.Context, signupID uuid.UUID) ([]models.MembershipAgreement, error) {
	var rows []models.MembershipAgreement
	err := r.db.WithContext(ctx).
		Where("signup_id = ?", signupID).
		Order("accepted_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountBySignup returns how many times terms were accepted for a signup.
func (r *Repository) CountBySignup(ctx context.Context, signupID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MembershipAgreement{}).
		Where("signup_id = ?", signupID).
		Count(&count).Error
	return count, err
}
