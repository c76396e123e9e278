package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/santai-app/santai-backend/pkg/enums"
)

// PaymentSubmission records one proof-of-payment upload for review.
// Re-uploads never mutate prior rows; each attempt is a fresh
// submission so the review trail survives rejections.
type PaymentSubmission struct {
	ID       uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SignupID uuid.UUID  `gorm:"column:signup_id;type:uuid;not null;index"`
	UserID   *uuid.UUID `gorm:"column:user_id;type:uuid"`

	// Linkage and deadline are copied off the signup at upload time so
	// the review queue and the expiry sweep read a stable snapshot.
	ProviderProfileID *uuid.UUID        `gorm:"column:provider_profile_id;type:uuid"`
	ProviderKind      *enums.PortalKind `gorm:"column:provider_kind;type:portal_kind"`
	PlanKind          enums.PlanKind    `gorm:"column:plan_kind;type:plan_kind;not null"`
	Deadline          *time.Time        `gorm:"column:deadline;type:timestamptz"`

	ProofURL    string          `gorm:"column:proof_url;not null"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	Method      *string         `gorm:"column:method"`
	BankName    *string         `gorm:"column:bank_name"`
	AccountName *string         `gorm:"column:account_name"`
	UploadedAt  time.Time       `gorm:"column:uploaded_at;type:timestamptz;not null"`

	ReviewStatus enums.ReviewStatus `gorm:"column:review_status;type:review_status;not null;default:'pending'"`
	ReviewedBy   *uuid.UUID         `gorm:"column:reviewed_by;type:uuid"`
	ReviewedAt   *time.Time         `gorm:"column:reviewed_at;type:timestamptz"`
	ReviewNotes  *string            `gorm:"column:review_notes"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
