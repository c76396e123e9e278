package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/santai-app/santai-backend/pkg/enums"
)

// MembershipSignup is the root record of the provider onboarding
// workflow. One row tracks a signup from plan selection through
// activation or deactivation; nullable columns fill in as the signup
// advances.
type MembershipSignup struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PlanKind       enums.PlanKind  `gorm:"column:plan_kind;type:plan_kind;not null"`
	PlanSelectedAt time.Time       `gorm:"column:plan_selected_at;type:timestamptz;not null"`
	PaymentAmount  decimal.Decimal `gorm:"column:payment_amount;type:numeric(14,2);not null"`

	TermsAccepted   bool       `gorm:"column:terms_accepted;not null;default:false"`
	TermsAcceptedAt *time.Time `gorm:"column:terms_accepted_at;type:timestamptz"`
	TermsVersion    *string    `gorm:"column:terms_version"`
	ClientIP        *string    `gorm:"column:client_ip"`
	UserAgent       *string    `gorm:"column:user_agent"`

	PortalKind       *enums.PortalKind `gorm:"column:portal_kind;type:portal_kind"`
	PortalSelectedAt *time.Time        `gorm:"column:portal_selected_at;type:timestamptz"`

	UserID            *uuid.UUID `gorm:"column:user_id;type:uuid"`
	Email             *string    `gorm:"column:email"`
	ProviderProfileID *uuid.UUID `gorm:"column:provider_profile_id;type:uuid"`
	AccountCreatedAt  *time.Time `gorm:"column:account_created_at;type:timestamptz"`

	ProfileCompleted   bool       `gorm:"column:profile_completed;not null;default:false"`
	ProfileCompletedAt *time.Time `gorm:"column:profile_completed_at;type:timestamptz"`
	GoLiveSubmittedAt  *time.Time `gorm:"column:go_live_submitted_at;type:timestamptz"`
	IsLive             bool       `gorm:"column:is_live;not null;default:false"`

	PaymentDeadline        *time.Time `gorm:"column:payment_deadline;type:timestamptz"`
	PaymentProofURL        *string    `gorm:"column:payment_proof_url"`
	PaymentProofUploadedAt *time.Time `gorm:"column:payment_proof_uploaded_at;type:timestamptz"`
	PaymentMethod          *string    `gorm:"column:payment_method"`

	Status             enums.SignupStatus `gorm:"column:status;type:signup_status;not null;default:'plan_selected'"`
	DeactivatedAt      *time.Time         `gorm:"column:deactivated_at;type:timestamptz"`
	DeactivationReason *string            `gorm:"column:deactivation_reason"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
