package signups

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/santai-app/santai-backend/pkg/db/models"
	"github.com/santai-app/santai-backend/pkg/enums"
)

// SignupDTO is the transport shape of a membership signup.
type SignupDTO struct {
	ID             uuid.UUID          `json:"id"`
	Status         enums.SignupStatus `json:"status"`
	PlanKind       enums.PlanKind     `json:"plan_kind"`
	PlanSelectedAt time.Time          `json:"plan_selected_at"`
	PaymentAmount  decimal.Decimal    `json:"payment_amount"`

	TermsAccepted   bool       `json:"terms_accepted"`
	TermsAcceptedAt *time.Time `json:"terms_accepted_at,omitempty"`
	TermsVersion    *string    `json:"terms_version,omitempty"`

	PortalKind       *enums.PortalKind `json:"portal_kind,omitempty"`
	PortalSelectedAt *time.Time        `json:"portal_selected_at,omitempty"`

	UserID            *uuid.UUID `json:"user_id,omitempty"`
	Email             *string    `json:"email,omitempty"`
	ProviderProfileID *uuid.UUID `json:"provider_profile_id,omitempty"`
	AccountCreatedAt  *time.Time `json:"account_created_at,omitempty"`

	ProfileCompleted   bool       `json:"profile_completed"`
	ProfileCompletedAt *time.Time `json:"profile_completed_at,omitempty"`
	GoLiveSubmittedAt  *time.Time `json:"go_live_submitted_at,omitempty"`
	IsLive             bool       `json:"is_live"`

	PaymentDeadline        *time.Time `json:"payment_deadline,omitempty"`
	PaymentProofURL        *string    `json:"payment_proof_url,omitempty"`
	PaymentProofUploadedAt *time.Time `json:"payment_proof_uploaded_at,omitempty"`

	DeactivatedAt      *time.Time `json:"deactivated_at,omitempty"`
	DeactivationReason *string    `json:"deactivation_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModel converts a persisted signup into its transport shape.
func FromModel(m *models.MembershipSignup) *SignupDTO {
	if m == nil {
		return nil
	}
	return &SignupDTO{
		ID:                     m.ID,
		Status:                 m.Status,
		PlanKind:               m.PlanKind,
		PlanSelectedAt:         m.PlanSelectedAt,
		PaymentAmount:          m.PaymentAmount,
		TermsAccepted:          m.TermsAccepted,
		TermsAcceptedAt:        m.TermsAcceptedAt,
		TermsVersion:           m.TermsVersion,
		PortalKind:             m.PortalKind,
		PortalSelectedAt:       m.PortalSelectedAt,
		UserID:                 m.UserID,
		Email:                  m.Email,
		ProviderProfileID:      m.ProviderProfileID,
		AccountCreatedAt:       m.AccountCreatedAt,
		ProfileCompleted:       m.ProfileCompleted,
		ProfileCompletedAt:     m.ProfileCompletedAt,
		GoLiveSubmittedAt:      m.GoLiveSubmittedAt,
		IsLive:                 m.IsLive,
		PaymentDeadline:        m.PaymentDeadline,
		PaymentProofURL:        m.PaymentProofURL,
		PaymentProofUploadedAt: m.PaymentProofUploadedAt,
		DeactivatedAt:          m.DeactivatedAt,
		DeactivationReason:     m.DeactivationReason,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}

// CountdownDTO reports how long remains in the payment window.
type CountdownDTO struct {
	SignupID         uuid.UUID  `json:"signup_id"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	RemainingSeconds int64      `json:"remaining_seconds"`
	Expired          bool       `json:"expired"`
}

// SubmissionDTO is the transport shape of a payment submission.
type SubmissionDTO struct {
	ID                uuid.UUID          `json:"id"`
	SignupID          uuid.UUID          `json:"signup_id"`
	ProviderProfileID *uuid.UUID         `json:"provider_profile_id,omitempty"`
	ProviderKind      *enums.PortalKind  `json:"provider_kind,omitempty"`
	PlanKind          enums.PlanKind     `json:"plan_kind"`
	ProofURL          string             `json:"proof_url"`
	Amount            decimal.Decimal    `json:"amount"`
	Method            *string            `json:"method,omitempty"`
	BankName          *string            `json:"bank_name,omitempty"`
	AccountName       *string            `json:"account_name,omitempty"`
	UploadedAt        time.Time          `json:"uploaded_at"`
	Deadline          *time.Time         `json:"deadline,omitempty"`
	ReviewStatus      enums.ReviewStatus `json:"review_status"`
	ReviewedBy        *uuid.UUID         `json:"reviewed_by,omitempty"`
	ReviewedAt        *time.Time         `json:"reviewed_at,omitempty"`
	ReviewNotes       *string            `json:"review_notes,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
}

// SubmissionFromModel converts a submission row into its transport shape.
func SubmissionFromModel(m *models.PaymentSubmission) *SubmissionDTO {
	if m == nil {
		return nil
	}
	return &SubmissionDTO{
		ID:                m.ID,
		SignupID:          m.SignupID,
		ProviderProfileID: m.ProviderProfileID,
		ProviderKind:      m.ProviderKind,
		PlanKind:          m.PlanKind,
		ProofURL:          m.ProofURL,
		Amount:            m.Amount,
		Method:            m.Method,
		BankName:          m.BankName,
		AccountName:       m.AccountName,
		UploadedAt:        m.UploadedAt,
		Deadline:          m.Deadline,
		ReviewStatus:      m.ReviewStatus,
		ReviewedBy:        m.ReviewedBy,
		ReviewedAt:        m.ReviewedAt,
		ReviewNotes:       m.ReviewNotes,
		CreatedAt:         m.CreatedAt,
	}
}

// AgreementDTO is the transport shape of one terms acceptance row.
type AgreementDTO struct {
	ID         uuid.UUID `json:"id"`
	SignupID   uuid.UUID `json:"signup_id"`
	Version    string    `json:"version"`
	Clauses    []string  `json:"clauses"`
	AcceptedAt time.Time `json:"accepted_at"`
	ClientIP   *string   `json:"client_ip,omitempty"`
	UserAgent  *string   `json:"user_agent,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// AgreementFromModel converts an agreement row into its transport shape.
func AgreementFromModel(m *models.MembershipAgreement) *AgreementDTO {
	if m == nil {
		return nil
	}
	return &AgreementDTO{
		ID:         m.ID,
		SignupID:   m.SignupID,
		Version:    m.Version,
		Clauses:    []string(m.Clauses),
		AcceptedAt: m.AcceptedAt,
		ClientIP:   m.ClientIP,
		UserAgent:  m.UserAgent,
		CreatedAt:  m.CreatedAt,
	}
}
