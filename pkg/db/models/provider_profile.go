package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/santai-app/santai-backend/pkg/enums"
)

// ProviderProfile is the provider-facing record materialized when a
// signup creates its account. The same schema is stored in one of
// three physical tables depending on the signup's portal
// (therapist_profiles, massage_venues, facial_venues); repositories
// pick the table, the struct never does.
type ProviderProfile struct {
	ID       uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID   uuid.UUID            `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	SignupID uuid.UUID            `gorm:"column:signup_id;type:uuid;not null"`
	Name     string               `gorm:"column:name;not null"`
	Email    string               `gorm:"column:email;not null"`
	Phone    *string              `gorm:"column:phone"`
	PlanKind enums.PlanKind       `gorm:"column:plan_kind;type:plan_kind;not null"`
	Status   enums.ProviderStatus `gorm:"column:status;type:provider_status;not null;default:'pending_profile'"`

	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;type:payment_status;not null;default:'pending'"`

	PhotoURL    *string `gorm:"column:photo_url"`
	Bio         *string `gorm:"column:bio"`
	City        *string `gorm:"column:city"`
	Address     *string `gorm:"column:address"`
	MapsURL     *string `gorm:"column:maps_url"`
	Instagram   *string `gorm:"column:instagram"`
	ServiceArea *string `gorm:"column:service_area"`

	IsLive          bool       `gorm:"column:is_live;not null;default:false"`
	IsVerified      bool       `gorm:"column:is_verified;not null;default:false"`
	PaymentDeadline *time.Time `gorm:"column:payment_deadline;type:timestamptz"`
	ActivatedAt     *time.Time `gorm:"column:activated_at;type:timestamptz"`
	DeactivatedAt   *time.Time `gorm:"column:deactivated_at;type:timestamptz"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
