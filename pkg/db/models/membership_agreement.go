package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// MembershipAgreement is an append-only audit row for a terms
// acceptance. Repeated acceptances on the same signup append new rows.
type MembershipAgreement struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SignupID   uuid.UUID      `gorm:"column:signup_id;type:uuid;not null;index"`
	Version    string         `gorm:"column:version;not null"`
	Clauses    pq.StringArray `gorm:"column:clauses;type:text[];not null"`
	AcceptedAt time.Time      `gorm:"column:accepted_at;type:timestamptz;not null"`
	ClientIP   *string        `gorm:"column:client_ip"`
	UserAgent  *string        `gorm:"column:user_agent"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
}
