package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/santai-app/santai-backend/pkg/enums"
)

// AdminNotification stores in-app notification payloads for the admin
// review queue.
type AdminNotification struct {
	ID        uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SignupID  *uuid.UUID             `gorm:"column:signup_id;type:uuid"`
	Type      enums.NotificationType `gorm:"column:type;type:notification_type;not null"`
	Title     string                 `gorm:"type:text;not null"`
	Message   string                 `gorm:"type:text;not null"`
	Link      *string                `gorm:"type:text"`
	ReadAt    *time.Time             `gorm:"column:read_at;type:timestamptz"`
	CreatedAt time.Time              `gorm:"column:created_at;type:timestamptz;default:now()"`
}
