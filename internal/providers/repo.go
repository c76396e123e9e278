package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/santai-app/santai-backend/pkg/db/models"
	"github.com/santai-app/santai-backend/pkg/enums"
)

// Repository persists provider records. Each portal stores the same
// schema in its own physical table; every call routes by portal.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a providers repo bound to the provided GORM DB.
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

// TableFor maps a portal to its physical table.
func TableFor(portal enums.PortalKind) (string, error) {
	switch portal {
	case enums.PortalKindTherapist:
		return "therapist_profiles", nil
	case enums.PortalKindMassageVenue:
		return "massage_venues", nil
	case enums.PortalKindFacialVenue:
		return "facial_venues", nil
	default:
		return "", fmt.Errorf("unknown portal %q", portal)
	}
}

func (r *Repository) table(ctx context.Context, portal enums.PortalKind) (*gorm.DB, error) {
	name, err := TableFor(portal)
	if err != nil {
		return nil, err
	}
	return r.db.WithContext(ctx).Table(name), nil
}

// Create inserts a provider record into the portal's table.
func (r *Repository) Create(ctx context.Context, portal enums.PortalKind, profile *models.ProviderProfile) error {
	query, err := r.table(ctx, portal)
	if err != nil {
		return err
	}
	return query.Create(profile).Error
}

// FindByID loads a provider record from the portal's table.
func (r *Repository) FindByID(ctx context.Context, portal enums.PortalKind, id uuid.UUID) (*models.ProviderProfile, error) {
	query, err := r.table(ctx, portal)
	if err != nil {
		return nil, err
	}
	var profile models.ProviderProfile
	if err := query.Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByUserID loads the provider record owned by a user.
func (r *Repository) FindByUserID(ctx context.Context, portal enums.PortalKind, userID uuid.UUID) (*models.ProviderProfile, error) {
	query, err := r.table(ctx, portal)
	if err != nil {
		return nil, err
	}
	var profile models.ProviderProfile
	if err := query.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// ProfileUpdate carries the optional profile fields a provider can fill in.
type ProfileUpdate struct {
	PhotoURL    *string
	Bio         *string
	City        *string
	Address     *string
	MapsURL     *string
	Instagram   *string
	ServiceArea *string
}

// CompleteProfile stores the profile details and moves the record to
// pending_go_live. Records already past go-live are not touched.
func (r *Repository) CompleteProfile(ctx context.Context, portal enums.PortalKind, id uuid.UUID, update ProfileUpdate, now time.Time) (int64, error) {
	query, err := r.table(ctx, portal)
	if err != nil {
		return 0, err
	}

	values := map[string]any{
		"status":     enums.ProviderStatusPendingGoLive,
		"updated_at": now,
	}
	if update.PhotoURL != nil {
		values["photo_url"] = *update.PhotoURL
	}
	if update.Bio != nil {
		values["bio"] = *update.Bio
	}
	if update.City != nil {
		values["city"] = *update.City
	}
	if update.Address != nil {
		values["address"] = *update.Address
	}
	if update.MapsURL != nil {
		values["maps_url"] = *update.MapsURL
	}
	if update.Instagram != nil {
		values["instagram"] = *update.Instagram
	}
	if update.ServiceArea != nil {
		values["service_area"] = *update.ServiceArea
	}

	result := query.
		Where("id = ? AND status IN ?", id, []enums.ProviderStatus{enums.ProviderStatusPendingProfile, enums.ProviderStatusPendingGoLive}).
		Updates(values)
	return result.RowsAffected, result.Error
}

// GoLive flips the provider live and copies the payment deadline so the
// record is self-describing for the sweep.
func (r *Repository) GoLive(ctx context.Context, portal enums.PortalKind, id uuid.UUID, deadline, now time.Time) (int64, error) {
	query, err := r.table(ctx, portal)
	if err != nil {
		return 0, err
	}
	result := query.
		Where("id = ? AND status IN ?", id, []enums.ProviderStatus{enums.ProviderStatusPendingGoLive, enums.ProviderStatusAwaitingPayment}).
		Updates(map[string]any{
			"status":           enums.ProviderStatusAwaitingPayment,
			"is_live":          true,
			"payment_deadline": deadline,
			"updated_at":       now,
		})
	return result.RowsAffected, result.Error
}

// UpdateStatus moves a provider record between statuses, guarded by the
// set of statuses the transition is legal from.
func (r *Repository) UpdateStatus(ctx context.Context, portal enums.PortalKind, id uuid.UUID, from []enums.ProviderStatus, to enums.ProviderStatus, now time.Time) (int64, error) {
	query, err := r.table(ctx, portal)
	if err != nil {
		return 0, err
	}
	result := query.
		Where("id = ? AND status IN ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": now})
	return result.RowsAffected, result.Error
}

// SetPaymentStatus records where the provider's payment stands.
func (r *Repository) SetPaymentStatus(ctx context.Context, portal enums.PortalKind, id uuid.UUID, status enums.PaymentStatus, now time.Time) (int64, error) {
	query, err := r.table(ctx, portal)
	if err != nil {
		return 0, err
	}
	result := query.
		Where("id = ?", id).
		Updates(map[string]any{"payment_status": status, "updated_at": now})
	return result.RowsAffected, result.Error
}

// Activate flips the provider live after an approved payment.
func (r *Repository) Activate(ctx context.Context, portal enums.PortalKind, id uuid.UUID, now time.Time) (int64, error) {
	query, err := r.table(ctx, portal)
	if err != nil {
		return 0, err
	}
	result := query.
		Where("id = ? AND status <> ?", id, enums.ProviderStatusDeactivated).
		Updates(map[string]any{
			"status":         enums.ProviderStatusActive,
			"payment_status": enums.PaymentStatusPaid,
			"is_live":        true,
			"is_verified":    true,
			"activated_at":   now,
			"updated_at":     now,
		})
	return result.RowsAffected, result.Error
}

// Deactivate takes the provider offline.
func (r *Repository) Deactivate(ctx context.Context, portal enums.PortalKind, id uuid.UUID, now time.Time) (int64, error) {
	query, err := r.table(ctx, portal)
	if err != nil {
		return 0, err
	}
	result := query.
		Where("id = ? AND status <> ?", id, enums.ProviderStatusDeactivated).
		Updates(map[string]any{
			"status":         enums.ProviderStatusDeactivated,
			"is_live":        false,
			"deactivated_at": now,
			"updated_at":     now,
		})
	return result.RowsAffected, result.Error
}
