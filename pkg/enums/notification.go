package enums

import "fmt"

// NotificationType categorizes admin review-queue notifications.
type NotificationType string

const (
	NotificationTypeNewGoLive            NotificationType = "new_go_live"
	NotificationTypePaymentProofUploaded NotificationType = "payment_proof_uploaded"
	NotificationTypeAccountDeactivated   NotificationType = "account_deactivated"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeNewGoLive,
	NotificationTypePaymentProofUploaded,
	NotificationTypeAccountDeactivated,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// Title returns the admin-facing headline for the notification type.
func (n NotificationType) Title() string {
	switch n {
	case NotificationTypeNewGoLive:
		return "New go-live request"
	case NotificationTypePaymentProofUploaded:
		return "Payment proof uploaded"
	case NotificationTypeAccountDeactivated:
		return "Account deactivated"
	default:
		return "Notification"
	}
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
