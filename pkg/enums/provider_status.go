package enums

import "fmt"

// ProviderStatus is the lifecycle state stamped on a provider profile by the
// signup workflow. Dashboards and public listings read it but never write it.
type ProviderStatus string

const (
	ProviderStatusPendingProfile  ProviderStatus = "pending_profile"
	ProviderStatusPendingGoLive   ProviderStatus = "pending_go_live"
	ProviderStatusAwaitingPayment ProviderStatus = "awaiting_payment"
	ProviderStatusPaymentPending  ProviderStatus = "payment_pending"
	ProviderStatusActive          ProviderStatus = "active"
	ProviderStatusDeactivated     ProviderStatus = "deactivated"
)

var validProviderStatuses = []ProviderStatus{
	ProviderStatusPendingProfile,
	ProviderStatusPendingGoLive,
	ProviderStatusAwaitingPayment,
	ProviderStatusPaymentPending,
	ProviderStatusActive,
	ProviderStatusDeactivated,
}

// String implements fmt.Stringer.
func (s ProviderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s ProviderStatus) IsValid() bool {
	for _, candidate := range validProviderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProviderStatus converts raw input into a ProviderStatus.
func ParseProviderStatus(value string) (ProviderStatus, error) {
	for _, candidate := range validProviderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid provider status %q", value)
}
