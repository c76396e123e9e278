package enums

import "fmt"

// SignupStatus tracks the highest stage a membership signup has completed.
// Transitions are strictly forward; the only backward-looking transition is
// deactivation, which is terminal.
type SignupStatus string

const (
	SignupStatusPlanSelected    SignupStatus = "plan_selected"
	SignupStatusTermsAccepted   SignupStatus = "terms_accepted"
	SignupStatusPortalSelected  SignupStatus = "portal_selected"
	SignupStatusAccountCreated  SignupStatus = "account_created"
	SignupStatusProfileUploaded SignupStatus = "profile_uploaded"
	SignupStatusAwaitingPayment SignupStatus = "awaiting_payment"
	SignupStatusPaymentPending  SignupStatus = "payment_pending"
	SignupStatusActive          SignupStatus = "active"
	SignupStatusDeactivated     SignupStatus = "deactivated"
)

var validSignupStatuses = []SignupStatus{
	SignupStatusPlanSelected,
	SignupStatusTermsAccepted,
	SignupStatusPortalSelected,
	SignupStatusAccountCreated,
	SignupStatusProfileUploaded,
	SignupStatusAwaitingPayment,
	SignupStatusPaymentPending,
	SignupStatusActive,
	SignupStatusDeactivated,
}

// String implements fmt.Stringer.
func (s SignupStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s SignupStatus) IsValid() bool {
	for _, candidate := range validSignupStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further workflow transitions are allowed.
func (s SignupStatus) IsTerminal() bool {
	return s == SignupStatusActive || s == SignupStatusDeactivated
}

// ParseSignupStatus converts raw input into a SignupStatus.
func ParseSignupStatus(value string) (SignupStatus, error) {
	for _, candidate := range validSignupStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid signup status %q", value)
}
