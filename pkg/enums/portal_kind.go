package enums

import "fmt"

// PortalKind is the category of provider registering through the signup flow.
type PortalKind string

const (
	PortalKindTherapist    PortalKind = "massage_therapist"
	PortalKindMassageVenue PortalKind = "massage_venue"
	PortalKindFacialVenue  PortalKind = "facial_venue"
)

var validPortalKinds = []PortalKind{
	PortalKindTherapist,
	PortalKindMassageVenue,
	PortalKindFacialVenue,
}

// String implements fmt.Stringer.
func (p PortalKind) String() string {
	return string(p)
}

// IsValid reports whether the value is known.
func (p PortalKind) IsValid() bool {
	for _, candidate := range validPortalKinds {
		if candidate == p {
			return true
		}
	}
	return false
}

// Label returns a human readable name used in notification copy.
func (p PortalKind) Label() string {
	switch p {
	case PortalKindTherapist:
		return "massage therapist"
	case PortalKindMassageVenue:
		return "massage venue"
	case PortalKindFacialVenue:
		return "facial venue"
	default:
		return "provider"
	}
}

// ParsePortalKind converts raw input into a PortalKind.
func ParsePortalKind(value string) (PortalKind, error) {
	for _, candidate := range validPortalKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid portal kind %q", value)
}
