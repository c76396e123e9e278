package enums

import "fmt"

// PlanKind identifies the commercial tier a provider signs up under.
type PlanKind string

const (
	// PlanKindPro is commission based with no upfront fee.
	PlanKindPro PlanKind = "pro"
	// PlanKindPlus charges a fixed upfront fee and takes no commission.
	PlanKindPlus PlanKind = "plus"
)

var validPlanKinds = []PlanKind{
	PlanKindPro,
	PlanKindPlus,
}

// String implements fmt.Stringer.
func (p PlanKind) String() string {
	return string(p)
}

// IsValid reports whether the value is known.
func (p PlanKind) IsValid() bool {
	for _, candidate := range validPlanKinds {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePlanKind converts raw input into a PlanKind.
func ParsePlanKind(value string) (PlanKind, error) {
	for _, candidate := range validPlanKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid plan kind %q", value)
}
