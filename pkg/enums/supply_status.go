package enums

import "fmt"

// SupplyStatus maps to the supply_status_enum enum in Postgres.
type SupplyStatus string

const (
	SupplyStatusPending   SupplyStatus = "pending"
	SupplyStatusApproved  SupplyStatus = "approved"
	SupplyStatusRejected  SupplyStatus = "rejected"
	SupplyStatusCancelled SupplyStatus = "cancelled"
)

var validSupplyStatuses = []SupplyStatus{
	SupplyStatusPending,
	SupplyStatusApproved,
	SupplyStatusRejected,
	SupplyStatusCancelled,
}

// String implements fmt.Stringer.
func (s SupplyStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches the canonical supply status enum.
func (s SupplyStatus) IsValid() bool {
	for _, candidate := range validSupplyStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the request lifecycle.
// Pending is the only state that permits further transitions.
func (s SupplyStatus) IsTerminal() bool {
	return s == SupplyStatusApproved || s == SupplyStatusRejected || s == SupplyStatusCancelled
}

// ParseSupplyStatus converts raw input into SupplyStatus.
func ParseSupplyStatus(value string) (SupplyStatus, error) {
	for _, candidate := range validSupplyStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid supply status %q", value)
}
