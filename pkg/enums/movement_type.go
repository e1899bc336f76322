package enums

import "fmt"

// MovementType maps to the movement_type_enum enum in Postgres.
type MovementType string

const (
	MovementTypeInbound  MovementType = "inbound"
	MovementTypeOutbound MovementType = "outbound"
)

var validMovementTypes = []MovementType{
	MovementTypeInbound,
	MovementTypeOutbound,
}

// String implements fmt.Stringer.
func (m MovementType) String() string {
	return string(m)
}

// IsValid reports whether the value matches the canonical movement type enum.
func (m MovementType) IsValid() bool {
	for _, candidate := range validMovementTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMovementType converts raw input into MovementType.
func ParseMovementType(value string) (MovementType, error) {
	for _, candidate := range validMovementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement type %q", value)
}
