package enums

import "fmt"

// ChargeStatus tracks the lifecycle state of a charge.
type ChargeStatus string

const (
	ChargeStatusPending  ChargeStatus = "PENDING"
	ChargeStatusPaid     ChargeStatus = "PAID"
	ChargeStatusExpired  ChargeStatus = "EXPIRED"
	ChargeStatusCanceled ChargeStatus = "CANCELED"
)

var validChargeStatuses = []ChargeStatus{
	ChargeStatusPending,
	ChargeStatusPaid,
	ChargeStatusExpired,
	ChargeStatusCanceled,
}

// allowedChargeTransitions is the canonical transition table. PENDING is the
// only non-terminal state; PAID, EXPIRED, and CANCELED accept no further moves.
var allowedChargeTransitions = map[ChargeStatus][]ChargeStatus{
	ChargeStatusPending: {ChargeStatusPaid, ChargeStatusExpired, ChargeStatusCanceled},
}

// String implements fmt.Stringer.
func (c ChargeStatus) String() string {
	return string(c)
}

// IsValid reports whether the value matches the canonical charge status enum.
func (c ChargeStatus) IsValid() bool {
	for _, candidate := range validChargeStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the status may move to the target state.
func (c ChargeStatus) CanTransitionTo(target ChargeStatus) bool {
	for _, candidate := range allowedChargeTransitions[c] {
		if candidate == target {
			return true
		}
	}
	return false
}

// ParseChargeStatus converts the raw string to ChargeStatus.
func ParseChargeStatus(value string) (ChargeStatus, error) {
	for _, candidate := range validChargeStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid charge status %q", value)
}
