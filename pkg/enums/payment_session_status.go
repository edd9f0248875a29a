package enums

import "fmt"

// PaymentSessionStatus tracks the lifecycle of a Webpay payment session.
// A session moves created -> committing -> approved|failed and never
// leaves a terminal state.
type PaymentSessionStatus string

const (
	PaymentSessionStatusCreated    PaymentSessionStatus = "created"
	PaymentSessionStatusCommitting PaymentSessionStatus = "committing"
	PaymentSessionStatusApproved   PaymentSessionStatus = "approved"
	PaymentSessionStatusFailed     PaymentSessionStatus = "failed"
)

var validPaymentSessionStatuses = []PaymentSessionStatus{
	PaymentSessionStatusCreated,
	PaymentSessionStatusCommitting,
	PaymentSessionStatusApproved,
	PaymentSessionStatusFailed,
}

// String implements fmt.Stringer.
func (p PaymentSessionStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentSessionStatus.
func (p PaymentSessionStatus) IsValid() bool {
	for _, candidate := range validPaymentSessionStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the session can no longer change state.
func (p PaymentSessionStatus) IsTerminal() bool {
	return p == PaymentSessionStatusApproved || p == PaymentSessionStatusFailed
}

// ParsePaymentSessionStatus converts raw input into a PaymentSessionStatus.
func ParsePaymentSessionStatus(value string) (PaymentSessionStatus, error) {
	for _, candidate := range validPaymentSessionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment session status %q", value)
}
