package domain

type CheckoutStatus string

const (
	CheckoutStatusIdle       CheckoutStatus = "IDLE"
	CheckoutStatusSubmitting CheckoutStatus = "SUBMITTING"
	CheckoutStatusSuccess    CheckoutStatus = "SUCCESS"
	CheckoutStatusFailed     CheckoutStatus = "FAILED"
)

// IsTerminal reports whether an attempt in this status is finished.
func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusSuccess || s == CheckoutStatusFailed
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether a checkout may move from one status to another.
// A new attempt can start from idle or from the end of a previous attempt.
func CanTransitionTo(from, to CheckoutStatus) bool {
	switch to {
	case CheckoutStatusSubmitting:
		return from == CheckoutStatusIdle || from.IsTerminal()
	case CheckoutStatusSuccess, CheckoutStatusFailed:
		return from == CheckoutStatusSubmitting
	default:
		return false
	}
}
