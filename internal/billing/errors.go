package billing

import "fmt"

// SignatureError indicates the webhook payload failed signature verification.
type SignatureError struct {
	Err error
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("invalid webhook signature: %v", e.Err)
}

func (e *SignatureError) Unwrap() error {
	return e.Err
}

// UnlinkedCustomerError indicates a subscription event for a Stripe customer
// that no account is linked to yet. Stripe retries the delivery.
type UnlinkedCustomerError struct {
	CustomerID string
}

func (e *UnlinkedCustomerError) Error() string {
	return fmt.Sprintf("no account linked to customer %s", e.CustomerID)
}

// EventError indicates a verified event that cannot be applied.
type EventError struct {
	EventID string
	Reason  string
}

func (e *EventError) Error() string {
	return fmt.Sprintf("event %s: %s", e.EventID, e.Reason)
}
