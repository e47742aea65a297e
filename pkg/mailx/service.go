package mailx

import "context"

// Sent is the delivery receipt returned by a backend: the account that
// carried the message and the message as it was handed over.
type Sent struct {
	Account string
	Email   Email
}

// Service is the delivery backend contract. Send dispatches through the
// backend's default account; SendAs dispatches through a named account.
// Implementations must be safe for concurrent use.
type Service interface {
	Send(ctx context.Context, email Email, auth *Authentication, profile Profile) (*Sent, error)
	SendAs(ctx context.Context, email Email, auth *Authentication, profile Profile, account string) (*Sent, error)
}
