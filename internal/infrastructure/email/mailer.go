package email

import (
	"context"
	"errors"
)

// ErrDelivery indicates the message could not be handed to the transport
var ErrDelivery = errors.New("email delivery failed")

// Mailer sends a single HTML message to one recipient
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
