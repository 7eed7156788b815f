package ports

import "context"

// Mailer delivers account emails.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, name, resetURL string) error
}
