// Package mailer delivers verification codes to users by email.
package mailer

import "context"

// Mailer sends transactional mail. Implementations must be safe for
// concurrent use.
type Mailer interface {
	// SendVerificationCode delivers the code to the given address. The code
	// must never travel back to the API caller by any other channel.
	SendVerificationCode(ctx context.Context, to, code string) error
}
