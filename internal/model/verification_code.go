package model

import "time"

// VerificationCode is the single outstanding email-verification record for an
// address. Issuing a new code overwrites the previous one, so only the latest
// code is ever valid. The json tags define the serialized form stored in the
// code store.
type VerificationCode struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"` // 4-digit numeric string
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the code is no longer usable at the given instant.
func (v VerificationCode) Expired(now time.Time) bool {
	return !now.Before(v.ExpiresAt)
}
