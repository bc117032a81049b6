package service

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// RegisterInput is the registration payload. Field names double as the JSON
// contract used by the HTTP layer.
type RegisterInput struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"confirm_password"`
	FullName         string `json:"full_name"`
	ProfilePicture   string `json:"profile_picture"`
	VerificationCode string `json:"verification_code"`
}

// Validate checks the registration payload. The confirm-password mismatch is
// reported against the confirm_password field.
func (r RegisterInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.FullName, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(stringEquals(r.Password, "passwords do not match")),
		),
		validation.Field(&r.VerificationCode, validation.Required, validation.Length(4, 4), is.Digit),
	)
}

// LoginInput is the login payload.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the login payload.
func (l LoginInput) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Email, validation.Required, is.Email),
		validation.Field(&l.Password, validation.Required, validation.Length(6, 100)),
	)
}

// EmailInput is the code-issuance payload.
type EmailInput struct {
	Email string `json:"email"`
}

// Validate checks the code-issuance payload.
func (e EmailInput) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Email, validation.Required, is.Email),
	)
}

// stringEquals builds a rule that rejects values different from expected.
func stringEquals(expected, msg string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s != expected {
			return errors.New(msg)
		}
		return nil
	}
}
