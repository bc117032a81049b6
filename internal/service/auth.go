// Package service implements the auth business rules on top of the
// persistence and delivery collaborators. Every operation validates first and
// returns on the first error; no rejection path ever reaches a write.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/iliyamo/auth-service/internal/config"
	"github.com/iliyamo/auth-service/internal/mailer"
	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/queue"
	"github.com/iliyamo/auth-service/internal/repository"
	"github.com/iliyamo/auth-service/internal/utils"
)

// ErrInvalidCode signals a missing, mismatched or expired verification code.
var ErrInvalidCode = errors.New("invalid or expired verification code")

// ErrInvalidCredentials signals a password mismatch on login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidStatus signals an unknown presence status value.
var ErrInvalidStatus = errors.New("invalid status")

// UserStore is the slice of the user repository the service depends on.
type UserStore interface {
	Create(ctx context.Context, u *model.User) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdateLastLogin(ctx context.Context, id uint64, at time.Time) error
	UpdateStatus(ctx context.Context, id uint64, status model.UserStatus) error
}

// CodeStore persists at most one verification code per email.
type CodeStore interface {
	Upsert(ctx context.Context, rec model.VerificationCode) error
	Find(ctx context.Context, email string) (model.VerificationCode, error)
	Delete(ctx context.Context, email string) error
}

// EventPublisher pushes audit events to the broker. Publish failures are
// logged by the service and never fail the operation.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.AuthEvent) error
}

// Auth bundles the auth operations: code issuance, registration, login,
// status updates and profile lookup.
type Auth struct {
	Cfg    config.Config
	Users  UserStore
	Codes  CodeStore
	Mail   mailer.Mailer
	Events EventPublisher

	now func() time.Time // injectable clock
}

func NewAuth(cfg config.Config, users UserStore, codes CodeStore, mail mailer.Mailer, events EventPublisher) *Auth {
	return &Auth{
		Cfg:    cfg,
		Users:  users,
		Codes:  codes,
		Mail:   mail,
		Events: events,
		now:    time.Now,
	}
}

// IssueCode generates a fresh 4-digit code for email, stores it with the
// configured TTL and mails it out. An address already bound to an account is
// rejected before anything is written. If the mail dispatch fails the stored
// code stays valid and the error is surfaced to the caller.
func (s *Auth) IssueCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := (EmailInput{Email: email}).Validate(); err != nil {
		return err
	}

	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return repository.ErrEmailExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	code, err := utils.NewVerificationCode()
	if err != nil {
		return fmt.Errorf("generate verification code: %w", err)
	}
	rec := model.VerificationCode{
		Email:     email,
		Code:      code,
		ExpiresAt: s.now().UTC().Add(time.Duration(s.Cfg.CodeTTLSec) * time.Second),
	}
	if err := s.Codes.Upsert(ctx, rec); err != nil {
		return err
	}
	if err := s.Mail.SendVerificationCode(ctx, email, code); err != nil {
		// No rollback: the code is persisted and a retry of /get-code will
		// simply overwrite it.
		return err
	}
	s.publish(ctx, queue.AuthEvent{Kind: queue.EventCodeIssued, Email: email})
	return nil
}

// Register creates a verified user once the submitted code matches the
// outstanding one and the email is still free. The consumed code is deleted
// afterwards so it cannot be replayed; a failed delete is logged but does
// not undo the registration.
func (s *Auth) Register(ctx context.Context, in RegisterInput) (model.UserResponse, error) {
	in.Email = normalizeEmail(in.Email)
	if err := in.Validate(); err != nil {
		return model.UserResponse{}, err
	}
	email := in.Email

	rec, err := s.Codes.Find(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			return model.UserResponse{}, ErrInvalidCode
		}
		return model.UserResponse{}, err
	}
	if rec.Code != in.VerificationCode || rec.Expired(s.now().UTC()) {
		return model.UserResponse{}, ErrInvalidCode
	}

	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return model.UserResponse{}, repository.ErrEmailExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return model.UserResponse{}, err
	}

	hash, err := utils.HashPassword(in.Password, s.Cfg.BcryptCost)
	if err != nil {
		return model.UserResponse{}, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{
		Email:          email,
		PasswordHash:   hash,
		FullName:       strings.TrimSpace(in.FullName),
		ProfilePicture: strings.TrimSpace(in.ProfilePicture),
		Status:         model.StatusOffline,
		IsVerified:     true, // the code check proved mailbox ownership
	}
	id, err := s.Users.Create(ctx, u)
	if err != nil {
		return model.UserResponse{}, err
	}

	if err := s.Codes.Delete(ctx, email); err != nil {
		log.Printf("delete consumed verification code for %s: %v", email, err)
	}

	created, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return model.UserResponse{}, err
	}
	s.publish(ctx, queue.AuthEvent{Kind: queue.EventUserRegistered, UserID: id, Email: email})
	return created.Response(), nil
}

// Login verifies the credentials, stamps last_login and issues a bearer
// token bound to the user id. Unknown emails and bad passwords fail with
// distinct errors and leave last_login untouched.
func (s *Auth) Login(ctx context.Context, in LoginInput) (string, model.UserResponse, error) {
	in.Email = normalizeEmail(in.Email)
	if err := in.Validate(); err != nil {
		return "", model.UserResponse{}, err
	}
	email := in.Email

	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return "", model.UserResponse{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, in.Password) {
		return "", model.UserResponse{}, ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.Users.UpdateLastLogin(ctx, u.ID, now); err != nil {
		return "", model.UserResponse{}, err
	}
	u.LastLogin = &now

	access, err := utils.NewAccessToken(s.Cfg.JWTSecret, u.ID, s.Cfg.AccessTTLMin)
	if err != nil {
		return "", model.UserResponse{}, err
	}
	s.publish(ctx, queue.AuthEvent{Kind: queue.EventUserLogin, UserID: u.ID, Email: u.Email})
	return access.Token, u.Response(), nil
}

// UpdateStatus sets the presence flag for the authenticated user. An
// unknown status value is rejected before any write happens.
func (s *Auth) UpdateStatus(ctx context.Context, userID uint64, status model.UserStatus) (model.UserResponse, error) {
	if !status.Valid() {
		return model.UserResponse{}, ErrInvalidStatus
	}
	if err := s.Users.UpdateStatus(ctx, userID, status); err != nil {
		return model.UserResponse{}, err
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return model.UserResponse{}, err
	}
	s.publish(ctx, queue.AuthEvent{Kind: queue.EventStatusChanged, UserID: u.ID, Email: u.Email, Status: string(status)})
	return u.Response(), nil
}

// Me returns the sanitized profile of the authenticated user.
func (s *Auth) Me(ctx context.Context, userID uint64) (model.UserResponse, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return model.UserResponse{}, err
	}
	return u.Response(), nil
}

func (s *Auth) publish(ctx context.Context, ev queue.AuthEvent) {
	if s.Events == nil {
		return
	}
	ev.At = s.now().UTC().Format(time.RFC3339)
	if err := s.Events.Publish(ctx, ev); err != nil {
		log.Printf("publish %s event: %v", ev.Kind, err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
