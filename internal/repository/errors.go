// Package repository defines the persistence layer together with sentinel
// error values reused across repositories. The sentinels let handlers and
// services distinguish failure scenarios without inspecting driver errors:
// ErrEmailExists maps to a duplicate-email rejection, ErrUserNotFound to an
// unknown account and ErrCodeNotFound to a missing verification code.
package repository

import "errors"

// ErrEmailExists is returned when an insert or precondition hits the unique
// email constraint. Handlers translate it into an HTTP 400 response.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when no user row matches the lookup.
// Handlers translate it into an HTTP 404 response.
var ErrUserNotFound = errors.New("user not found")

// ErrCodeNotFound is returned when no verification code is stored for an
// email, either because none was issued or because it expired and was
// evicted.
var ErrCodeNotFound = errors.New("verification code not found")
