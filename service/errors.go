// Package service holds the patient record lifecycle and staff account rules.
package service

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrBadCredentials = errors.New("bad credentials")
)

// Error is a business failure tied to an input field, so the boundary can
// report it in the errors array under that field.
type Error struct {
	Kind    error
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
}

func (e *Error) Is(target error) bool { return errors.Is(e.Kind, target) }

var (
	ErrPatientNotFound    = &Error{Kind: ErrNotFound, Field: "id", Message: "patient not found"}
	ErrPatientEmailExists = &Error{Kind: ErrConflict, Field: "email", Message: "a patient with this email already exists"}
	ErrUsernameExists     = &Error{Kind: ErrConflict, Field: "username", Message: "username is already taken"}
	ErrUserNotFound       = &Error{Kind: ErrNotFound, Field: "username", Message: "user not found"}
)
