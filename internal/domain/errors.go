package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidArgument = errors.New("invalid argument")
)

var (
	ErrOfficeLimit     = fmt.Errorf("user already owns an office: %w", ErrConflict)
	ErrDuplicateMember = fmt.Errorf("user is already a member: %w", ErrConflict)
	ErrOwnerRemoval    = fmt.Errorf("office owner cannot be removed: %w", ErrConflict)
	ErrOfficeNotFound  = fmt.Errorf("office %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrMemberNotFound  = fmt.Errorf("membership %w", ErrNotFound)
)
