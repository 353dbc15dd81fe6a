package entities

import "errors"

// ErrorKind classifies domain failures so transports can map them to status codes.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindUnauthenticated
	KindPermissionDenied
	KindNotFound
	KindConflict
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindPermissionDenied:
		return "permission_denied"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	case KindUnknown:
	}
	return "unknown"
}

// Error is a domain error carrying its kind. Category sentinels such as
// ErrNotFound match every Error of the same kind through errors.Is.
type Error struct {
	Kind     ErrorKind
	Message  string
	category bool
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is the category sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.category && t.Kind == e.Kind
}

// NewError creates a domain error of the given kind.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// ValidationError creates a validation error with the given message.
func ValidationError(message string) *Error {
	return NewError(KindValidation, message)
}

// KindOf returns the kind of the first domain error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Category sentinels
var (
	ErrUnauthenticated  = &Error{Kind: KindUnauthenticated, Message: "unauthenticated", category: true}
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied, Message: "permission denied", category: true}
	ErrNotFound         = &Error{Kind: KindNotFound, Message: "not found", category: true}
	ErrConflict         = &Error{Kind: KindConflict, Message: "conflict", category: true}
	ErrValidation       = &Error{Kind: KindValidation, Message: "validation failed", category: true}
)

// Common errors
var (
	ErrInvalidCredentials = NewError(KindUnauthenticated, "invalid credentials")
	ErrInvalidToken       = NewError(KindUnauthenticated, "invalid authentication credentials")

	ErrUserNotFound       = NewError(KindNotFound, "user not found")
	ErrDepartmentNotFound = NewError(KindNotFound, "department not found")
	ErrTaskNotFound       = NewError(KindNotFound, "task not found")
	ErrAttendanceNotFound = NewError(KindNotFound, "attendance record not found")

	ErrEmailTaken         = NewError(KindConflict, "email already registered")
	ErrAlreadyCheckedIn   = NewError(KindConflict, "already checked in today")
	ErrNotCheckedIn       = NewError(KindConflict, "not checked in today")
	ErrAlreadyCheckedOut  = NewError(KindConflict, "already checked out today")
	ErrAttendanceConflict = NewError(KindConflict, "attendance for today was modified concurrently")

	ErrCheckOutBeforeCheckIn = NewError(KindValidation, "check-out cannot precede check-in")
)
