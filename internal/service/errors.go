package service

import "errors"

// Error kinds. Every domain error below matches exactly one of them with
// errors.Is, which is how the HTTP layer picks a status code.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("unavailable")
)

// DomainError is a client-facing error: its message is returned verbatim.
type DomainError struct {
	kind error
	msg  string
}

func newError(kind error, msg string) *DomainError {
	return &DomainError{kind: kind, msg: msg}
}

func (e *DomainError) Error() string {
	return e.msg
}

func (e *DomainError) Is(target error) bool {
	return target == e.kind
}

var (
	ErrStudentNotFound    = newError(ErrNotFound, "student not found")
	ErrStudentExists      = newError(ErrConflict, "student ID or email already exists")
	ErrEmailTaken         = newError(ErrConflict, "email already in use by another student")
	ErrIncorrectPassword  = newError(ErrUnauthorized, "current password is incorrect")
	ErrInvalidCredentials = newError(ErrUnauthorized, "invalid credentials")
	ErrPasswordTooLong    = newError(ErrInvalidInput, "password must be at most 72 bytes")

	ErrAssignmentNotFound = newError(ErrNotFound, "assignment not found")
	ErrCommentNotFound    = newError(ErrNotFound, "comment not found")

	ErrTopicNotFound = newError(ErrNotFound, "topic not found")
	ErrTopicExists   = newError(ErrConflict, "topic with this topic_id already exists")
	ErrReplyNotFound = newError(ErrNotFound, "reply not found")
	ErrReplyExists   = newError(ErrConflict, "reply with this reply_id already exists")

	ErrWeekNotFound = newError(ErrNotFound, "week not found")
	ErrWeekExists   = newError(ErrConflict, "week with this week_id already exists")

	ErrFileNotFound       = newError(ErrNotFound, "file not found")
	ErrFileRequired       = newError(ErrInvalidInput, "file is required")
	ErrFileTooLarge       = newError(ErrInvalidInput, "file exceeds the maximum upload size")
	ErrStorageUnavailable = newError(ErrUnavailable, "file storage is not configured")

	ErrNoFieldsToUpdate = newError(ErrInvalidInput, "no fields provided to update")
)

// MissingParam reports a required query or body parameter that was absent.
func MissingParam(name string) error {
	return newError(ErrInvalidInput, name+" is required")
}
