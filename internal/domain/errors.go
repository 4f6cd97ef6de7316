package domain

import "errors"

var (
	ErrMissingField         = errors.New("missing required field")
	ErrFieldTooLong         = errors.New("field too long")
	ErrGroupNotFound        = errors.New("group not found")
	ErrGroupFull            = errors.New("group full")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
	ErrEmptyMessage         = errors.New("empty message")
	ErrMessageTooLong       = errors.New("message too long")
	ErrUnauthenticated      = errors.New("not authenticated")
	ErrInvalidState         = errors.New("invalid state for operation")
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrMissingField, "missing-required-field"},
	{ErrFieldTooLong, "field-too-long"},
	{ErrGroupNotFound, "group-not-found"},
	{ErrGroupFull, "group-full"},
	{ErrPermissionDenied, "permission-denied"},
	{ErrClipboardUnavailable, "clipboard-unavailable"},
	{ErrEmptyMessage, "empty-message"},
	{ErrMessageTooLong, "message-too-long"},
	{ErrUnauthenticated, "unauthenticated"},
	{ErrInvalidState, "invalid-state"},
}

// ErrorCode is the stable wire name of a domain error, "internal" for anything else.
func ErrorCode(err error) string {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return "internal"
}
