package domain

import "errors"

// Code is the machine-readable error code reported to channels.
type Code string

const (
	CodeUnauthorized     Code = "UNAUTHORIZED"
	CodeBadRequest       Code = "BAD_REQUEST"
	CodeTermsRequired    Code = "TERMS_REQUIRED"
	CodeInvalidName      Code = "INVALID_NAME"
	CodeInvalidEmail     Code = "INVALID_EMAIL"
	CodeInvalidDOB       Code = "INVALID_DOB"
	CodeUserNotFound     Code = "USER_NOT_FOUND"
	CodeInvalidRoomName  Code = "INVALID_ROOM_NAME"
	CodeInvalidStartDate Code = "INVALID_START_DATE"
	CodeRoomNotFound     Code = "ROOM_NOT_FOUND"
	CodeRoomFull         Code = "ROOM_FULL"
	CodeForbidden        Code = "FORBIDDEN"
	CodeEmptyMessage     Code = "EMPTY_MESSAGE"
	CodeMessageTooLong   Code = "MESSAGE_TOO_LONG"
	CodeInternal         Code = "INTERNAL"
)

// Error is a domain failure carrying its code. Two errors are equal for
// errors.Is when their codes match, so sentinels below can be compared
// against errors built with a more specific message.
type Error struct {
	Code    Code
	Message string
}

func NewError(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrUnauthorized     = NewError(CodeUnauthorized, "invalid api key")
	ErrBadRequest       = NewError(CodeBadRequest, "bad request")
	ErrTermsRequired    = NewError(CodeTermsRequired, "terms must be accepted")
	ErrInvalidName      = NewError(CodeInvalidName, "name must be 1-30 letters or spaces")
	ErrInvalidEmail     = NewError(CodeInvalidEmail, "invalid email")
	ErrInvalidDOB       = NewError(CodeInvalidDOB, "invalid date of birth or under 18")
	ErrUserNotFound     = NewError(CodeUserNotFound, "user not found")
	ErrInvalidRoomName  = NewError(CodeInvalidRoomName, "room name must be 1-50 characters")
	ErrInvalidStartDate = NewError(CodeInvalidStartDate, "start date must be today or later")
	ErrRoomNotFound     = NewError(CodeRoomNotFound, "room not found")
	ErrRoomFull         = NewError(CodeRoomFull, "room is full")
	ErrForbidden        = NewError(CodeForbidden, "join the room before sending messages")
	ErrEmptyMessage     = NewError(CodeEmptyMessage, "message is empty")
	ErrMessageTooLong   = NewError(CodeMessageTooLong, "message is too long")
)

// BadRequest builds a BAD_REQUEST error with a specific reason.
func BadRequest(msg string) *Error {
	return NewError(CodeBadRequest, msg)
}

// CodeOf extracts the code of err; anything uncoded is INTERNAL.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
