package models

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindInvalidInput      ErrorKind = "invalid_input"
	KindMediaRead         ErrorKind = "media_read_failure"
	KindFrameExtraction   ErrorKind = "frame_extraction_failure"
	KindGenerationFailed  ErrorKind = "generation_failed"
	KindContentBlocked    ErrorKind = "content_blocked"
	KindEmptyResponse     ErrorKind = "empty_response"
	KindTruncated         ErrorKind = "truncated"
	KindMalformedResponse ErrorKind = "malformed_response"
)

// Error is the tagged error every pipeline stage returns.
// errors.Is matches on Kind only, so the Err* values below work as sentinels.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

var (
	ErrInvalidInput      = &Error{Kind: KindInvalidInput}
	ErrMediaRead         = &Error{Kind: KindMediaRead}
	ErrFrameExtraction   = &Error{Kind: KindFrameExtraction}
	ErrGenerationFailed  = &Error{Kind: KindGenerationFailed}
	ErrContentBlocked    = &Error{Kind: KindContentBlocked}
	ErrEmptyResponse     = &Error{Kind: KindEmptyResponse}
	ErrTruncated         = &Error{Kind: KindTruncated}
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse}
)

func NewError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Message == "" && e.Err != nil:
		return e.Err.Error()
	case e.Message == "":
		return string(e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of the first pipeline error in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
