package nitfio

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedEndOfData         = errors.New("nitf: unexpected end of data")
	ErrMalformedField              = errors.New("nitf: malformed field")
	ErrUnexpectedToken             = errors.New("nitf: unexpected token")
	ErrUnresolvedReference         = errors.New("nitf: unresolved grammar reference")
	ErrUnsupportedGrammarConstruct = errors.New("nitf: unsupported grammar construct")
	ErrStreamingLengthMismatch     = errors.New("nitf: streaming header length mismatch")
	ErrStreamingUnsupported        = errors.New("nitf: streaming mode requires a seekable source")
	ErrMalformedCoordinate         = errors.New("nitf: malformed coordinate")
	ErrUnsupportedSegmentFeature   = errors.New("nitf: unsupported segment feature")
)

// ParseError records where in the source a failure happened.
type ParseError struct {
	Err    error
	Offset int64
	Field  string
	Detail string
}

func (e *ParseError) Error() string {
	msg := e.Err.Error()
	if e.Field != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Field)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	return fmt.Sprintf("%s at offset %d", msg, e.Offset)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError builds a ParseError. Detail is formatted with args.
func NewParseError(err error, offset int64, field string, detail string, args ...any) *ParseError {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &ParseError{Err: err, Offset: offset, Field: field, Detail: detail}
}
