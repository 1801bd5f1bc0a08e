package consolidation

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds surfaced by the engine. Use errors.Is to test for them.
var (
	ErrInputSchema     = errors.New("input schema error")
	ErrInputParse      = errors.New("input parse error")
	ErrUnknownCountry  = errors.New("unknown country")
	ErrUnknownCategory = errors.New("unknown category")
	ErrEmptyResult     = errors.New("empty result")
)

// InputSchemaError reports a file whose header cannot be used: empty input,
// an unreadable header row or missing required columns.
type InputSchemaError struct {
	Country string
	Missing []string
	Reason  string
}

func (e *InputSchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("input schema error for %s: missing columns %s", e.Country, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("input schema error for %s: %s", e.Country, e.Reason)
}

func (e *InputSchemaError) Unwrap() error { return ErrInputSchema }

// InputParseError wraps a failure of the underlying stream.
type InputParseError struct {
	Country string
	Err     error
}

func (e *InputParseError) Error() string {
	return fmt.Sprintf("input parse error for %s: %v", e.Country, e.Err)
}

func (e *InputParseError) Unwrap() []error { return []error{ErrInputParse, e.Err} }
