// internal/form/submit.go
//
// Sign-up forms: consolidated Submit helper.
//
// Context
//   Most handlers want one call that parses the POST body, validates input,
//   and returns either the Record or a SubmitError carrying the per-field
//   messages.  HandleSubmit provides that so component code stays terse.
//
//------------------------------------------------------------------------------

package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// SubmitError wraps ValidationErrors so handlers can tell user input errors
// apart from system failures.
type SubmitError struct {
	Errors ValidationErrors
	Input  RawInput // what the user sent, for re-rendering
}

func (e *SubmitError) Error() string { return "form validation failed: " + e.Errors.Error() }

func (e *SubmitError) Unwrap() error { return e.Errors }

// RawInputFromValues picks the schema's fields out of posted values.  Only the
// first value of a repeated key is used; unknown keys are ignored.
func RawInputFromValues(s *Schema, v url.Values) RawInput {
	in := make(RawInput, s.Len())
	for _, name := range s.Names() {
		if vals, ok := v[name]; ok && len(vals) > 0 {
			in[name] = vals[0]
		}
	}
	return in
}

// ErrMalformedInput is returned by DecodeRawInput when the body is not
// exactly one JSON object of string values.
var ErrMalformedInput = errors.New("expected a JSON object of strings")

// DecodeRawInput reads a single JSON object of strings from r.  Anything
// after the object other than whitespace is rejected.
func DecodeRawInput(r io.Reader) (RawInput, error) {
	dec := json.NewDecoder(r)

	var in RawInput
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	if in == nil {
		return nil, ErrMalformedInput
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after object", ErrMalformedInput)
	}
	return in, nil
}

// HandleSubmit parses r, validates it against f, and returns the Record.  On
// bad input it returns a *SubmitError (check with IsValidationError).  Any
// other error is a request failure.
func HandleSubmit(f *Form, r *http.Request) (*Record, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	in := RawInputFromValues(f.Schema, r.PostForm)
	res := f.Validate(in)
	if !res.Valid() {
		return nil, &SubmitError{Errors: res.Errors(), Input: in}
	}
	return res.Record(), nil
}

// IsValidationError reports whether err came from a failed validation.
func IsValidationError(err error) bool {
	var se *SubmitError
	if errors.As(err, &se) {
		return true
	}
	var ve ValidationErrors
	return errors.As(err, &ve)
}
