// internal/form/record.go
//
// Sign-up forms: validated output.
//
// A Record holds one typed value per schema field, in schema order.  Text,
// code, and email fields carry strings; date fields carry time.Time.  The
// JSON form is an object with one string value per field, keys in schema
// order, which is what the sign-up page prints after a good submission.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"encoding/json"
	"time"
)

// DateLayout is the only accepted date format (ISO-8601 calendar date).
const DateLayout = "2006-01-02"

// RawInput maps field name to the string the user typed.  Missing keys are
// treated as empty strings.
type RawInput map[string]string

// Record is the typed result of a successful validation.  The caller owns it;
// it shares nothing with the RawInput it came from.
type Record struct {
	names  []string
	values map[string]any
}

func newRecord(capacity int) *Record {
	return &Record{
		names:  make([]string, 0, capacity),
		values: make(map[string]any, capacity),
	}
}

func (r *Record) set(name string, v any) {
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = v
}

// Names returns field names in schema order.
func (r *Record) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Value returns the typed value for name.
func (r *Record) Value(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// String returns the display string of name, formatting dates with
// DateLayout.  Unknown names yield "".
func (r *Record) String(name string) string {
	switch v := r.values[name].(type) {
	case string:
		return v
	case time.Time:
		return v.Format(DateLayout)
	default:
		return ""
	}
}

// Date returns the parsed value of a date field.
func (r *Record) Date(name string) (time.Time, bool) {
	t, ok := r.values[name].(time.Time)
	return t, ok
}

// Map returns the display strings keyed by field name.
func (r *Record) Map() map[string]string {
	out := make(map[string]string, len(r.names))
	for _, n := range r.names {
		out[n] = r.String(n)
	}
	return out
}

// Len reports the number of fields.
func (r *Record) Len() int { return len(r.names) }

// MarshalJSON writes the record as an object with keys in schema order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, n := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(n)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.String(n))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// -----------------------------------------------------------------------------
// Result
// -----------------------------------------------------------------------------

// Result is what Validate returns: exactly one of a Record or a non-empty
// ValidationErrors, never both and never neither.
type Result struct {
	record *Record
	errs   ValidationErrors
}

// Valid reports whether the submission passed.
func (res Result) Valid() bool { return res.record != nil }

// Record returns the validated record, or nil when validation failed.
func (res Result) Record() *Record { return res.record }

// Errors returns the per-field messages, or nil when validation passed.
func (res Result) Errors() ValidationErrors { return res.errs }

// Err returns the ValidationErrors as an error, or nil on success.
func (res Result) Err() error {
	if res.record != nil {
		return nil
	}
	return res.errs
}
