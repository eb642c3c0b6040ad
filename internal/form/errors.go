// internal/form/errors.go
//
// Sign-up forms: error types.
//
// Two tiers.  ConfigurationError is raised while building a Schema or loading
// a FormDef and aborts startup.  ValidationErrors is the ordinary, expected
// outcome of a bad submission and is rendered back to the user.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"sort"
	"strings"
)

// ConfigurationError reports a contradictory or malformed rule set.
type ConfigurationError struct {
	Field  string // offending field, empty for schema-wide problems
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "schema configuration: " + e.Reason
	}
	return "schema configuration: field '" + e.Field + "': " + e.Reason
}

// IsConfigurationError reports whether err (or anything it wraps) is a
// *ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// ErrorField pairs a field name with its message so templates and prompts
// can walk failures in schema order.
type ErrorField struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ValidationErrors maps field name to the first rule that field violates.
type ValidationErrors map[string]string

// Error joins every message in field-name order so the string is stable.
func (ve ValidationErrors) Error() string {
	names := make([]string, 0, len(ve))
	for n := range ve {
		names = append(names, n)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + ": " + ve[n]
	}
	return strings.Join(parts, "; ")
}

// Has reports whether field failed.
func (ve ValidationErrors) Has(field string) bool {
	_, ok := ve[field]
	return ok
}

// Fields returns the failures ordered by s.  Names unknown to s follow in
// lexical order so nothing is dropped.
func (ve ValidationErrors) Fields(s *Schema) []ErrorField {
	out := make([]ErrorField, 0, len(ve))
	seen := make(map[string]struct{}, len(ve))
	if s != nil {
		for _, name := range s.Names() {
			if msg, ok := ve[name]; ok {
				out = append(out, ErrorField{Name: name, Message: msg})
				seen[name] = struct{}{}
			}
		}
	}

	var rest []string
	for name := range ve {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		out = append(out, ErrorField{Name: name, Message: ve[name]})
	}
	return out
}
