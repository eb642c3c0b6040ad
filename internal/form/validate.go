// internal/form/validate.go
//
// Sign-up forms: the Validator.
//
// Context
//   Validate walks every rule of a Schema against one RawInput and returns a
//   Result.  Every field is evaluated, even after earlier fields fail, so the
//   caller can show all messages at once instead of one per round trip.
//   Within one field the first failing check wins.
//
// Workflow
//   •  Missing keys read as "".  Surrounding whitespace is trimmed before any
//      check, and the trimmed value is what lands in the Record.
//   •  Required fields that are empty fail with "this field is required".
//      Empty optional fields are skipped and left out of the Record.
//   •  Non-empty values run exact, min, and max length checks (counted in
//      characters), then the kind check: ISO-8601 for dates, a conservative
//      address check for emails.
//
// Validate keeps no state and does no I/O.  Any number of goroutines may call
// it with the same Schema.
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Default messages.
const (
	MsgRequired     = "this field is required"
	MsgInvalidDate  = "must be a valid date"
	MsgInvalidEmail = "must be a valid email address"
)

// emailCheck is safe for concurrent use once built.
var emailCheck = validator.New()

// Validate evaluates input against every rule in s.
func Validate(s *Schema, input RawInput) Result {
	errs := make(ValidationErrors)
	rec := newRecord(s.Len())

	for _, rule := range s.rules {
		val := strings.TrimSpace(input[rule.Name])

		if val == "" {
			if rule.Required {
				errs[rule.Name] = messageFor(&rule, MsgRequired)
			}
			continue
		}

		typed, msg := checkValue(&rule, val)
		if msg != "" {
			errs[rule.Name] = messageFor(&rule, msg)
			continue
		}
		rec.set(rule.Name, typed)
	}

	if len(errs) > 0 {
		return Result{errs: errs}
	}
	return Result{record: rec}
}

// checkValue runs the length and kind checks on a non-empty value.  It returns
// the typed value, or a default message for the first failure.
func checkValue(r *FieldRule, val string) (any, string) {
	if msg := lengthCheck(r, val); msg != "" {
		return nil, msg
	}

	switch r.Kind {
	case KindDate:
		t, err := time.Parse(DateLayout, val)
		if err != nil {
			return nil, MsgInvalidDate
		}
		return t, ""

	case KindEmail:
		if !validEmail(val) {
			return nil, MsgInvalidEmail
		}
		return val, ""

	default: // KindText, KindCode
		return val, ""
	}
}

// lengthCheck applies exactLength, minLength, and maxLength in that order.
func lengthCheck(r *FieldRule, s string) string {
	n := utf8.RuneCountInString(s)
	if r.ExactLength != nil && n != *r.ExactLength {
		return fmt.Sprintf("must be exactly %d characters", *r.ExactLength)
	}
	if r.MinLength != nil && n < *r.MinLength {
		return fmt.Sprintf("must be at least %d characters", *r.MinLength)
	}
	if r.MaxLength != nil && n > *r.MaxLength {
		return fmt.Sprintf("must be at most %d characters", *r.MaxLength)
	}
	return ""
}

// validEmail accepts local@domain with a dot inside the domain and no
// whitespace, on top of validator's RFC 5322 syntax check.
func validEmail(s string) bool {
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	dot := strings.IndexByte(domain, '.')
	if dot <= 0 || strings.HasSuffix(domain, ".") {
		return false
	}
	return emailCheck.Var(s, "email") == nil
}

func messageFor(r *FieldRule, def string) string {
	if r.Message != "" {
		return r.Message
	}
	return def
}
