// internal/form/schema.go
//
// Sign-up forms: field rules and the immutable Schema.
//
// Context
//   A Schema is the ordered list of rules every submission must satisfy.  It
//   is built once (from Go code or from a YAML FormDef), checked for
//   contradictions at construction, and shared read-only by every caller of
//   Validate afterwards.  A bad rule combination is a programmer mistake and
//   surfaces as *ConfigurationError before any validation can run.
//
// Workflow
//   •  NewSchema takes FieldRules directly.
//   •  NewBuilder offers a chained form (Text, Date, Code, Email) that
//      collects rules and returns the same (*Schema, error) from Build.
//   •  MustSchema wraps either for package-level variables.
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"
	"strings"
)

// -----------------------------------------------------------------------------
// Kind
// -----------------------------------------------------------------------------

// Kind is the primitive type of a field.  It decides which format check runs
// after the length checks and what typed value lands in the Record.
type Kind int

const (
	KindText  Kind = iota + 1 // free text
	KindDate                  // ISO-8601 calendar date, typed as time.Time
	KindCode                  // fixed-length code (SSN, zip code)
	KindEmail                 // email address
)

var kindNames = map[Kind]string{
	KindText:  "text",
	KindDate:  "date",
	KindCode:  "code",
	KindEmail: "email",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps the YAML spelling of a kind to its value.  "fixed" is
// accepted as an alias of "code".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return KindText, nil
	case "date":
		return KindDate, nil
	case "code", "fixed":
		return KindCode, nil
	case "email":
		return KindEmail, nil
	}
	return 0, fmt.Errorf("unknown field type %q", s)
}

func (k Kind) valid() bool {
	_, ok := kindNames[k]
	return ok
}

// -----------------------------------------------------------------------------
// FieldRule
// -----------------------------------------------------------------------------

// FieldRule holds one field's constraints.  Length bounds are optional; nil
// means unset.  ExactLength is a separate mode and excludes Min/MaxLength.
type FieldRule struct {
	Name        string
	Kind        Kind
	Required    bool
	MinLength   *int
	MaxLength   *int
	ExactLength *int

	// Message replaces every default message for this field when set.
	Message string
}

// check enforces the per-rule invariants.
func (r FieldRule) check() error {
	if strings.TrimSpace(r.Name) == "" {
		return &ConfigurationError{Reason: "field name is empty"}
	}
	if !r.Kind.valid() {
		return &ConfigurationError{Field: r.Name, Reason: fmt.Sprintf("unknown kind %s", r.Kind)}
	}

	bounds := []struct {
		label string
		n     *int
	}{{"minLength", r.MinLength}, {"maxLength", r.MaxLength}, {"exactLength", r.ExactLength}}
	for _, b := range bounds {
		if b.n != nil && *b.n < 0 {
			return &ConfigurationError{Field: r.Name, Reason: b.label + " cannot be negative"}
		}
	}

	if r.ExactLength != nil {
		if r.MinLength != nil || r.MaxLength != nil {
			return &ConfigurationError{Field: r.Name, Reason: "exactLength cannot be combined with minLength or maxLength"}
		}
		if *r.ExactLength == 0 {
			return &ConfigurationError{Field: r.Name, Reason: "exactLength must be positive"}
		}
	}
	if r.MinLength != nil && r.MaxLength != nil && *r.MinLength > *r.MaxLength {
		return &ConfigurationError{
			Field:  r.Name,
			Reason: fmt.Sprintf("minLength %d greater than maxLength %d", *r.MinLength, *r.MaxLength),
		}
	}
	if r.Kind == KindCode && r.ExactLength == nil {
		return &ConfigurationError{Field: r.Name, Reason: "code fields require exactLength"}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Schema
// -----------------------------------------------------------------------------

// Schema is an ordered, immutable set of FieldRules with unique names.  The
// zero value is an empty schema; use NewSchema or Builder to populate one.
type Schema struct {
	rules []FieldRule
	index map[string]int
}

// NewSchema validates rules and returns the Schema.  The error, when non-nil,
// is always a *ConfigurationError.
func NewSchema(rules ...FieldRule) (*Schema, error) {
	s := &Schema{
		rules: make([]FieldRule, 0, len(rules)),
		index: make(map[string]int, len(rules)),
	}
	for _, r := range rules {
		if err := r.check(); err != nil {
			return nil, err
		}
		if _, dup := s.index[r.Name]; dup {
			return nil, &ConfigurationError{Field: r.Name, Reason: "duplicate field name"}
		}
		s.index[r.Name] = len(s.rules)
		s.rules = append(s.rules, cloneRule(r))
	}
	return s, nil
}

// MustSchema panics when err is non-nil.  Intended for package-level schemas
// where a configuration error is a bug.
func MustSchema(s *Schema, err error) *Schema {
	if err != nil {
		panic("form: " + err.Error())
	}
	return s
}

// Rules returns a copy of the rules in declared order.
func (s *Schema) Rules() []FieldRule {
	out := make([]FieldRule, len(s.rules))
	for i, r := range s.rules {
		out[i] = cloneRule(r)
	}
	return out
}

// Rule returns the rule for name.
func (s *Schema) Rule(name string) (FieldRule, bool) {
	i, ok := s.index[name]
	if !ok {
		return FieldRule{}, false
	}
	return cloneRule(s.rules[i]), true
}

// Names returns the field names in declared order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.rules))
	for i, r := range s.rules {
		out[i] = r.Name
	}
	return out
}

// Len reports the number of fields.
func (s *Schema) Len() int { return len(s.rules) }

// cloneRule detaches the length pointers so callers cannot mutate a Schema
// through a returned rule.
func cloneRule(r FieldRule) FieldRule {
	r.MinLength = cloneInt(r.MinLength)
	r.MaxLength = cloneInt(r.MaxLength)
	r.ExactLength = cloneInt(r.ExactLength)
	return r
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// -----------------------------------------------------------------------------
// Builder
// -----------------------------------------------------------------------------

// Option configures a FieldRule inside Builder.
type Option func(*FieldRule)

func Required() Option { return func(r *FieldRule) { r.Required = true } }

func MinLength(n int) Option { return func(r *FieldRule) { r.MinLength = &n } }

func MaxLength(n int) Option { return func(r *FieldRule) { r.MaxLength = &n } }

func ExactLength(n int) Option { return func(r *FieldRule) { r.ExactLength = &n } }

// Message overrides the default error messages of the field.
func Message(msg string) Option { return func(r *FieldRule) { r.Message = msg } }

// Builder collects rules in call order.  Nothing is checked until Build.
//
//	s, err := form.NewBuilder().
//	    Text("firstName", form.Required(), form.MinLength(2), form.MaxLength(25)).
//	    Email("email", form.Required()).
//	    Build()
type Builder struct {
	rules []FieldRule
}

func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) Text(name string, opts ...Option) *Builder  { return b.Field(name, KindText, opts...) }
func (b *Builder) Date(name string, opts ...Option) *Builder  { return b.Field(name, KindDate, opts...) }
func (b *Builder) Code(name string, opts ...Option) *Builder  { return b.Field(name, KindCode, opts...) }
func (b *Builder) Email(name string, opts ...Option) *Builder { return b.Field(name, KindEmail, opts...) }

// Field appends a rule of any kind.
func (b *Builder) Field(name string, kind Kind, opts ...Option) *Builder {
	r := FieldRule{Name: name, Kind: kind}
	for _, o := range opts {
		o(&r)
	}
	b.rules = append(b.rules, r)
	return b
}

// Build returns the Schema or the first *ConfigurationError.
func (b *Builder) Build() (*Schema, error) { return NewSchema(b.rules...) }
