// internal/form/definition.go
//
// Sign-up forms: YAML definition loader and registry.
//
// Context
//   A form is declared in YAML: an identifier, a display title, and an ordered
//   list of fields.  Each field carries its presentation (label, placeholder)
//   next to its rules (type, required, length bounds) so the renderer and the
//   Validator read from one source.  At start-up the service parses the
//   definition, compiles it into a Schema, and registers both under the form
//   ID.  Handlers fetch them by ID afterwards.
//
// Workflow
//   •  ParseFormDef decodes YAML bytes and checks structure.
//   •  LoadFormDef does the same for a file path.
//   •  FormDef.Schema compiles the fields into an immutable Schema.
//   •  Register compiles and stores a definition; Lookup returns it.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// FormDef represents one form definition loaded from YAML.
type FormDef struct {
	ID     string     `yaml:"id"`     // Unique identifier, e.g. "signup".
	Title  string     `yaml:"title"`  // Page heading, optional.
	Fields []FieldDef `yaml:"fields"` // Fields in display order.
}

// FieldDef describes a single input.  Length bounds are pointers so an
// explicit 0 can be told apart from "unset".
type FieldDef struct {
	Name        string `yaml:"name"`        // Submission key.  Required.
	Label       string `yaml:"label"`       // Defaults to Name.
	Type        string `yaml:"type"`        // text, date, code, email.
	Placeholder string `yaml:"placeholder"` // Optional.
	Required    bool   `yaml:"required"`
	MinLength   *int   `yaml:"minlength"`
	MaxLength   *int   `yaml:"maxlength"`
	Length      *int   `yaml:"length"`      // Exact length; excludes min/max.
	ErrorMsg    string `yaml:"error"`       // Replaces default messages.
}

// Rule converts the definition into a FieldRule.
func (f FieldDef) Rule() (FieldRule, error) {
	kind, err := ParseKind(f.Type)
	if err != nil {
		return FieldRule{}, &ConfigurationError{Field: f.Name, Reason: err.Error()}
	}
	return FieldRule{
		Name:        f.Name,
		Kind:        kind,
		Required:    f.Required,
		MinLength:   cloneInt(f.MinLength),
		MaxLength:   cloneInt(f.MaxLength),
		ExactLength: cloneInt(f.Length),
		Message:     f.ErrorMsg,
	}, nil
}

// Schema compiles the field list.  Errors are *ConfigurationError.
func (fd *FormDef) Schema() (*Schema, error) {
	rules := make([]FieldRule, 0, len(fd.Fields))
	for _, f := range fd.Fields {
		r, err := f.Rule()
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return NewSchema(rules...)
}

// Field returns the definition of name.
func (fd *FormDef) Field(name string) (FieldDef, bool) {
	for _, f := range fd.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

// ParseFormDef decodes raw YAML.  origin names the source in error messages.
// Unknown keys are rejected so typos like "minLenght" fail loudly.
func ParseFormDef(raw []byte, origin string) (*FormDef, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var fd FormDef
	if err := dec.Decode(&fd); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", origin, err)
	}
	if err := checkFormDef(&fd, origin); err != nil {
		return nil, err
	}
	return &fd, nil
}

// LoadFormDef reads and parses one YAML file.
func LoadFormDef(path string) (*FormDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read form file %s: %w", path, err)
	}
	return ParseFormDef(raw, path)
}

// checkFormDef enforces structural rules the YAML tags cannot express and
// fills in defaults.  Rule contradictions are left to Schema.
func checkFormDef(fd *FormDef, origin string) error {
	fd.ID = strings.TrimSpace(fd.ID)
	if fd.ID == "" {
		return fmt.Errorf("form definition %s: missing required 'id'", origin)
	}
	if len(fd.Fields) == 0 {
		return fmt.Errorf("form definition %s: no fields", origin)
	}
	for i := range fd.Fields {
		f := &fd.Fields[i]
		f.Name = strings.TrimSpace(f.Name)
		if f.Name == "" {
			return fmt.Errorf("form definition %s: field %d missing 'name'", origin, i+1)
		}
		if f.Label == "" {
			f.Label = f.Name
		}
		if f.Type == "" {
			f.Type = KindText.String()
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

// Form pairs a definition with its compiled Schema.
type Form struct {
	Def    *FormDef
	Schema *Schema
}

// Validate runs the Validator with the form's Schema.
func (f *Form) Validate(in RawInput) Result { return Validate(f.Schema, in) }

// ErrUnknownForm is returned by Get when no form is registered under an ID.
var ErrUnknownForm = errors.New("unknown form")

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Form)
)

// Compile builds a Form without registering it.
func Compile(fd *FormDef) (*Form, error) {
	s, err := fd.Schema()
	if err != nil {
		return nil, fmt.Errorf("form %s: %w", fd.ID, err)
	}
	return &Form{Def: fd, Schema: s}, nil
}

// Register compiles fd and stores it under fd.ID, replacing any earlier
// definition with the same ID.
func Register(fd *FormDef) (*Form, error) {
	f, err := Compile(fd)
	if err != nil {
		return nil, err
	}
	registryMu.Lock()
	registry[fd.ID] = f
	registryMu.Unlock()
	return f, nil
}

// Lookup returns a registered form by ID.
func Lookup(id string) (*Form, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[id]
	return f, ok
}

// Get is Lookup with an error for absent IDs.
func Get(id string) (*Form, error) {
	if f, ok := Lookup(id); ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownForm, id)
}
