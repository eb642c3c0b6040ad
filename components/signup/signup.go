// components/signup/signup.go
//
// Sign-up component: the form page and its JSON API.
//
// Context
//   The built-in form definition (forms/signup.yaml) is embedded and compiled
//   at package init, so a broken rule set fails the binary before it can
//   serve.  Operators may point form.definition at another YAML file; Init
//   compiles that one instead and registers it under its own ID.  Every
//   request resolves the served form by ID through the form registry.  Edits
//   to the file are re-registered on the next request; if an edit breaks the
//   definition, the registry still holds the last good form, which keeps
//   serving while a warning is logged.
//
// Routes
//   •  GET  /signup      – HTML page with the empty form.
//   •  POST /signup      – validate a urlencoded post; re-render with
//                          messages (422) or show the JSON string (200).
//   •  POST /api/signup  – validate a JSON object of strings; 200 with the
//                          record, 422 with {"errors": {...}}, 400 when the
//                          body is not a JSON object of strings.
//
//------------------------------------------------------------------------------

package signup

import (
	"embed"
	"fmt"
	"html/template"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/signup/internal/component"
	"github.com/yanizio/signup/internal/config"
	"github.com/yanizio/signup/internal/form"
)

// FormID is the ID of the built-in definition.
const FormID = "signup"

//go:embed forms/signup.yaml
var defaultDef []byte

//go:embed templates/page.html
var templatesFS embed.FS

var (
	pageTpl = template.Must(template.ParseFS(templatesFS, "templates/page.html"))

	builtin = mustBuiltin()

	defs form.FileCache
)

func mustBuiltin() *form.Form {
	fd, err := form.ParseFormDef(defaultDef, "forms/signup.yaml")
	if err != nil {
		panic("signup: " + err.Error())
	}
	f, err := form.Register(fd)
	if err != nil {
		panic("signup: " + err.Error())
	}
	return f
}

// Default returns the compiled built-in sign-up form.
func Default() *form.Form { return builtin }

// Schema returns the built-in sign-up Schema.
func Schema() *form.Schema { return builtin.Schema }

// LoadForm returns the built-in form when path is empty, otherwise the
// definition at path, compiled and registered.
func LoadForm(path string) (*form.Form, error) {
	if path == "" {
		return builtin, nil
	}
	return defs.Get(path)
}

// compile-time assertions
var (
	_ component.Component   = (*Component)(nil)
	_ component.Initializer = (*Component)(nil)
)

// Component serves one registered form.  The zero value serves the built-in
// form.
type Component struct {
	id   atomic.Value // string, registry ID of the served form
	path string       // definition file, empty for the built-in form
}

// New returns a Component serving the registered form with f's ID.
func New(f *form.Form) *Component {
	c := &Component{}
	c.id.Store(f.Def.ID)
	return c
}

// Name returns the canonical component key.
func (c *Component) Name() string { return "signup" }

// Init swaps in the operator's definition when one is configured.
func (c *Component) Init(cfg *config.Config) error {
	f, err := LoadForm(cfg.Resolve(cfg.Form.Definition))
	if err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	c.id.Store(f.Def.ID)
	c.path = cfg.Resolve(cfg.Form.Definition)
	return nil
}

// Routes builds and returns the router mounted at "/".
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/signup", c.handlePage)
	r.Post("/signup", c.handleSubmit)
	r.Post("/api/signup", c.handleAPI)
	return r
}

// active refreshes the definition file, if any, and returns the form
// registered under the component's ID.
func (c *Component) active() *form.Form {
	if c.path != "" {
		if f, err := defs.Get(c.path); err == nil {
			c.id.Store(f.Def.ID)
		} else {
			zap.S().Warnw("form definition reload failed, serving last good form",
				"file", c.path, "err", err)
		}
	}

	id, _ := c.id.Load().(string)
	if id == "" {
		return builtin
	}
	f, err := form.Get(id)
	if err != nil {
		zap.S().Errorw("served form missing from registry", "form", id, "err", err)
		return builtin
	}
	return f
}

// Register component at program start.
func init() { component.Register(&Component{}) }
