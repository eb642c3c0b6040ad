// Package prompt fills a form interactively.  Each round asks for the fields
// that are still failing, validates the whole input again, and prints the
// messages for whatever is still wrong.  Earlier answers are offered as
// defaults so a user fixes a typo instead of retyping.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yanizio/signup/internal/form"
	"github.com/yanizio/signup/internal/logger"
)

var (
	// ErrTooManyAttempts is returned when the input is still invalid after
	// the last allowed round.  The error also wraps the final
	// form.ValidationErrors.
	ErrTooManyAttempts = errors.New("prompt: too many attempts")
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
)

// DefaultRounds is used when Run gets maxRounds <= 0.
const DefaultRounds = 5

// Question is one field prompt.
type Question struct {
	Name    string
	Label   string
	Help    string
	Default string
}

// Asker abstracts the terminal so Run can be tested without one.
type Asker interface {
	Ask(ctx context.Context, q Question) (string, error)
	Info(ctx context.Context, msg string) error
}

// Run asks for every field of f, then re-asks failing fields until the input
// validates or maxRounds rounds have run.
func Run(ctx context.Context, f *form.Form, asker Asker, maxRounds int) (*form.Record, error) {
	if maxRounds <= 0 {
		maxRounds = DefaultRounds
	}
	log := logger.FromContext(ctx)

	in := make(form.RawInput, f.Schema.Len())
	pending := f.Schema.Names()

	var last form.ValidationErrors
	for round := 1; round <= maxRounds; round++ {
		for _, name := range pending {
			ans, err := asker.Ask(ctx, question(f, name, in[name]))
			if err != nil {
				return nil, err
			}
			in[name] = ans
		}

		res := f.Validate(in)
		if res.Valid() {
			log.Debugw("prompt accepted", "form", f.Def.ID, "rounds", round)
			return res.Record(), nil
		}

		last = res.Errors()
		failed := last.Fields(f.Schema)
		pending = pending[:0]
		for _, ef := range failed {
			pending = append(pending, ef.Name)
			if err := asker.Info(ctx, fmt.Sprintf("✗ %s: %s", label(f, ef.Name), ef.Message)); err != nil {
				return nil, err
			}
		}
		log.Debugw("prompt rejected", "form", f.Def.ID, "round", round, "fields", pending)
	}
	return nil, fmt.Errorf("%w after %d rounds: %w", ErrTooManyAttempts, maxRounds, last)
}

func question(f *form.Form, name, prev string) Question {
	q := Question{Name: name, Label: label(f, name), Default: prev}
	if rule, ok := f.Schema.Rule(name); ok {
		q.Help = describe(rule)
	}
	return q
}

func label(f *form.Form, name string) string {
	if fd, ok := f.Def.Field(name); ok && fd.Label != "" {
		return fd.Label
	}
	return name
}

// describe summarises a rule for the help line, e.g.
// "required, exactly 5 characters".
func describe(r form.FieldRule) string {
	var parts []string
	if r.Required {
		parts = append(parts, "required")
	}
	switch {
	case r.ExactLength != nil:
		parts = append(parts, fmt.Sprintf("exactly %d characters", *r.ExactLength))
	case r.MinLength != nil && r.MaxLength != nil:
		parts = append(parts, fmt.Sprintf("%d to %d characters", *r.MinLength, *r.MaxLength))
	case r.MinLength != nil:
		parts = append(parts, fmt.Sprintf("at least %d characters", *r.MinLength))
	case r.MaxLength != nil:
		parts = append(parts, fmt.Sprintf("at most %d characters", *r.MaxLength))
	}
	switch r.Kind {
	case form.KindDate:
		parts = append(parts, "YYYY-MM-DD")
	case form.KindEmail:
		parts = append(parts, "email address")
	}
	return strings.Join(parts, ", ")
}
