// internal/form/renderer.go
//
// Sign-up forms: HTML renderer.
//
// Context
//   Given a FormDef this file writes the field markup: one labelled input per
//   field, in definition order, with HTML5 hints (required, minlength,
//   maxlength) that mirror the server-side rules.  When the page is shown
//   again after a failed submission, the previous input is prefilled and each
//   failing field's message is written into its error span.
//
// Style
//   Output is plain markup with no framework classes.  Each input gets
//   id="fld-{name}" and sits in <div class="form-field">; a failing field
//   also gets the "has-error" class and aria-invalid.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strconv"
)

// RenderOptions bundles optional parameters influencing HTML output.
type RenderOptions struct {
	// Prefill provides initial field values keyed by field name.
	Prefill RawInput
	// Errors are written next to the matching fields.
	Errors ValidationErrors
}

// RenderForm returns the field markup for fd.  The surrounding <form> element
// and submit button belong to the page template.
func RenderForm(fd *FormDef, opts RenderOptions) (template.HTML, error) {
	if fd == nil {
		return "", fmt.Errorf("RenderForm: nil form definition")
	}

	var buf bytes.Buffer
	buf.WriteString(`<div class="signup-form" data-form="` + html.EscapeString(fd.ID) + `">` + "\n")

	for i := range fd.Fields {
		if err := writeField(&buf, &fd.Fields[i], opts); err != nil {
			return "", err
		}
	}

	buf.WriteString(`</div>`)
	return template.HTML(buf.String()), nil
}

// writeField emits one wrapped input.
func writeField(buf *bytes.Buffer, f *FieldDef, opts RenderOptions) error {
	kind, err := ParseKind(f.Type)
	if err != nil {
		return fmt.Errorf("writeField: field %s: %w", f.Name, err)
	}

	name := html.EscapeString(f.Name)
	msg, failed := opts.Errors[f.Name]

	if failed {
		buf.WriteString(`<div class="form-field has-error">` + "\n")
	} else {
		buf.WriteString(`<div class="form-field">` + "\n")
	}

	buf.WriteString(`<label for="fld-` + name + `">` + html.EscapeString(f.Label) + `</label>` + "\n")
	buf.WriteString(`<input id="fld-` + name + `" name="` + name + `" type="` + inputType(kind) + `"`)

	if f.Placeholder != "" {
		buf.WriteString(` placeholder="` + html.EscapeString(f.Placeholder) + `"`)
	}
	if f.Required {
		buf.WriteString(` required`)
	}

	minLen, maxLen := f.MinLength, f.MaxLength
	if f.Length != nil {
		minLen, maxLen = f.Length, f.Length
	}
	if minLen != nil && *minLen > 0 {
		buf.WriteString(` minlength="` + strconv.Itoa(*minLen) + `"`)
	}
	if maxLen != nil && *maxLen > 0 {
		buf.WriteString(` maxlength="` + strconv.Itoa(*maxLen) + `"`)
	}

	if val := opts.Prefill[f.Name]; val != "" {
		buf.WriteString(` value="` + html.EscapeString(val) + `"`)
	}
	if failed {
		buf.WriteString(` aria-invalid="true" aria-describedby="err-` + name + `"`)
	}
	buf.WriteString(`>` + "\n")

	// Error span is always present so client-side scripts can fill it too.
	buf.WriteString(`<span class="error" id="err-` + name + `" aria-live="polite">`)
	if failed {
		buf.WriteString(html.EscapeString(msg))
	}
	buf.WriteString(`</span>` + "\n")

	buf.WriteString(`</div>` + "\n")
	return nil
}

// inputType maps a Kind to the HTML input type.
func inputType(k Kind) string {
	switch k {
	case KindDate:
		return "date"
	case KindEmail:
		return "email"
	default:
		return "text"
	}
}
