package signup

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/yanizio/signup/internal/form"
	"github.com/yanizio/signup/internal/logger"
	"github.com/yanizio/signup/internal/metrics"
	"github.com/yanizio/signup/internal/middleware"
)

// maxBody caps POST bodies.  The whole form is well under a kilobyte.
const maxBody = 64 << 10

type pageData struct {
	Title  string
	Action string
	Fields template.HTML
	JSON   string
}

func (c *Component) handlePage(w http.ResponseWriter, r *http.Request) {
	c.renderPage(w, r, c.active(), http.StatusOK, form.RenderOptions{}, "")
}

func (c *Component) handleSubmit(w http.ResponseWriter, r *http.Request) {
	f := c.active()
	log := logger.FromContext(r.Context()).With(clientFields(r)...)
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	start := time.Now()
	rec, err := form.HandleSubmit(f, r)
	var se *form.SubmitError
	switch {
	case err == nil:
	case errors.As(err, &se):
		failed := failedNames(f, se.Errors)
		metrics.ObserveValidation(f.Def.ID, start, failed)
		log.Infow("signup rejected", "form", f.Def.ID, "fields", failed)
		c.renderPage(w, r, f, http.StatusUnprocessableEntity,
			form.RenderOptions{Prefill: se.Input, Errors: se.Errors}, "")
		return
	default:
		metrics.ObserveMalformed(f.Def.ID)
		log.Warnw("signup body unreadable", "form", f.Def.ID, "err", err)
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	metrics.ObserveValidation(f.Def.ID, start, nil)
	out, err := json.Marshal(rec)
	if err != nil {
		log.Errorw("signup encode failed", "form", f.Def.ID, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	log.Infow("signup accepted", "form", f.Def.ID)

	// Keep the entered values on screen next to the JSON.
	c.renderPage(w, r, f, http.StatusOK, form.RenderOptions{Prefill: recordInput(rec)}, string(out))
}

func (c *Component) renderPage(w http.ResponseWriter, r *http.Request, f *form.Form, status int, opts form.RenderOptions, js string) {
	fields, err := form.RenderForm(f.Def, opts)
	if err != nil {
		logger.FromContext(r.Context()).Errorw("render form", "form", f.Def.ID, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	title := f.Def.Title
	if title == "" {
		title = f.Def.ID
	}

	var buf bytes.Buffer
	if err := pageTpl.Execute(&buf, pageData{
		Title:  title,
		Action: r.URL.Path,
		Fields: fields,
		JSON:   js,
	}); err != nil {
		logger.FromContext(r.Context()).Errorw("render page", "form", f.Def.ID, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

/*──────────────────────────────── JSON API ─────────────────────────────────*/

type apiErrors struct {
	Errors map[string]string `json:"errors"`
}

func (c *Component) handleAPI(w http.ResponseWriter, r *http.Request) {
	f := c.active()
	log := logger.FromContext(r.Context()).With(clientFields(r)...)

	in, err := form.DecodeRawInput(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		metrics.ObserveMalformed(f.Def.ID)
		log.Infow("signup api malformed", "form", f.Def.ID, "err", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "body must be a JSON object of string values",
		})
		return
	}

	start := time.Now()
	res := f.Validate(in)
	if !res.Valid() {
		failed := failedNames(f, res.Errors())
		metrics.ObserveValidation(f.Def.ID, start, failed)
		log.Infow("signup api rejected", "form", f.Def.ID, "fields", failed)
		writeJSON(w, http.StatusUnprocessableEntity, apiErrors{Errors: res.Errors()})
		return
	}

	metrics.ObserveValidation(f.Def.ID, start, nil)
	log.Infow("signup api accepted", "form", f.Def.ID)
	writeJSON(w, http.StatusOK, res.Record())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// failedNames lists failing fields in schema order.
func failedNames(f *form.Form, errs form.ValidationErrors) []string {
	fields := errs.Fields(f.Schema)
	out := make([]string, len(fields))
	for i, ef := range fields {
		out[i] = ef.Name
	}
	return out
}

// clientFields returns the client's device class and bot flag as log
// fields, or nil when the request log middleware has not run.
func clientFields(r *http.Request) []any {
	cl, ok := middleware.ClientFromContext(r.Context())
	if !ok {
		return nil
	}
	return []any{"device", cl.Device, "bot", cl.IsBot}
}

func recordInput(rec *form.Record) form.RawInput {
	return form.RawInput(rec.Map())
}
