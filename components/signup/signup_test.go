package signup

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yanizio/signup/internal/config"
	"github.com/yanizio/signup/internal/form"
	"github.com/yanizio/signup/internal/middleware"
)

func validValues() url.Values {
	return url.Values{
		"firstName": {"Ann"},
		"lastName":  {"Lee"},
		"birthDate": {"1990-04-01"},
		"ssn":       {"123456789"},
		"address":   {"1 Main St"},
		"city":      {"Springfield"},
		"zipCode":   {"12345"},
		"email":     {"ann@example.com"},
	}
}

func TestBuiltinSchema(t *testing.T) {
	s := Schema()
	assert.Equal(t, []string{
		"firstName", "lastName", "birthDate", "ssn",
		"address", "city", "zipCode", "email",
	}, s.Names())

	ssn, ok := s.Rule("ssn")
	require.True(t, ok)
	assert.Equal(t, form.KindCode, ssn.Kind)
	require.NotNil(t, ssn.ExactLength)
	assert.Equal(t, 9, *ssn.ExactLength)

	f, ok := form.Lookup(FormID)
	require.True(t, ok)
	assert.Same(t, Default(), f)
}

func TestGetPage(t *testing.T) {
	srv := httptest.NewServer(New(Default()).Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/signup")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readAll(t, resp)
	assert.Contains(t, body, "<title>Sign Up Form</title>")
	assert.Contains(t, body, `name="zipCode"`)
	assert.Contains(t, body, "Sign Up</button>")
	assert.NotContains(t, body, "Below is the JSON")
}

func TestPostForm(t *testing.T) {
	h := New(Default()).Routes()

	t.Run("accepted", func(t *testing.T) {
		rr := postForm(h, validValues())
		assert.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, "Below is the JSON that would get passed to the API")
		// html/template escapes the quotes inside <code>.
		assert.Contains(t, body, "&#34;zipCode&#34;:&#34;12345&#34;")
	})

	t.Run("rejected", func(t *testing.T) {
		v := validValues()
		v.Set("zipCode", "123")
		v.Set("email", "nope")
		rr := postForm(h, v)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, "must be exactly 5 characters")
		assert.Contains(t, body, form.MsgInvalidEmail)
		assert.Contains(t, body, `value="Springfield"`)
		assert.NotContains(t, body, "Below is the JSON")
	})
}

func TestPostAPI(t *testing.T) {
	h := New(Default()).Routes()

	t.Run("accepted", func(t *testing.T) {
		in := map[string]string{}
		for k, v := range validValues() {
			in[k] = "  " + v[0] + " "
		}
		rr := postJSON(h, mustJSON(t, in))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

		assert.JSONEq(t, `{
			"firstName":"Ann","lastName":"Lee","birthDate":"1990-04-01",
			"ssn":"123456789","address":"1 Main St","city":"Springfield",
			"zipCode":"12345","email":"ann@example.com"}`, rr.Body.String())
		assert.True(t, strings.HasPrefix(rr.Body.String(), `{"firstName":`), "keys follow schema order")
	})

	t.Run("rejected", func(t *testing.T) {
		rr := postJSON(h, `{"firstName":"A"}`)
		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

		var out struct {
			Errors map[string]string `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
		assert.Len(t, out.Errors, 8)
		assert.Equal(t, "must be at least 2 characters", out.Errors["firstName"])
		assert.Equal(t, form.MsgRequired, out.Errors["email"])
	})

	for name, body := range map[string]string{
		"not json":   `firstName=Ann`,
		"array":      `["Ann"]`,
		"non-string": `{"ssn":123456789}`,
		"null":       `null`,
		"empty body": ``,
		"trailing":   `{"email":"a@b.com"} junk`,
	} {
		t.Run("malformed/"+name, func(t *testing.T) {
			rr := postJSON(h, body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestInitLoadsConfiguredDefinition(t *testing.T) {
	root := t.TempDir()
	def := `
id: signup-short
title: Short Sign Up
fields:
  - name: email
    type: email
    required: true
`
	require.NoError(t, os.MkdirAll(filepath.Join(root, "forms"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "forms", "short.yaml"), []byte(def), 0o644))

	cfg := config.Default(root)
	cfg.Form.Definition = "forms/short.yaml"

	c := &Component{}
	require.NoError(t, c.Init(cfg))
	assert.Equal(t, "signup-short", c.active().Def.ID)

	rr := postJSON(c.Routes(), `{"email":"a@b.co"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"email":"a@b.co"}`, rr.Body.String())
}

func TestConfiguredDefinitionReloads(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "live.yaml")
	write := func(title string, mod time.Time) {
		def := "id: signup-live\ntitle: " + title + "\nfields:\n  - name: city\n    required: true\n"
		require.NoError(t, os.WriteFile(p, []byte(def), 0o644))
		require.NoError(t, os.Chtimes(p, mod, mod))
	}
	write("Before", time.Now().Add(-time.Hour))

	cfg := config.Default(root)
	cfg.Form.Definition = "live.yaml"
	c := &Component{}
	require.NoError(t, c.Init(cfg))
	h := c.Routes()

	get := func() string {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/signup", nil))
		return rr.Body.String()
	}
	assert.Contains(t, get(), "<title>Before</title>")

	write("After", time.Now())
	assert.Contains(t, get(), "<title>After</title>")

	// A broken edit keeps the last good form.
	require.NoError(t, os.WriteFile(p, []byte("id: signup-live\nfields: []\n"), 0o644))
	assert.Contains(t, get(), "<title>After</title>")
}

func TestServedFormResolvesThroughRegistry(t *testing.T) {
	root := t.TempDir()
	def := "id: signup-reg\ntitle: From File\nfields:\n  - name: city\n    required: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "reg.yaml"), []byte(def), 0o644))

	cfg := config.Default(root)
	cfg.Form.Definition = "reg.yaml"
	c := &Component{}
	require.NoError(t, c.Init(cfg))

	reg, err := form.Get("signup-reg")
	require.NoError(t, err)
	assert.Same(t, reg, c.active())

	// Replacing the registry entry changes what the component serves.
	fd, err := form.ParseFormDef([]byte("id: signup-reg\ntitle: From Registry\nfields:\n  - name: email\n    type: email\n"), "test")
	require.NoError(t, err)
	swapped, err := form.Register(fd)
	require.NoError(t, err)
	assert.Same(t, swapped, c.active())

	rr := postJSON(c.Routes(), `{"email":"a@b.co"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"email":"a@b.co"}`, rr.Body.String())
}

func TestHandlersLogClient(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := chi.NewRouter()
	r.Use(middleware.RequestLog(zap.New(core).Sugar()))
	r.Mount("/", New(Default()).Routes())

	req := httptest.NewRequest(http.MethodPost, "/api/signup", strings.NewReader(`{}`))
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	entries := logs.FilterMessage("signup api rejected").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Contains(t, fields, "device")
	assert.Equal(t, true, fields["bot"])

	rr = postForm(r, validValues())
	require.Equal(t, http.StatusOK, rr.Code)
	accepted := logs.FilterMessage("signup accepted").All()
	require.Len(t, accepted, 1)
	assert.Contains(t, accepted[0].ContextMap(), "bot")
}

func TestInitDefaultsToBuiltin(t *testing.T) {
	c := &Component{}
	require.NoError(t, c.Init(config.Default(t.TempDir())))
	assert.Same(t, Default(), c.active())
}

func TestInitRejectsBrokenDefinition(t *testing.T) {
	root := t.TempDir()
	bad := `
id: broken
fields:
  - name: zip
    type: code
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.yaml"), []byte(bad), 0o644))

	cfg := config.Default(root)
	cfg.Form.Definition = "broken.yaml"

	err := (&Component{}).Init(cfg)
	require.Error(t, err)
	assert.True(t, form.IsConfigurationError(err))
}

/*──────────────────────────────── helpers ──────────────────────────────────*/

func postForm(h http.Handler, v url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(v.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func postJSON(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	var sb strings.Builder
	_, err := io.Copy(&sb, resp.Body)
	require.NoError(t, err)
	return sb.String()
}
