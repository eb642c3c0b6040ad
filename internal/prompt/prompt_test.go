package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yanizio/signup/internal/form"
)

const def = `
id: prompt-test
fields:
  - name: name
    label: Name
    required: true
    minlength: 2
  - name: zip
    label: Zip
    type: code
    required: true
    length: 5
  - name: born
    type: date
    placeholder: YYYY-MM-DD
`

func testForm(t *testing.T) *form.Form {
	t.Helper()
	fd, err := form.ParseFormDef([]byte(def), "test")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	f, err := form.Compile(fd)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return f
}

// scriptAsker answers from per-field queues and records what it was asked.
type scriptAsker struct {
	answers map[string][]string
	asked   []Question
	infos   []string
	failOn  string
}

func (s *scriptAsker) Ask(_ context.Context, q Question) (string, error) {
	s.asked = append(s.asked, q)
	if q.Name == s.failOn {
		return "", ErrAborted
	}
	queue := s.answers[q.Name]
	if len(queue) == 0 {
		return q.Default, nil
	}
	s.answers[q.Name] = queue[1:]
	return queue[0], nil
}

func (s *scriptAsker) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func askedNames(qs []Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Name
	}
	return out
}

func TestRunFirstRoundValid(t *testing.T) {
	a := &scriptAsker{answers: map[string][]string{
		"name": {"Ann"},
		"zip":  {"12345"},
		"born": {""},
	}}

	rec, err := Run(context.Background(), testForm(t), a, 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"name": "Ann", "zip": "12345"}, rec.Map()); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
	if len(a.infos) != 0 {
		t.Errorf("unexpected messages: %v", a.infos)
	}
}

func TestRunReasksOnlyFailingFields(t *testing.T) {
	a := &scriptAsker{answers: map[string][]string{
		"name": {"Ann"},
		"zip":  {"123", "12345"},
		"born": {"1990-13-01", "1990-12-01"},
	}}

	rec, err := Run(context.Background(), testForm(t), a, 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"name", "zip", "born", "zip", "born"}
	if diff := cmp.Diff(want, askedNames(a.asked)); diff != "" {
		t.Errorf("question order (-want +got):\n%s", diff)
	}
	// Second-round questions carry the previous answer.
	if got := a.asked[3].Default; got != "123" {
		t.Errorf("zip default = %q, want 123", got)
	}
	if len(a.infos) != 2 {
		t.Errorf("want 2 messages, got %v", a.infos)
	}
	if got := rec.String("born"); got != "1990-12-01" {
		t.Errorf("born = %q", got)
	}
}

func TestRunTooManyAttempts(t *testing.T) {
	a := &scriptAsker{answers: map[string][]string{
		"name": {"A", "B"},
		"zip":  {"12345"},
	}}

	_, err := Run(context.Background(), testForm(t), a, 2)
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("want ErrTooManyAttempts, got %v", err)
	}
	var ve form.ValidationErrors
	if !errors.As(err, &ve) || !ve.Has("name") || len(ve) != 1 {
		t.Fatalf("want wrapped ValidationErrors for name, got %#v", ve)
	}
	if diff := cmp.Diff([]string{"name", "zip", "born", "name"}, askedNames(a.asked)); diff != "" {
		t.Errorf("question order (-want +got):\n%s", diff)
	}
}

func TestRunAbort(t *testing.T) {
	a := &scriptAsker{failOn: "zip"}
	_, err := Run(context.Background(), testForm(t), a, 3)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("want ErrAborted, got %v", err)
	}
}

func TestQuestionHelp(t *testing.T) {
	f := testForm(t)

	cases := map[string]string{
		"name": "required, at least 2 characters",
		"zip":  "required, exactly 5 characters",
		"born": "YYYY-MM-DD",
	}
	for name, want := range cases {
		if got := question(f, name, "").Help; got != want {
			t.Errorf("%s help = %q, want %q", name, got, want)
		}
	}
	if got := question(f, "zip", "123").Default; got != "123" {
		t.Errorf("default = %q, want 123", got)
	}
}
