package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

type surveyAsker struct {
	out  io.Writer
	opts []survey.AskOpt
}

// NewSurveyAsker returns an Asker backed by survey on the process terminal.
func NewSurveyAsker() Asker {
	return &surveyAsker{out: os.Stdout}
}

// NewSurveyAskerStdio is NewSurveyAsker on explicit streams.
func NewSurveyAskerStdio(stdio terminal.Stdio) Asker {
	return &surveyAsker{out: stdio.Out, opts: []survey.AskOpt{survey.WithStdio(stdio.In, stdio.Out, stdio.Err)}}
}

func (a *surveyAsker) Ask(ctx context.Context, q Question) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	p := &survey.Input{
		Message: q.Label + ":",
		Help:    q.Help,
		Default: q.Default,
	}
	if err := survey.AskOne(p, &out, a.opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (a *surveyAsker) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(a.out, msg)
	return err
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
