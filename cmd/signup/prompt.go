package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"github.com/yanizio/signup/internal/prompt"
)

// newAsker is swapped in tests.
var newAsker = askerFor

// askerFor drives survey on the command's streams when they are terminals or
// files, and on the process terminal otherwise.
func askerFor(cmd *cobra.Command) prompt.Asker {
	in, inOK := cmd.InOrStdin().(terminal.FileReader)
	out, outOK := cmd.OutOrStdout().(terminal.FileWriter)
	if !inOK || !outOK {
		return prompt.NewSurveyAsker()
	}
	return prompt.NewSurveyAskerStdio(terminal.Stdio{In: in, Out: out, Err: cmd.ErrOrStderr()})
}

func newPromptCmd(opts *rootOpts) *cobra.Command {
	var rounds int

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Fill in the form interactively",
		Long:  `Asks for every field, then re-asks only the fields that failed until the input is valid.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			f, err := loadForm(opts, cfg)
			if err != nil {
				return err
			}
			if rounds <= 0 {
				rounds = cfg.Form.MaxPromptRounds
			}

			rec, err := prompt.Run(cmd.Context(), f, newAsker(cmd), rounds)
			switch {
			case errors.Is(err, prompt.ErrTooManyAttempts):
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return errInvalid
			case err != nil:
				return err
			}

			out, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Below is the JSON that would get passed to the API")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().IntVar(&rounds, "rounds", 0, "maximum prompt rounds (default: form.max_prompt_rounds)")
	return cmd
}
