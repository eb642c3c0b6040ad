package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yanizio/signup/components/signup"
	"github.com/yanizio/signup/internal/config"
	"github.com/yanizio/signup/internal/form"
	"github.com/yanizio/signup/internal/logger"
)

// Exit codes.
const (
	exitOK      = 0
	exitInvalid = 1 // input failed validation
	exitError   = 2 // usage, I/O, or configuration problem
)

// errInvalid marks a run that finished but rejected its input.  The details
// have already been printed.
var errInvalid = errors.New("input is invalid")

type rootOpts struct {
	formPath string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOpts{}

	root := &cobra.Command{
		Use:           "signup",
		Short:         "Validate sign-up form input",
		Long:          `signup checks form input against the sign-up rules, either interactively or from a JSON file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			l, err := logger.Console(opts.logLevel)
			if err != nil {
				return err
			}
			zap.ReplaceGlobals(l.Desugar())
			cmd.SetContext(logger.WithContext(cmd.Context(), l))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.formPath, "form", "", "YAML form definition (default: built-in sign-up form)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level for stderr diagnostics")

	root.AddCommand(newPromptCmd(opts), newCheckCmd(opts))
	return root
}

// execute runs root with args and maps the outcome to an exit code.
func execute(root *cobra.Command, args []string) int {
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errInvalid):
		return exitInvalid
	default:
		fmt.Fprintln(root.ErrOrStderr(), "error:", err)
		return exitError
	}
}

// loadConfig reads conf/global.yaml when present and falls back to defaults.
func loadConfig() (*config.Config, error) {
	root := config.RootDir()
	if _, err := os.Stat(filepath.Join(root, "conf", "global.yaml")); err != nil {
		return config.Default(root), nil
	}
	return config.LoadFrom(root)
}

// loadForm picks --form first, then form.definition, then the built-in form.
func loadForm(opts *rootOpts, cfg *config.Config) (*form.Form, error) {
	if opts.formPath != "" {
		return signup.LoadForm(opts.formPath)
	}
	return signup.LoadForm(cfg.Resolve(cfg.Form.Definition))
}
