package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yanizio/signup/internal/form"
	"github.com/yanizio/signup/internal/logger"
)

func newCheckCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a JSON object of field values",
		Long: `Reads a JSON object of strings from file, or stdin when file is "-" or
omitted.  Prints the record JSON when valid, otherwise one "field: message"
line per failing field and exits with status 1.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			f, err := loadForm(opts, cfg)
			if err != nil {
				return err
			}

			in, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			res := f.Validate(in)
			if !res.Valid() {
				logger.FromContext(cmd.Context()).Debugw("check rejected", "form", f.Def.ID, "errors", len(res.Errors()))
				for _, ef := range res.Errors().Fields(f.Schema) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", ef.Name, ef.Message)
				}
				return errInvalid
			}

			out, err := json.Marshal(res.Record())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func readInput(cmd *cobra.Command, args []string) (form.RawInput, error) {
	var r io.Reader = cmd.InOrStdin()
	name := "stdin"
	if len(args) == 1 && args[0] != "-" {
		fh, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer fh.Close()
		r, name = fh, args[0]
	}

	in, err := form.DecodeRawInput(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return in, nil
}
