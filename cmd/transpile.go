package cmd

import (
	"errors"
	"fmt"
	"github.com/spf13/cobra"
	"io"
	"lesson-generator/pkg/transpiler"
	"os"
)

func transpile() *cobra.Command {
	return &cobra.Command{
		Use:   "transpile <file|->",
		Short: "print the JavaScript for a TSX lesson source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			result, err := transpiler.Transpile(string(source))
			if err != nil {
				var tErr *transpiler.TranspileError
				if errors.As(err, &tErr) {
					for _, d := range tErr.Diagnostics {
						fmt.Fprintln(cmd.ErrOrStderr(), d)
					}
				}
				return err
			}

			for _, w := range result.Warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), result.JavaScript)
			return err
		},
	}
}

func readSource(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}
