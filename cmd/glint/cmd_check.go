package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/glint/format"
	"github.com/dhamidi/glint/parser"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Parse files and report diagnostics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false
			for _, filename := range args {
				data, err := os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("read source file: %w", err)
				}

				p := parser.ParseFile(string(data))
				if len(p.Errors) > 0 {
					failed = true
				}

				switch outputFormat {
				case "json":
					enc := format.NewDiagnosticsJSONEncoder(os.Stdout)
					if err := enc.Encode(p.Errors); err != nil {
						return fmt.Errorf("encode json: %w", err)
					}
				case "text":
					enc := format.NewDiagnosticsTextEncoder(os.Stdout, filename)
					if err := enc.Encode(p.Errors); err != nil {
						return fmt.Errorf("encode text: %w", err)
					}
				default:
					return fmt.Errorf("unknown format: %s", outputFormat)
				}
			}
			if failed {
				return fmt.Errorf("found syntax errors")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")

	return cmd
}
