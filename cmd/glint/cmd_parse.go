package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/glint/format"
	"github.com/dhamidi/glint/parser"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a .rue file and dump the syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read source file: %w", err)
			}

			p := parser.ParseFile(string(data))

			switch outputFormat {
			case "json":
				enc := format.NewTreeJSONEncoder(os.Stdout)
				if err := enc.Encode(p.Syntax()); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
			case "text":
				enc := format.NewTreeTextEncoder(os.Stdout)
				if err := enc.Encode(p.Syntax()); err != nil {
					return fmt.Errorf("encode text: %w", err)
				}
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")

	return cmd
}
