package format

import (
	"fmt"
	"io"

	"github.com/dhamidi/glint/parser"
	"github.com/dhamidi/glint/syntax"
)

// TreeTextEncoder writes the indented kind/range dump of a tree,
// tokens with their text quoted.
type TreeTextEncoder struct {
	w io.Writer
}

func NewTreeTextEncoder(w io.Writer) *TreeTextEncoder {
	return &TreeTextEncoder{w: w}
}

func (e *TreeTextEncoder) Encode(root *syntax.SyntaxNode) error {
	_, err := io.WriteString(e.w, root.Dump())
	return err
}

// DiagnosticsTextEncoder writes one diagnostic per line, compiler
// style: path:start..end: message.
type DiagnosticsTextEncoder struct {
	w    io.Writer
	path string
}

func NewDiagnosticsTextEncoder(w io.Writer, path string) *DiagnosticsTextEncoder {
	return &DiagnosticsTextEncoder{w: w, path: path}
}

func (e *DiagnosticsTextEncoder) Encode(diags []parser.Diagnostic) error {
	for _, d := range diags {
		if _, err := fmt.Fprintf(e.w, "%s:%s: %s\n", e.path, d.Range, d.Message); err != nil {
			return err
		}
	}
	return nil
}
