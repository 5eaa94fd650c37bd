// Package format renders syntax trees and diagnostics for the CLI:
// an indented text form for eyeballing and a JSON form for tooling.
package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/glint/parser"
	"github.com/dhamidi/glint/syntax"
)

type TreeJSONEncoder struct {
	w io.Writer
}

func NewTreeJSONEncoder(w io.Writer) *TreeJSONEncoder {
	return &TreeJSONEncoder{w: w}
}

func (e *TreeJSONEncoder) Encode(root *syntax.SyntaxNode) error {
	text, err := e.MarshalText(root)
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

func (e *TreeJSONEncoder) MarshalText(root *syntax.SyntaxNode) ([]byte, error) {
	return json.MarshalIndent(nodeToJSON(root), "", "  ")
}

type treeJSONNode struct {
	Kind     string          `json:"kind"`
	Range    treeJSONRange   `json:"range"`
	Text     string          `json:"text,omitempty"`
	Children []*treeJSONNode `json:"children,omitempty"`
}

type treeJSONRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func nodeToJSON(n *syntax.SyntaxNode) *treeJSONNode {
	jn := &treeJSONNode{
		Kind:  n.Kind().String(),
		Range: treeJSONRange{Start: n.Range().Start, End: n.Range().End},
	}
	children := n.Children()
	tokens := n.Tokens()
	// Interleave nodes and tokens back into source order by offset.
	ci, ti := 0, 0
	for ci < len(children) || ti < len(tokens) {
		if ti >= len(tokens) || (ci < len(children) && children[ci].Offset() <= tokens[ti].Offset()) {
			jn.Children = append(jn.Children, nodeToJSON(children[ci]))
			ci++
		} else {
			jn.Children = append(jn.Children, tokenToJSON(tokens[ti]))
			ti++
		}
	}
	return jn
}

func tokenToJSON(t *syntax.SyntaxToken) *treeJSONNode {
	return &treeJSONNode{
		Kind:  t.Kind().String(),
		Range: treeJSONRange{Start: t.Range().Start, End: t.Range().End},
		Text:  t.Text(),
	}
}

// DiagnosticsJSONEncoder writes parse diagnostics as a JSON array.
type DiagnosticsJSONEncoder struct {
	w io.Writer
}

func NewDiagnosticsJSONEncoder(w io.Writer) *DiagnosticsJSONEncoder {
	return &DiagnosticsJSONEncoder{w: w}
}

type diagnosticJSON struct {
	Range   treeJSONRange `json:"range"`
	Message string        `json:"message"`
}

func (e *DiagnosticsJSONEncoder) Encode(diags []parser.Diagnostic) error {
	out := make([]diagnosticJSON, 0, len(diags))
	for _, d := range diags {
		out = append(out, diagnosticJSON{
			Range:   treeJSONRange{Start: d.Range.Start, End: d.Range.End},
			Message: d.Message,
		})
	}
	text, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}
