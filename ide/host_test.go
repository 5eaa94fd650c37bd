package ide

import (
	"testing"

	"github.com/dhamidi/glint/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func edit(start, end int, text string) syntax.TextEdit {
	return syntax.TextEdit{Range: syntax.TextRange{Start: start, End: end}, NewText: text}
}

func TestHostSetFileTextAndRead(t *testing.T) {
	h := NewHost()
	file := h.SetFileText("main.rue", "fn main() {}")

	text, err := h.Text(file)
	require.NoError(t, err)
	assert.Equal(t, "fn main() {}", text)

	p, err := h.SyntaxTree(file)
	require.NoError(t, err)
	assert.Equal(t, "fn main() {}", p.Text())

	diags, err := h.Diagnostics(file)
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestHostDiagnosticsFollowEdits(t *testing.T) {
	h := NewHost()
	file := h.SetFileText("main.rue", "fn main() { 1 + 2; }")

	diags, err := h.Diagnostics(file)
	require.NoError(t, err)
	require.Empty(t, diags)

	// Delete the right operand: "1 + 2" -> "1 + ".
	require.NoError(t, h.ApplyEdit(file, edit(16, 17, "")))

	diags, err = h.Diagnostics(file)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, SeverityError, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "expected expression")

	// Restore it.
	require.NoError(t, h.ApplyEdit(file, edit(16, 16, "2")))
	diags, err = h.Diagnostics(file)
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestHostApplyEditValidation(t *testing.T) {
	h := NewHost()
	file := h.SetFileText("main.rue", "fn main() {}")
	before := h.Revision()

	err := h.ApplyEdit(file, edit(5, 99, "x"))
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Equal(t, before, h.Revision(), "a rejected edit must not advance the revision")

	text, err := h.Text(file)
	require.NoError(t, err)
	assert.Equal(t, "fn main() {}", text)

	err = h.ApplyEdit(FileID(999), edit(0, 0, "x"))
	assert.ErrorIs(t, err, ErrUnknownFile)
}

func TestHostRevisionPerEdit(t *testing.T) {
	h := NewHost()
	file := h.SetFileText("main.rue", "fn main() {}")
	before := h.Revision()

	require.NoError(t, h.ApplyEdit(file, edit(12, 12, "\n")))
	assert.Equal(t, before+1, h.Revision(), "text and tree move together under one revision")
}

func TestHostSymbols(t *testing.T) {
	h := NewHost()
	file := h.SetFileText("lib.rue", "fn alpha() {}\n\nstruct Beta { x: i64 }\n")

	syms, err := h.Symbols(file)
	require.NoError(t, err)
	require.Len(t, syms, 2)

	assert.Equal(t, "alpha", syms[0].Name)
	assert.Equal(t, SymbolFunction, syms[0].Kind)
	assert.Equal(t, syntax.TextRange{Start: 3, End: 8}, syms[0].SelectionRange)

	assert.Equal(t, "Beta", syms[1].Name)
	assert.Equal(t, SymbolStruct, syms[1].Kind)
}

func TestHostWorkspaceSymbols(t *testing.T) {
	h := NewHost()
	a := h.SetFileText("a.rue", "fn from_a() {}")
	h.SetFileText("b.rue", "fn from_b() {}")

	syms, err := h.WorkspaceSymbols()
	require.NoError(t, err)
	require.Len(t, syms, 2)

	names := []string{syms[0].Name, syms[1].Name}
	assert.Contains(t, names, "from_a")
	assert.Contains(t, names, "from_b")

	require.NoError(t, h.RemoveFile(a))
	syms, err = h.WorkspaceSymbols()
	require.NoError(t, err)
	require.Len(t, syms, 1)
	assert.Equal(t, "from_b", syms[0].Name)
}

func TestHostDiagnosticsCachedAcrossUnrelatedEdits(t *testing.T) {
	h := NewHost()
	a := h.SetFileText("a.rue", "fn a() {}")
	b := h.SetFileText("b.rue", "fn b() {}")

	_, err := h.Diagnostics(a)
	require.NoError(t, err)
	execsBefore := h.diagnostics.Executions()

	// Editing b must not recompute diagnostics for a.
	require.NoError(t, h.ApplyEdit(b, edit(9, 9, "\n")))
	_, err = h.Diagnostics(a)
	require.NoError(t, err)
	assert.Equal(t, execsBefore, h.diagnostics.Executions())
}

func TestHostCompletions(t *testing.T) {
	h := NewHost()
	src := "fn helper() {}\n\nfn main(count: i64) { let total = 1; tot }"
	file := h.SetFileText("main.rue", src)

	// Position at the end of "tot".
	offset := len(src) - 2
	items, err := h.Completions(FilePosition{File: file, Offset: offset})
	require.NoError(t, err)

	labels := make(map[string]CompletionKind)
	for _, item := range items {
		labels[item.Label] = item.Kind
	}
	assert.Equal(t, CompletionVariable, labels["total"])
	assert.Equal(t, CompletionParam, labels["count"])
	assert.Equal(t, CompletionFunction, labels["helper"])
	assert.Equal(t, CompletionFunction, labels["main"])
	assert.Equal(t, CompletionKeyword, labels["let"])
}

func TestHostCompletionsRespectStatementOrder(t *testing.T) {
	h := NewHost()
	src := "fn f() { x; let late = 1; }"
	file := h.SetFileText("main.rue", src)

	// At "x", the later let is not yet in scope.
	items, err := h.Completions(FilePosition{File: file, Offset: 10})
	require.NoError(t, err)
	for _, item := range items {
		assert.NotEqual(t, "late", item.Label)
	}
}

func TestHostDefinitionLocal(t *testing.T) {
	h := NewHost()
	src := "fn f(param: i64) { let local = param; local }"
	file := h.SetFileText("main.rue", src)

	// "local" use at the end resolves to the let binding.
	useOffset := len(src) - 2
	target, err := h.Definition(FilePosition{File: file, Offset: useOffset})
	require.NoError(t, err)
	require.NotNil(t, target)
	assert.Equal(t, file, target.File)
	assert.Equal(t, "local", src[target.Range.Start:target.Range.End])
	assert.Equal(t, 23, target.Range.Start)

	// "param" use inside the initializer resolves to the parameter.
	target, err = h.Definition(FilePosition{File: file, Offset: 33})
	require.NoError(t, err)
	require.NotNil(t, target)
	assert.Equal(t, "param", src[target.Range.Start:target.Range.End])
	assert.Equal(t, 5, target.Range.Start)
}

func TestHostDefinitionAcrossFiles(t *testing.T) {
	h := NewHost()
	lib := h.SetFileText("lib.rue", "fn shared() {}")
	src := "fn main() { shared(); }"
	main := h.SetFileText("main.rue", src)

	target, err := h.Definition(FilePosition{File: main, Offset: 13})
	require.NoError(t, err)
	require.NotNil(t, target)
	assert.Equal(t, lib, target.File)
	assert.Equal(t, syntax.TextRange{Start: 3, End: 9}, target.Range)
}

func TestHostDefinitionUnresolved(t *testing.T) {
	h := NewHost()
	file := h.SetFileText("main.rue", "fn main() { nowhere(); }")

	target, err := h.Definition(FilePosition{File: file, Offset: 13})
	require.NoError(t, err)
	assert.Nil(t, target)
}

func TestHostEvaluate(t *testing.T) {
	h := NewHost()
	file := h.SetFileText("main.rue", "fn main() {}")

	text, err := h.Evaluate("text", file)
	require.NoError(t, err)
	assert.Equal(t, "fn main() {}", text)

	syms, err := h.Evaluate("symbols", file)
	require.NoError(t, err)
	assert.Len(t, syms, 1)

	_, err = h.Evaluate("no_such_query", file)
	assert.ErrorContains(t, err, "unknown query")
}

func TestHostIndexAll(t *testing.T) {
	h := NewHost()
	h.SetFileText("a.rue", "fn a() {}")
	h.SetFileText("b.rue", "fn b() {}")
	h.SetFileText("c.rue", "struct C;")

	require.NoError(t, h.IndexAll(2))
	execs := h.symbols.Executions()
	assert.Equal(t, uint64(3), execs)

	// A second pass finds everything memoized.
	require.NoError(t, h.IndexAll(2))
	assert.Equal(t, execs, h.symbols.Executions())
}

func TestLineIndexConversions(t *testing.T) {
	ix := NewLineIndex("ab\ncde\n\nf")

	tests := []struct {
		offset    int
		line, col int
	}{
		{0, 0, 0},
		{1, 0, 1},
		{3, 1, 0},
		{5, 1, 2},
		{7, 2, 0},
		{8, 3, 0},
		{9, 3, 1},
	}
	for _, tt := range tests {
		line, col := ix.LineCol(tt.offset)
		assert.Equal(t, tt.line, line, "LineCol(%d) line", tt.offset)
		assert.Equal(t, tt.col, col, "LineCol(%d) col", tt.offset)
		assert.Equal(t, tt.offset, ix.Offset(tt.line, tt.col), "Offset(%d,%d)", tt.line, tt.col)
	}

	// Past the end of a line clamps to just before the newline.
	assert.Equal(t, 2, ix.Offset(0, 10))
	// Past the last line clamps to the end of text.
	assert.Equal(t, 9, ix.Offset(99, 0))
}

func TestLineIndexUTF16(t *testing.T) {
	// "a𝄞b": the G clef is one supplementary code point, two UTF-16
	// units, four UTF-8 bytes.
	ix := NewLineIndex("a\U0001d11eb")

	line, col := ix.LineCol(5) // byte offset of 'b'
	assert.Equal(t, 0, line)
	assert.Equal(t, 3, col)

	assert.Equal(t, 5, ix.Offset(0, 3))
	assert.Equal(t, 1, ix.Offset(0, 1))
}
