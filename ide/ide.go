// Package ide binds the parser and the query runtime into an analysis
// host: named files, edits, and the semantic queries an editor asks on
// every keystroke.
package ide

import (
	"errors"
	"fmt"

	"github.com/dhamidi/glint/syntax"
)

// FileID names a file tracked by the host. IDs are dense and stable
// for the lifetime of the host.
type FileID uint32

// FilePosition addresses a byte offset inside a file.
type FilePosition struct {
	File   FileID
	Offset int
}

// FileRange addresses a byte range inside a file.
type FileRange struct {
	File  FileID
	Range syntax.TextRange
}

var (
	// ErrInvalidRange is returned when an edit lies outside the
	// current bounds of the file. The engine state is untouched.
	ErrInvalidRange = errors.New("ide: edit range outside file bounds")
	// ErrUnknownFile is returned for a FileID the host has never seen.
	ErrUnknownFile = errors.New("ide: unknown file")
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Diagnostic is a problem report anchored to a byte range.
type Diagnostic struct {
	Range    syntax.TextRange
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Range, d.Message)
}

type SymbolKind int

const (
	SymbolFunction SymbolKind = iota
	SymbolStruct
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolStruct:
		return "struct"
	}
	return "unknown"
}

// Symbol is a named top-level declaration. Range covers the whole
// declaration, SelectionRange just the name.
type Symbol struct {
	File           FileID
	Name           string
	Kind           SymbolKind
	Range          syntax.TextRange
	SelectionRange syntax.TextRange
}

type CompletionKind int

const (
	CompletionFunction CompletionKind = iota
	CompletionStruct
	CompletionVariable
	CompletionParam
	CompletionKeyword
)

// CompletionItem is one candidate offered at a position.
type CompletionItem struct {
	Label string
	Kind  CompletionKind
}
