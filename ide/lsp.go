package ide

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhamidi/glint/syntax"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "glint"

// LSPServer adapts the Host to the language server protocol over
// stdio. Document edits arrive as incremental ranges and feed the
// incremental reparser directly.
type LSPServer struct {
	host    *Host
	handler protocol.Handler
	server  *server.Server
	version string
	rootDir string
	watcher *FileWatcher

	watch        bool
	pollInterval time.Duration
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		host:         NewHost(),
		version:      version,
		watch:        true,
		pollInterval: time.Second,
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentCompletion:     ls.textDocumentCompletion,
		TextDocumentDefinition:     ls.textDocumentDefinition,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		WorkspaceSymbol:            ls.workspaceSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) Host() *Host {
	return ls.host
}

// SetWatch controls whether the server polls the workspace for file
// changes outside the editor. Call before RunStdio.
func (ls *LSPServer) SetWatch(enabled bool, pollInterval time.Duration) {
	ls.watch = enabled
	if pollInterval > 0 {
		ls.pollInterval = pollInterval
	}
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	ls.rootDir = "."
	if params.RootPath != nil && *params.RootPath != "" {
		ls.rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			ls.rootDir = path
		}
	}

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindIncremental),
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{}
	capabilities.DefinitionProvider = true
	capabilities.DocumentSymbolProvider = true
	capabilities.WorkspaceSymbolProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if ls.watch {
		ls.watcher = NewFileWatcher(ls.host, ls.rootDir)
		ls.watcher.SetPollInterval(ls.pollInterval)
		ls.watcher.Start()
	}
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	file := ls.host.SetFileText(path, params.TextDocument.Text)
	ls.publishDiagnostics(ctx, params.TextDocument.URI, file)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	file := ls.host.FileIDFor(path)
	for _, change := range params.ContentChanges {
		switch change := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			edit, err := ls.rangeToEdit(file, change.Range, change.Text)
			if err != nil {
				return nil
			}
			if err := ls.host.ApplyEdit(file, edit); err != nil {
				return nil
			}
		case protocol.TextDocumentContentChangeEventWhole:
			ls.host.SetFileText(path, change.Text)
		}
	}
	ls.publishDiagnostics(ctx, params.TextDocument.URI, file)
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	file, offset, ok := ls.resolvePosition(params.TextDocument.URI, params.Position)
	if !ok {
		return nil, nil
	}
	completions, err := ls.host.Completions(FilePosition{File: file, Offset: offset})
	if err != nil || len(completions) == 0 {
		return nil, nil
	}
	var items []protocol.CompletionItem
	for _, c := range completions {
		kind := toProtocolCompletionKind(c.Kind)
		items = append(items, protocol.CompletionItem{
			Label: c.Label,
			Kind:  &kind,
		})
	}
	return items, nil
}

func (ls *LSPServer) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	file, offset, ok := ls.resolvePosition(params.TextDocument.URI, params.Position)
	if !ok {
		return nil, nil
	}
	target, err := ls.host.Definition(FilePosition{File: file, Offset: offset})
	if err != nil || target == nil {
		return nil, nil
	}
	path, ok := ls.host.Path(target.File)
	if !ok {
		return nil, nil
	}
	ix, err := ls.host.LineIndex(target.File)
	if err != nil {
		return nil, nil
	}
	return protocol.Location{
		URI:   pathToURI(path),
		Range: toProtocolRange(ix, target.Range.Start, target.Range.End),
	}, nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	file := ls.host.FileIDFor(path)
	syms, err := ls.host.Symbols(file)
	if err != nil {
		return nil, nil
	}
	ix, err := ls.host.LineIndex(file)
	if err != nil {
		return nil, nil
	}
	var out []protocol.DocumentSymbol
	for _, sym := range syms {
		out = append(out, protocol.DocumentSymbol{
			Name:           sym.Name,
			Kind:           toProtocolSymbolKind(sym.Kind),
			Range:          toProtocolRange(ix, sym.Range.Start, sym.Range.End),
			SelectionRange: toProtocolRange(ix, sym.SelectionRange.Start, sym.SelectionRange.End),
		})
	}
	return out, nil
}

func (ls *LSPServer) workspaceSymbol(ctx *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	syms, err := ls.host.WorkspaceSymbols()
	if err != nil {
		return nil, nil
	}
	query := strings.ToLower(params.Query)
	var out []protocol.SymbolInformation
	for _, sym := range syms {
		if query != "" && !strings.Contains(strings.ToLower(sym.Name), query) {
			continue
		}
		path, ok := ls.host.Path(sym.File)
		if !ok {
			continue
		}
		ix, err := ls.host.LineIndex(sym.File)
		if err != nil {
			continue
		}
		out = append(out, protocol.SymbolInformation{
			Name: sym.Name,
			Kind: toProtocolSymbolKind(sym.Kind),
			Location: protocol.Location{
				URI:   pathToURI(path),
				Range: toProtocolRange(ix, sym.SelectionRange.Start, sym.SelectionRange.End),
			},
		})
	}
	return out, nil
}

func (ls *LSPServer) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, file FileID) {
	diags, err := ls.host.Diagnostics(file)
	if err != nil {
		return
	}
	ix, err := ls.host.LineIndex(file)
	if err != nil {
		return
	}
	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		severity := toProtocolSeverity(d.Severity)
		out = append(out, protocol.Diagnostic{
			Range:    toProtocolRange(ix, d.Range.Start, d.Range.End),
			Severity: &severity,
			Message:  d.Message,
		})
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: out,
	})
}

// resolvePosition maps a protocol position onto a FileID and byte
// offset using the file's line index.
func (ls *LSPServer) resolvePosition(uri protocol.DocumentUri, pos protocol.Position) (FileID, int, bool) {
	path, err := uriToPath(uri)
	if err != nil {
		return 0, 0, false
	}
	file := ls.host.FileIDFor(path)
	ix, err := ls.host.LineIndex(file)
	if err != nil {
		return 0, 0, false
	}
	return file, ix.Offset(int(pos.Line), int(pos.Character)), true
}

// rangeToEdit converts an incremental change into a byte-offset edit.
func (ls *LSPServer) rangeToEdit(file FileID, r *protocol.Range, text string) (syntax.TextEdit, error) {
	ix, err := ls.host.LineIndex(file)
	if err != nil {
		return syntax.TextEdit{}, err
	}
	return syntax.TextEdit{
		Range: syntax.TextRange{
			Start: ix.Offset(int(r.Start.Line), int(r.Start.Character)),
			End:   ix.Offset(int(r.End.Line), int(r.End.Character)),
		},
		NewText: text,
	}, nil
}

func toProtocolRange(ix *LineIndex, start, end int) protocol.Range {
	sl, sc := ix.LineCol(start)
	el, ec := ix.LineCol(end)
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(sl), Character: protocol.UInteger(sc)},
		End:   protocol.Position{Line: protocol.UInteger(el), Character: protocol.UInteger(ec)},
	}
}

func toProtocolSeverity(s Severity) protocol.DiagnosticSeverity {
	if s == SeverityWarning {
		return protocol.DiagnosticSeverityWarning
	}
	return protocol.DiagnosticSeverityError
}

func toProtocolCompletionKind(kind CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case CompletionFunction:
		return protocol.CompletionItemKindFunction
	case CompletionStruct:
		return protocol.CompletionItemKindStruct
	case CompletionVariable, CompletionParam:
		return protocol.CompletionItemKindVariable
	case CompletionKeyword:
		return protocol.CompletionItemKindKeyword
	}
	return protocol.CompletionItemKindText
}

func toProtocolSymbolKind(kind SymbolKind) protocol.SymbolKind {
	if kind == SymbolStruct {
		return protocol.SymbolKindStruct
	}
	return protocol.SymbolKindFunction
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) protocol.DocumentUri {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	return "file://" + filepath.ToSlash(path)
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
