package ide

import (
	"fmt"
	"sync"

	"github.com/dhamidi/glint/db"
	"github.com/dhamidi/glint/parser"
	"github.com/dhamidi/glint/syntax"
)

// Host owns the database, the file table and the registered queries.
// It is the single entry point an editor front end talks to: feed it
// file contents and edits, ask it for diagnostics, symbols,
// completions and definitions.
type Host struct {
	db *db.DB

	// write serializes mutations so that reading the old text and
	// applying the edit happen against the same state.
	write sync.Mutex

	filesMu sync.Mutex
	ids     map[string]FileID
	paths   map[FileID]string
	nextID  FileID

	text  *db.Input[FileID, string]
	tree  *db.Input[FileID, parser.Parse]
	files *db.Input[struct{}, []FileID]

	diagnostics *db.Query[FileID, []Diagnostic]
	lineIndex   *db.Query[FileID, *LineIndex]
	symbols     *db.Query[FileID, []Symbol]
	workspace   *db.Query[struct{}, []Symbol]
}

func NewHost() *Host {
	d := db.New()
	h := &Host{
		db:    d,
		ids:   make(map[string]FileID),
		paths: make(map[FileID]string),
		text:  db.NewInput[FileID, string](d, "file_text", db.DurabilityLow),
		tree:  db.NewInput[FileID, parser.Parse](d, "file_tree", db.DurabilityLow),
		files: db.NewInput[struct{}, []FileID](d, "file_set", db.DurabilityMedium),
	}
	d.Write(func(w *db.Writer) {
		h.files.Set(w, struct{}{}, nil)
	})

	h.diagnostics = db.NewQuery(d, "diagnostics", func(ctx *db.Ctx, file FileID) ([]Diagnostic, error) {
		p, err := h.tree.Get(ctx, file)
		if err != nil {
			return nil, err
		}
		out := make([]Diagnostic, 0, len(p.Errors))
		for _, e := range p.Errors {
			out = append(out, Diagnostic{Range: e.Range, Severity: SeverityError, Message: e.Message})
		}
		return out, nil
	}).WithEqual(diagnosticsEqual)

	h.lineIndex = db.NewQuery(d, "line_index", func(ctx *db.Ctx, file FileID) (*LineIndex, error) {
		text, err := h.text.Get(ctx, file)
		if err != nil {
			return nil, err
		}
		return NewLineIndex(text), nil
	})

	h.symbols = db.NewQuery(d, "file_symbols", func(ctx *db.Ctx, file FileID) ([]Symbol, error) {
		p, err := h.tree.Get(ctx, file)
		if err != nil {
			return nil, err
		}
		return collectSymbols(file, p.Syntax()), nil
	}).WithEqual(symbolsEqual)

	h.workspace = db.NewQuery(d, "workspace_symbols", func(ctx *db.Ctx, _ struct{}) ([]Symbol, error) {
		files, err := h.files.Get(ctx, struct{}{})
		if err != nil {
			return nil, err
		}
		var out []Symbol
		for _, file := range files {
			if err := ctx.CheckCancelled(); err != nil {
				return nil, err
			}
			syms, err := h.symbols.Get(ctx, file)
			if err != nil {
				return nil, err
			}
			out = append(out, syms...)
		}
		return out, nil
	}).WithEqual(symbolsEqual)

	return h
}

func (h *Host) DB() *db.DB {
	return h.db
}

// FileIDFor interns a path, allocating an ID on first sight. Interning
// alone does not register the file; SetFileText does.
func (h *Host) FileIDFor(path string) FileID {
	h.filesMu.Lock()
	defer h.filesMu.Unlock()
	if id, ok := h.ids[path]; ok {
		return id
	}
	id := h.nextID
	h.nextID++
	h.ids[path] = id
	h.paths[id] = path
	return id
}

// Path returns the path a FileID was interned under.
func (h *Host) Path(file FileID) (string, bool) {
	h.filesMu.Lock()
	defer h.filesMu.Unlock()
	path, ok := h.paths[file]
	return path, ok
}

// SetFileText registers or replaces the full contents of a file. The
// text, its parse and the workspace file set move to the next revision
// together.
func (h *Host) SetFileText(path string, text string) FileID {
	h.write.Lock()
	defer h.write.Unlock()
	file := h.FileIDFor(path)
	_, known := h.text.Current(file)
	h.db.Write(func(w *db.Writer) {
		h.text.Set(w, file, text)
		h.tree.Set(w, file, parser.ParseFile(text))
		if !known {
			files, _ := h.files.Current(struct{}{})
			files = append(append([]FileID(nil), files...), file)
			h.files.Set(w, struct{}{}, files)
		}
	})
	return file
}

// ApplyEdit replaces one byte range of a file with new text. The edit
// is validated before any state changes: a bad range leaves the
// current revision fully intact. The replacement tree comes from the
// incremental reparser, so unrelated subtrees keep their identity.
func (h *Host) ApplyEdit(file FileID, edit syntax.TextEdit) error {
	h.write.Lock()
	defer h.write.Unlock()
	text, ok := h.text.Current(file)
	if !ok {
		return ErrUnknownFile
	}
	if edit.Range.Start < 0 || edit.Range.Start > edit.Range.End || edit.Range.End > len(text) {
		return fmt.Errorf("%w: %s in %d bytes", ErrInvalidRange, edit.Range, len(text))
	}
	old, _ := h.tree.Current(file)
	h.db.Write(func(w *db.Writer) {
		h.text.Set(w, file, edit.Apply(text))
		h.tree.Set(w, file, parser.Reparse(old, edit))
	})
	return nil
}

// RemoveFile drops a file from the workspace. Its ID stays interned
// and may be reused by a later SetFileText for the same path.
func (h *Host) RemoveFile(file FileID) error {
	h.write.Lock()
	defer h.write.Unlock()
	if _, ok := h.text.Current(file); !ok {
		return ErrUnknownFile
	}
	h.db.Write(func(w *db.Writer) {
		h.text.Delete(w, file)
		h.tree.Delete(w, file)
		files, _ := h.files.Current(struct{}{})
		kept := make([]FileID, 0, len(files))
		for _, f := range files {
			if f != file {
				kept = append(kept, f)
			}
		}
		h.files.Set(w, struct{}{}, kept)
	})
	return nil
}

// Revision returns the current logical timestamp; it advances by one
// per mutation batch.
func (h *Host) Revision() db.Revision {
	return h.db.Revision()
}

func (h *Host) Text(file FileID) (string, error) {
	var out string
	err := h.db.Read(func(ctx *db.Ctx) error {
		text, err := h.text.Get(ctx, file)
		if err != nil {
			return err
		}
		out = text
		return nil
	})
	return out, err
}

// SyntaxTree returns the current parse of a file.
func (h *Host) SyntaxTree(file FileID) (parser.Parse, error) {
	var out parser.Parse
	err := h.db.Read(func(ctx *db.Ctx) error {
		p, err := h.tree.Get(ctx, file)
		if err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}

func (h *Host) Diagnostics(file FileID) ([]Diagnostic, error) {
	var out []Diagnostic
	err := h.db.Read(func(ctx *db.Ctx) error {
		v, err := h.diagnostics.Get(ctx, file)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

func (h *Host) LineIndex(file FileID) (*LineIndex, error) {
	var out *LineIndex
	err := h.db.Read(func(ctx *db.Ctx) error {
		v, err := h.lineIndex.Get(ctx, file)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

func (h *Host) Symbols(file FileID) ([]Symbol, error) {
	var out []Symbol
	err := h.db.Read(func(ctx *db.Ctx) error {
		v, err := h.symbols.Get(ctx, file)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

func (h *Host) WorkspaceSymbols() ([]Symbol, error) {
	var out []Symbol
	err := h.db.Read(func(ctx *db.Ctx) error {
		v, err := h.workspace.Get(ctx, struct{}{})
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// Completions returns the candidates visible at a position: enclosing
// locals and parameters, file items, and statement keywords.
func (h *Host) Completions(pos FilePosition) ([]CompletionItem, error) {
	var out []CompletionItem
	err := h.db.Read(func(ctx *db.Ctx) error {
		p, err := h.tree.Get(ctx, pos.File)
		if err != nil {
			return err
		}
		out = completionsAt(p.Syntax(), pos.Offset)
		return nil
	})
	return out, err
}

// Definition resolves the name under the position to the range where
// it is declared, searching enclosing scopes, then file items, then
// the whole workspace.
func (h *Host) Definition(pos FilePosition) (*FileRange, error) {
	var out *FileRange
	err := h.db.Read(func(ctx *db.Ctx) error {
		p, err := h.tree.Get(ctx, pos.File)
		if err != nil {
			return err
		}
		target, err := h.definitionAt(ctx, pos, p.Syntax())
		if err != nil {
			return err
		}
		out = target
		return nil
	})
	return out, err
}

// Evaluate is the stringly-typed front door used by the CLI: it maps a
// query name and key onto the corresponding typed accessor.
func (h *Host) Evaluate(query string, file FileID) (any, error) {
	switch query {
	case "text":
		return h.Text(file)
	case "syntax":
		p, err := h.SyntaxTree(file)
		if err != nil {
			return nil, err
		}
		return p.Syntax(), nil
	case "diagnostics":
		return h.Diagnostics(file)
	case "symbols":
		return h.Symbols(file)
	case "workspace_symbols":
		return h.WorkspaceSymbols()
	}
	return nil, fmt.Errorf("ide: unknown query %q", query)
}

// IndexAll prewarms the per-file symbol memos with a bounded worker
// pool. A write arriving mid-index cancels it; the next index run
// starts from whatever memos survived.
func (h *Host) IndexAll(workers int) error {
	if workers < 1 {
		workers = 1
	}
	var files []FileID
	if err := h.db.Read(func(ctx *db.Ctx) error {
		v, err := h.files.Get(ctx, struct{}{})
		if err != nil {
			return err
		}
		files = v
		return nil
	}); err != nil {
		return err
	}

	work := make(chan FileID)
	errc := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range work {
				if _, err := h.Symbols(file); err != nil {
					select {
					case errc <- err:
					default:
					}
				}
			}
		}()
	}
	for _, file := range files {
		work <- file
	}
	close(work)
	wg.Wait()
	select {
	case err := <-errc:
		return err
	default:
		return nil
	}
}

func diagnosticsEqual(a, b []Diagnostic) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func symbolsEqual(a, b []Symbol) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
