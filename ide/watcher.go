package ide

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileWatcher polls a directory tree for .rue files and mirrors
// additions, modifications and removals into the host.
type FileWatcher struct {
	host         *Host
	rootDir      string
	stopCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time
}

func NewFileWatcher(h *Host, rootDir string) *FileWatcher {
	return &FileWatcher{
		host:         h,
		rootDir:      rootDir,
		stopCh:       make(chan struct{}),
		pollInterval: 1 * time.Second,
		modTimes:     make(map[string]time.Time),
	}
}

// SetPollInterval overrides the scan interval; it must be called
// before Start.
func (w *FileWatcher) SetPollInterval(d time.Duration) {
	if d > 0 {
		w.pollInterval = d
	}
}

func (w *FileWatcher) Start() {
	go w.run()
}

func (w *FileWatcher) Stop() {
	close(w.stopCh)
}

// ScanAll loads every source file under the root once, synchronously.
func (w *FileWatcher) ScanAll() {
	w.scan()
}

func (w *FileWatcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

func (w *FileWatcher) scan() {
	currentFiles := make(map[string]bool)

	filepath.Walk(w.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".rue" {
			return nil
		}

		currentFiles[path] = true

		lastMod, known := w.modTimes[path]
		if !known || info.ModTime().After(lastMod) {
			w.modTimes[path] = info.ModTime()
			content, err := os.ReadFile(path)
			if err != nil {
				return nil
			}
			w.host.SetFileText(path, string(content))
		}
		return nil
	})

	for path := range w.modTimes {
		if !currentFiles[path] {
			delete(w.modTimes, path)
			w.host.RemoveFile(w.host.FileIDFor(path))
		}
	}
}
