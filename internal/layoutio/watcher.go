package layoutio

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DebounceDelay is how long a watched file must stay quiet before it is
// re-imported. Editors often write a file in several steps.
const DebounceDelay = 500 * time.Millisecond

// Watcher re-imports layout files into their floor plans whenever they
// change on disk.
type Watcher struct {
	importer *Importer
	logger   *log.Logger
	watcher  *fsnotify.Watcher

	mu       sync.Mutex
	watching map[string]string // absolute path -> floor plan ID
	timers   map[string]*time.Timer

	// OnImport, when set, is called after every re-import attempt.
	OnImport func(floorPlanID string, err error)
}

// NewWatcher creates a Watcher. Call Run to start processing events.
func NewWatcher(importer *Importer, logger *log.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Watcher{
		importer: importer,
		logger:   logger,
		watcher:  fw,
		watching: make(map[string]string),
		timers:   make(map[string]*time.Timer),
	}, nil
}

// WatchFile starts syncing path into the floor plan floorPlanID.
func (w *Watcher) WatchFile(floorPlanID, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.watching[absPath] = floorPlanID
	w.mu.Unlock()

	// Watch the directory: editors replace files by rename, which drops a
	// watch on the file itself.
	return w.watcher.Add(filepath.Dir(absPath))
}

// StopWatching stops syncing every file bound to floorPlanID.
func (w *Watcher) StopWatching(floorPlanID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, id := range w.watching {
		if id == floorPlanID {
			delete(w.watching, path)
			if t, ok := w.timers[path]; ok {
				t.Stop()
				delete(w.timers, path)
			}
		}
	}
}

// Run processes file events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.schedule(ctx, event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "err", err)
		}
	}
}

func (w *Watcher) schedule(ctx context.Context, name string) {
	absPath, _ := filepath.Abs(name)

	w.mu.Lock()
	defer w.mu.Unlock()

	floorPlanID, watched := w.watching[absPath]
	if !watched {
		return
	}
	if t, ok := w.timers[absPath]; ok {
		t.Stop()
	}
	w.timers[absPath] = time.AfterFunc(DebounceDelay, func() {
		w.mu.Lock()
		delete(w.timers, absPath)
		w.mu.Unlock()
		w.reload(ctx, floorPlanID, absPath)
	})
}

func (w *Watcher) reload(ctx context.Context, floorPlanID, path string) {
	if ctx.Err() != nil {
		return
	}
	_, err := w.importer.ImportFile(ctx, path, floorPlanID)
	if err != nil {
		w.logger.Warn("layout not applied", "file", filepath.Base(path), "err", err)
	} else {
		w.logger.Info("layout re-imported", "file", filepath.Base(path), "floorPlan", floorPlanID)
	}
	if w.OnImport != nil {
		w.OnImport(floorPlanID, err)
	}
}

func (w *Watcher) close() {
	w.mu.Lock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()
	w.watcher.Close()
}
