package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Reloader rebuilds a snapshot from its source and publishes it. A failed
// reload leaves the current snapshot in place.
type Reloader struct {
	store    *Store
	src      Source
	logger   *zap.Logger
	mu       sync.Mutex // serializes reloads; readers never take it
	onReload func(err error)
}

func NewReloader(store *Store, src Source, logger *zap.Logger) *Reloader {
	return &Reloader{store: store, src: src, logger: logger}
}

// OnReload registers a hook called after every reload attempt.
func (r *Reloader) OnReload(fn func(err error)) {
	r.onReload = fn
}

func (r *Reloader) Reload(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, err := r.src.Load(ctx)
	if err != nil {
		r.logger.Error("reload failed, keeping current job data",
			zap.String("source", r.src.Name()),
			zap.Error(err),
		)
	} else {
		r.store.Replace(snap)
		r.logger.Info("job data reloaded",
			zap.String("source", r.src.Name()),
			zap.Int("jobs", len(snap.summaries)),
			zap.Int("details", len(snap.details)),
		)
	}
	if r.onReload != nil {
		r.onReload(err)
	}
	return err
}

// FileWatcher reloads when a data file in the watched directory changes.
type FileWatcher struct {
	dir      string
	reloader *Reloader
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	debounce time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewFileWatcher(dir string, reloader *Reloader, logger *zap.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	// Watch the directory rather than the files so atomic saves (write to a
	// temp file, rename over the original) are seen.
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch data directory %s: %w", dir, err)
	}
	return &FileWatcher{
		dir:      dir,
		reloader: reloader,
		watcher:  watcher,
		logger:   logger,
		debounce: 100 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

func (w *FileWatcher) Start() {
	go w.watchLoop()
	w.logger.Info("data watcher started", zap.String("dir", w.dir))
}

func (w *FileWatcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
	<-w.doneCh
	w.logger.Info("data watcher stopped")
}

func (w *FileWatcher) watchLoop() {
	defer close(w.doneCh)

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isDataFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, w.reloadUnlessStopped)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("data watcher error", zap.Error(err))
		}
	}
}

// reloadUnlessStopped covers a timer that fired just before Stop.
func (w *FileWatcher) reloadUnlessStopped() {
	select {
	case <-w.stopCh:
		return
	default:
	}
	_ = w.reloader.Reload(context.Background())
}

func isDataFile(path string) bool {
	switch filepath.Base(path) {
	case JobsFile, DetailsFile, CompaniesFile:
		return true
	}
	return false
}

// Refresher reloads on a cron schedule, for sources that cannot be watched.
type Refresher struct {
	cron     *cron.Cron
	spec     string
	reloader *Reloader
	logger   *zap.Logger
}

func NewRefresher(spec string, reloader *Reloader, logger *zap.Logger) *Refresher {
	return &Refresher{
		cron:     cron.New(),
		spec:     spec,
		reloader: reloader,
		logger:   logger,
	}
}

func (r *Refresher) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.spec, func() {
		_ = r.reloader.Reload(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc(%q): %w", r.spec, err)
	}
	r.cron.Start()
	r.logger.Info("data refresher started", zap.String("spec", r.spec))
	return nil
}

// Stop waits for a running reload to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info("data refresher stopped")
}
