// Package app wires lala's components together: configuration, logging,
// open documents, external change detection and autosave.
package app

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dshills/lala/internal/config"
	"github.com/dshills/lala/internal/engine"
	"github.com/dshills/lala/internal/vfs"
	"github.com/dshills/lala/internal/watcher"
)

// Application is the central coordinator for lala's components.
type Application struct {
	config    *config.Config
	log       *Logger
	fs        vfs.VFS
	documents *DocumentManager

	// watcher is nil when watching is disabled or unavailable.
	watcher   *watcher.FileWatcher
	autosaver *Autosaver

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running atomic.Bool
	closed  atomic.Bool
}

// Options configures the application.
type Options struct {
	// Config is the effective configuration. When nil, it is loaded from
	// ConfigPath.
	Config *config.Config

	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// FS is the file system documents use. Defaults to the OS.
	FS vfs.VFS

	// Logger receives application logs. When nil, a logger writing to
	// stderr at the configured level is created.
	Logger *Logger
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(opts.ConfigPath); err != nil {
			return nil, NewOperationError("load config", opts.ConfigPath, err)
		}
	}

	log := opts.Logger
	if log == nil {
		lc := DefaultLoggerConfig()
		lc.Level = ParseLogLevel(cfg.Logging.Level)
		log = NewLogger(lc)
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = vfs.NewOSFS()
	}

	app := &Application{
		config: cfg,
		log:    log,
		fs:     fsys,
		documents: NewDocumentManager(fsys,
			engine.WithMaxUndoEntries(cfg.Editor.MaxUndoEntries),
		),
	}

	if cfg.Watch.Enabled {
		w, err := watcher.New(
			watcher.WithDebounce(cfg.Watch.Debounce.Std()),
			watcher.WithBufferSize(cfg.Watch.BufferSize),
		)
		if err != nil {
			// Non-fatal: documents still work, external changes go unnoticed.
			log.WithComponent("watcher").Warn("file watching unavailable: %v", err)
		} else {
			app.watcher = w
		}
	}
	if cfg.Autosave.Enabled {
		app.autosaver = NewAutosaver(app.documents, cfg.Autosave.Interval.Std(), log)
	}

	return app, nil
}

// Start launches background work: the watcher event loop and autosave.
// Background work stops when ctx is canceled or Shutdown is called.
// Returns ErrNotRunning after Shutdown.
func (app *Application) Start(ctx context.Context) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.closed.Load() {
		return ErrNotRunning
	}
	if app.running.Load() {
		return nil
	}
	ctx, app.cancel = context.WithCancel(ctx)
	app.running.Store(true)

	if app.watcher != nil {
		app.wg.Add(1)
		go func() {
			defer app.wg.Done()
			app.watchLoop(ctx)
		}()
	}
	if app.autosaver != nil {
		app.wg.Add(1)
		go func() {
			defer app.wg.Done()
			app.autosaver.Run(ctx)
		}()
	}

	app.log.Debug("started")
	return nil
}

// Shutdown stops background work and releases the watcher. Afterwards
// file operations return ErrNotRunning. Unsaved changes are not saved.
// Calling Shutdown again does nothing.
func (app *Application) Shutdown() error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.closed.Swap(true) {
		return nil
	}
	if app.cancel != nil {
		app.cancel()
	}
	app.wg.Wait()
	app.running.Store(false)

	var err error
	if app.watcher != nil {
		err = app.watcher.Close()
	}
	app.log.Debug("shut down")
	return err
}

// IsRunning reports whether background work is active.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// checkOpen returns ErrNotRunning once the application has shut down.
func (app *Application) checkOpen() error {
	if app.closed.Load() {
		return ErrNotRunning
	}
	return nil
}

// Config returns the effective configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Logger returns the application's logger.
func (app *Application) Logger() *Logger {
	return app.log
}

// Documents returns the document manager.
func (app *Application) Documents() *DocumentManager {
	return app.documents
}

// Autosaver returns the autosaver, or nil when autosave is disabled.
func (app *Application) Autosaver() *Autosaver {
	return app.autosaver
}

// watchLoop flags documents whose files other programs change.
func (app *Application) watchLoop(ctx context.Context) {
	log := app.log.WithComponent("watcher")
	var dropped int64
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-app.watcher.Events():
			if !ok {
				return
			}
			if n := app.watcher.Dropped(); n > dropped {
				log.Warn("%d change events dropped, raise watch.bufferSize", n-dropped)
				dropped = n
			}
			doc := app.documents.FindByPath(ev.Path)
			if doc == nil {
				continue
			}
			if doc.checkDisk() {
				log.Warn("%s changed on disk (%s)", ev.Path, ev.Op)
			}
		case err, ok := <-app.watcher.Errors():
			if !ok {
				return
			}
			log.Error("%v", err)
		}
	}
}
