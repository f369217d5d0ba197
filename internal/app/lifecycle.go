package app

import (
	"context"
	"errors"

	"github.com/dshills/lala/internal/watcher"
)

// OpenFile opens a file, makes it the active document and starts
// watching it for external changes.
func (app *Application) OpenFile(ctx context.Context, path string) (*Document, error) {
	if err := app.checkOpen(); err != nil {
		return nil, err
	}
	doc, err := app.documents.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	app.log.WithComponent("documents").Info("opened %s", doc.Path())
	app.watch(doc.Path())
	return doc, nil
}

// NewDocument creates an untitled document and makes it active.
func (app *Application) NewDocument(text string) *Document {
	return app.documents.Create(text)
}

// SaveDocument saves the active document to its file.
func (app *Application) SaveDocument(ctx context.Context) error {
	if err := app.checkOpen(); err != nil {
		return err
	}
	doc := app.documents.Active()
	if doc == nil {
		return ErrNoActiveDocument
	}
	if err := <-doc.SaveAsync(ctx); err != nil {
		return err
	}
	app.log.WithComponent("documents").Debug("saved %s", doc.Path())
	return nil
}

// SaveDocumentAs saves the active document to path and moves the external
// change watch from its old file to the new one.
func (app *Application) SaveDocumentAs(ctx context.Context, path string) error {
	if err := app.checkOpen(); err != nil {
		return err
	}
	doc := app.documents.Active()
	if doc == nil {
		return ErrNoActiveDocument
	}

	absPath, err := app.fs.Abs(path)
	if err != nil {
		return NewOperationError("save", path, err)
	}

	oldPath := doc.Path()
	if err := doc.SaveAs(ctx, absPath); err != nil {
		return err
	}
	if oldPath != absPath {
		app.unwatch(oldPath)
		app.watch(absPath)
	}
	app.log.WithComponent("documents").Info("saved as %s", absPath)
	return nil
}

// CloseDocument closes doc. Returns an error matching ErrUnsavedChanges
// if doc has unsaved changes and force is false, and ErrNotRunning after
// Shutdown.
func (app *Application) CloseDocument(doc *Document, force bool) error {
	if err := app.checkOpen(); err != nil {
		return err
	}
	if doc == nil {
		return ErrNoActiveDocument
	}
	path := doc.Path()
	if err := app.documents.Close(doc.ID(), force); err != nil {
		return err
	}
	app.unwatch(path)
	return nil
}

// Quit checks that the application may exit. Returns an error matching
// ErrUnsavedChanges if any document is modified and force is false.
func (app *Application) Quit(force bool) error {
	if !force && app.documents.HasModified() {
		return ErrUnsavedChanges
	}
	return app.Shutdown()
}

func (app *Application) watch(path string) {
	if app.watcher == nil || path == "" {
		return
	}
	err := app.watcher.Watch(path)
	if err != nil && !errors.Is(err, watcher.ErrAlreadyWatching) {
		app.log.WithComponent("watcher").Warn("cannot watch %s: %v", path, err)
	}
}

// unwatch stops watching path unless another open document uses it.
func (app *Application) unwatch(path string) {
	if app.watcher == nil || path == "" || app.documents.FindByPath(path) != nil {
		return
	}
	if err := app.watcher.Unwatch(path); err != nil && !errors.Is(err, watcher.ErrNotWatching) {
		app.log.WithComponent("watcher").Warn("cannot unwatch %s: %v", path, err)
	}
}
