package app

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/lala/internal/engine"
	"github.com/dshills/lala/internal/engine/buffer"
	"github.com/dshills/lala/internal/vfs"
)

// UntitledName is the display name of a document without a file.
const UntitledName = "Untitled"

// Document is an open editor shared between the user interface and
// background work such as autosave. Every access to the editor goes
// through the document's mutex.
type Document struct {
	id uuid.UUID
	fs vfs.VFS

	mu     sync.Mutex
	editor *engine.Editor
	// diskModTime is the file's modification time as of our last load or
	// save. Guarded by mu.
	diskModTime time.Time

	changedOnDisk atomic.Bool
}

func newDocument(editor *engine.Editor, fsys vfs.VFS) *Document {
	d := &Document{
		id:     uuid.New(),
		fs:     fsys,
		editor: editor,
	}
	d.recordDiskStateLocked()
	return d
}

// ID returns the document's unique identifier.
func (d *Document) ID() uuid.UUID {
	return d.id
}

// Do runs fn with exclusive access to the editor and returns its error.
// fn must not retain the editor.
func (d *Document) Do(fn func(e *engine.Editor) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn(d.editor)
}

// View runs fn with exclusive access to the editor for reading.
func (d *Document) View(fn func(e *engine.Editor)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.editor)
}

// Path returns the document's file path, or "" for an untitled document.
func (d *Document) Path() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.editor.FilePath()
}

// Name returns the display name: the file's base name or UntitledName.
func (d *Document) Name() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if name := d.editor.FileName(); name != "" {
		return name
	}
	return UntitledName
}

// IsModified returns true if the document has unsaved changes.
func (d *Document) IsModified() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.editor.IsModified()
}

// Snapshot returns an immutable view of the content.
func (d *Document) Snapshot() *buffer.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.editor.Snapshot()
}

// ChangedOnDisk reports whether another program modified or removed the
// file since the document last loaded or saved it.
func (d *Document) ChangedOnDisk() bool {
	return d.changedOnDisk.Load()
}

// Save writes the document to its file.
func (d *Document) Save(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.editor.Save(ctx); err != nil {
		return NewOperationError("save", d.editor.FilePath(), err)
	}
	d.recordDiskStateLocked()
	return nil
}

// SaveAs writes the document to path and makes path its file.
func (d *Document) SaveAs(ctx context.Context, path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.editor.SaveAs(ctx, path); err != nil {
		return NewOperationError("save", path, err)
	}
	d.recordDiskStateLocked()
	return nil
}

// SaveAsync saves the document on a new goroutine. The returned channel
// yields the result of the save exactly once and is then closed.
func (d *Document) SaveAsync(ctx context.Context) <-chan error {
	result := make(chan error, 1)
	go func() {
		defer close(result)
		result <- d.Save(ctx)
	}()
	return result
}

// Reload replaces the content with the file's, discarding unsaved
// changes and the undo history.
func (d *Document) Reload(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	path := d.editor.FilePath()
	if path == "" {
		return NewOperationError("reload", "", engine.ErrNoFilePath)
	}
	if err := d.editor.LoadFile(ctx, path); err != nil {
		return NewOperationError("reload", path, err)
	}
	d.recordDiskStateLocked()
	return nil
}

// checkDisk compares the file with the state recorded at the last load
// or save and flags the document when they differ. It returns true if the
// document is now flagged.
func (d *Document) checkDisk() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	path := d.editor.FilePath()
	if path == "" {
		return false
	}

	info, err := d.fs.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		d.changedOnDisk.Store(true)
	case err != nil:
		return d.changedOnDisk.Load()
	case !info.ModTime().Equal(d.diskModTime):
		d.changedOnDisk.Store(true)
	}
	return d.changedOnDisk.Load()
}

func (d *Document) recordDiskStateLocked() {
	d.changedOnDisk.Store(false)
	d.diskModTime = time.Time{}

	path := d.editor.FilePath()
	if path == "" {
		return
	}
	if info, err := d.fs.Stat(path); err == nil {
		d.diskModTime = info.ModTime()
	}
}

// DocumentManager tracks open documents and which one is active.
type DocumentManager struct {
	fs         vfs.VFS
	editorOpts []engine.Option

	mu        sync.RWMutex
	documents map[uuid.UUID]*Document
	order     []uuid.UUID // open order
	active    *Document
}

// NewDocumentManager creates a document manager whose documents use fsys
// and are created with editorOpts.
func NewDocumentManager(fsys vfs.VFS, editorOpts ...engine.Option) *DocumentManager {
	opts := make([]engine.Option, 0, len(editorOpts)+1)
	opts = append(opts, engine.WithFS(fsys))
	opts = append(opts, editorOpts...)

	return &DocumentManager{
		fs:         fsys,
		editorOpts: opts,
		documents:  make(map[uuid.UUID]*Document),
	}
}

// Create adds an untitled document holding text and makes it active.
func (dm *DocumentManager) Create(text string) *Document {
	opts := append(dm.editorOpts[:len(dm.editorOpts):len(dm.editorOpts)], engine.WithText(text))
	doc := newDocument(engine.New(opts...), dm.fs)

	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.addLocked(doc)
	return doc
}

// Open opens the file at path and makes it active. If the file is
// already open, the existing document is activated instead.
func (dm *DocumentManager) Open(ctx context.Context, path string) (*Document, error) {
	absPath, err := dm.fs.Abs(path)
	if err != nil {
		return nil, NewOperationError("open", path, err)
	}

	if doc := dm.FindByPath(absPath); doc != nil {
		dm.SetActive(doc)
		return doc, nil
	}

	editor, err := engine.Load(ctx, absPath, dm.editorOpts...)
	if err != nil {
		return nil, NewOperationError("open", absPath, err)
	}
	doc := newDocument(editor, dm.fs)

	dm.mu.Lock()
	defer dm.mu.Unlock()

	// Another caller may have opened the same file while we were loading.
	for _, id := range dm.order {
		if existing := dm.documents[id]; existing.Path() == absPath {
			dm.active = existing
			return existing, nil
		}
	}
	dm.addLocked(doc)
	return doc, nil
}

func (dm *DocumentManager) addLocked(doc *Document) {
	dm.documents[doc.id] = doc
	dm.order = append(dm.order, doc.id)
	dm.active = doc
}

// Close removes a document. A modified document is only closed when force
// is set; otherwise ErrUnsavedChanges is returned.
func (dm *DocumentManager) Close(id uuid.UUID, force bool) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, exists := dm.documents[id]
	if !exists {
		return ErrDocumentNotFound
	}
	if !force && doc.IsModified() {
		return NewOperationError("close", doc.Name(), ErrUnsavedChanges)
	}

	delete(dm.documents, id)
	for i, oid := range dm.order {
		if oid == id {
			dm.order = append(dm.order[:i], dm.order[i+1:]...)
			break
		}
	}

	if dm.active == doc {
		dm.active = nil
		if len(dm.order) > 0 {
			dm.active = dm.documents[dm.order[len(dm.order)-1]]
		}
	}
	return nil
}

// Get returns a document by ID.
func (dm *DocumentManager) Get(id uuid.UUID) (*Document, bool) {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	doc, exists := dm.documents[id]
	return doc, exists
}

// FindByPath returns the open document for the absolute path, or nil.
func (dm *DocumentManager) FindByPath(absPath string) *Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	for _, id := range dm.order {
		if doc := dm.documents[id]; doc.Path() == absPath {
			return doc
		}
	}
	return nil
}

// Active returns the currently active document, or nil.
func (dm *DocumentManager) Active() *Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.active
}

// SetActive makes doc the active document.
func (dm *DocumentManager) SetActive(doc *Document) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.active = doc
}

// All returns all open documents in open order.
func (dm *DocumentManager) All() []*Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	docs := make([]*Document, 0, len(dm.order))
	for _, id := range dm.order {
		docs = append(docs, dm.documents[id])
	}
	return docs
}

// Count returns the number of open documents.
func (dm *DocumentManager) Count() int {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return len(dm.documents)
}

// Modified returns all documents with unsaved changes, in open order.
func (dm *DocumentManager) Modified() []*Document {
	var modified []*Document
	for _, doc := range dm.All() {
		if doc.IsModified() {
			modified = append(modified, doc)
		}
	}
	return modified
}

// HasModified returns true if any document has unsaved changes.
func (dm *DocumentManager) HasModified() bool {
	return len(dm.Modified()) > 0
}
