package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dshills/lala/internal/engine"
	"github.com/dshills/lala/internal/vfs"
)

func appendText(t *testing.T, doc *Document, s string) {
	t.Helper()
	err := doc.Do(func(e *engine.Editor) error {
		e.SetCursorPosition(e.LenChars())
		e.InsertText(s)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestAutosaver_SaveAll(t *testing.T) {
	dm, mem := newTestManager(t)
	ctx := context.Background()
	a, _ := dm.Open(ctx, "/work/a.txt")
	b, _ := dm.Open(ctx, "/work/b.txt")
	untitled := dm.Create("")

	appendText(t, a, "!")
	appendText(t, untitled, "scratch")

	saver := NewAutosaver(dm, time.Minute, nil)
	n, err := saver.SaveAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("saved %d documents, expected 1", n)
	}

	data, _ := mem.ReadFile("/work/a.txt")
	if string(data) != "alpha\n!" {
		t.Errorf("a.txt = %q", data)
	}
	if a.IsModified() || b.IsModified() {
		t.Error("saved documents should be clean")
	}
	if !untitled.IsModified() {
		t.Error("untitled documents are never autosaved")
	}
}

func TestAutosaver_SkipsChangedOnDisk(t *testing.T) {
	dm, mem := newTestManager(t)
	ctx := context.Background()
	a, _ := dm.Open(ctx, "/work/a.txt")
	appendText(t, a, "mine")

	time.Sleep(2 * time.Millisecond)
	if err := mem.WriteFile("/work/a.txt", []byte("theirs"), vfs.DefaultFileMode); err != nil {
		t.Fatal(err)
	}
	a.checkDisk()

	n, err := NewAutosaver(dm, time.Minute, NullLogger()).SaveAll(ctx)
	if err != nil || n != 0 {
		t.Fatalf("SaveAll() = %d, %v", n, err)
	}
	data, _ := mem.ReadFile("/work/a.txt")
	if string(data) != "theirs" {
		t.Errorf("external content was overwritten: %q", data)
	}
	if !a.IsModified() {
		t.Error("skipped document should stay modified")
	}
}

// readOnlyFS refuses to create files under a prefix.
type readOnlyFS struct {
	*vfs.MemFS
	prefix string
}

var errReadOnly = errors.New("read-only")

func (r readOnlyFS) Create(path string) (io.WriteCloser, error) {
	if strings.HasPrefix(path, r.prefix) {
		return nil, errReadOnly
	}
	return r.MemFS.Create(path)
}

func TestAutosaver_ReportsErrors(t *testing.T) {
	mem := vfs.NewMemFS()
	_ = mem.MkdirAll("/ro")
	_ = mem.AddFile("/ro/c.txt", "c")
	_ = mem.AddFile("/d.txt", "d")
	dm := NewDocumentManager(readOnlyFS{MemFS: mem, prefix: "/ro/"})
	ctx := context.Background()

	c, _ := dm.Open(ctx, "/ro/c.txt")
	d, _ := dm.Open(ctx, "/d.txt")
	appendText(t, c, "1")
	appendText(t, d, "2")

	n, err := NewAutosaver(dm, time.Minute, nil).SaveAll(ctx)
	if n != 1 {
		t.Errorf("saved %d documents, expected 1", n)
	}
	if !errors.Is(err, errReadOnly) {
		t.Errorf("err = %v", err)
	}
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Op != "save" || opErr.Target != "/ro/c.txt" {
		t.Errorf("err = %v", err)
	}
	if !c.IsModified() || d.IsModified() {
		t.Error("only the failed document should stay modified")
	}
}

func TestAutosaver_RunStopsOnCancel(t *testing.T) {
	dm, mem := newTestManager(t)
	a, _ := dm.Open(context.Background(), "/work/a.txt")
	appendText(t, a, "tick")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewAutosaver(dm, 5*time.Millisecond, nil).Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for a.IsModified() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	data, _ := mem.ReadFile("/work/a.txt")
	if string(data) != "alpha\ntick" {
		t.Errorf("a.txt = %q", data)
	}
}
