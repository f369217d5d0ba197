package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/lala/internal/app"
	"github.com/dshills/lala/internal/engine"
)

// errQuit is returned by execute when the session should end.
var errQuit = errors.New("quit")

// session interprets line-oriented editing commands against the active
// document of an application.
type session struct {
	app *app.Application
	out io.Writer
}

type command struct {
	usage string
	help  string
	run   func(s *session, ctx context.Context, args string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"insert":    {"insert TEXT", "insert text at the cursor (quote for escapes)", (*session).cmdInsert},
		"char":      {"char C", "insert one character at the cursor", (*session).cmdChar},
		"newline":   {"newline", "insert a line break at the cursor", (*session).cmdNewline},
		"at":        {"at IDX TEXT", "insert text at a character offset", (*session).cmdAt},
		"delete":    {"delete START END", "delete the characters in [START, END)", (*session).cmdDelete},
		"backspace": {"backspace", "delete the character before the cursor", (*session).cmdBackspace},
		"del":       {"del", "delete the character at the cursor", (*session).cmdDel},
		"undo":      {"undo", "undo the last edit", (*session).cmdUndo},
		"redo":      {"redo", "redo the last undone edit", (*session).cmdRedo},
		"goto":      {"goto POS", "move the cursor to a character offset", (*session).cmdGoto},
		"forward":   {"forward [N]", "move the cursor right", (*session).cmdForward},
		"back":      {"back [N]", "move the cursor left", (*session).cmdBack},
		"print":     {"print", "show the document with line numbers", (*session).cmdPrint},
		"line":      {"line N", "show one line", (*session).cmdLine},
		"status":    {"status", "show file, cursor and modification state", (*session).cmdStatus},
		"history":   {"history", "list undoable and redoable edits", (*session).cmdHistory},
		"save":      {"save [PATH]", "save the document, optionally to a new path", (*session).cmdSave},
		"reload":    {"reload", "discard changes and reread the file", (*session).cmdReload},
		"open":      {"open PATH", "open a file", (*session).cmdOpen},
		"quit":      {"quit[!]", "exit, refusing when there are unsaved changes unless forced", nil},
		"help":      {"help", "list commands", (*session).cmdHelp},
	}
}

// execute runs one command line. It returns errQuit when the session
// should end.
func (s *session) execute(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	name, args, _ := strings.Cut(line, " ")
	switch name {
	case "quit", "q":
		return s.quit(false)
	case "quit!", "q!":
		return s.quit(true)
	}

	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q (try help)", name)
	}
	return cmd.run(s, ctx, args)
}

func (s *session) quit(force bool) error {
	if err := s.app.Quit(force); err != nil {
		if errors.Is(err, app.ErrUnsavedChanges) {
			return errors.New("unsaved changes (save, or quit! to discard)")
		}
		return err
	}
	return errQuit
}

// document returns the active document, creating an untitled one when
// none is open.
func (s *session) document() *app.Document {
	if doc := s.app.Documents().Active(); doc != nil {
		return doc
	}
	return s.app.NewDocument("")
}

func (s *session) edit(fn func(e *engine.Editor) error) error {
	return s.document().Do(fn)
}

func (s *session) cmdInsert(_ context.Context, args string) error {
	text, err := parseText(args)
	if err != nil {
		return err
	}
	return s.edit(func(e *engine.Editor) error {
		e.InsertText(text)
		return nil
	})
}

func (s *session) cmdChar(_ context.Context, args string) error {
	text, err := parseText(args)
	if err != nil {
		return err
	}
	if utf8.RuneCountInString(text) != 1 {
		return fmt.Errorf("char takes exactly one character, got %q", text)
	}
	r, _ := utf8.DecodeRuneInString(text)
	return s.edit(func(e *engine.Editor) error {
		e.InsertChar(r)
		return nil
	})
}

func (s *session) cmdNewline(_ context.Context, _ string) error {
	return s.edit(func(e *engine.Editor) error {
		e.InsertChar('\n')
		return nil
	})
}

func (s *session) cmdAt(_ context.Context, args string) error {
	idxArg, rest, _ := strings.Cut(strings.TrimSpace(args), " ")
	idx, err := strconv.Atoi(idxArg)
	if err != nil {
		return fmt.Errorf("bad index %q", idxArg)
	}
	text, err := parseText(rest)
	if err != nil {
		return err
	}
	return s.edit(func(e *engine.Editor) error {
		return e.InsertAt(idx, text)
	})
}

func (s *session) cmdDelete(_ context.Context, args string) error {
	nums, err := parseInts(args, 2, 2)
	if err != nil {
		return err
	}
	return s.edit(func(e *engine.Editor) error {
		return e.DeleteRange(nums[0], nums[1])
	})
}

func (s *session) cmdBackspace(_ context.Context, _ string) error {
	return s.edit(func(e *engine.Editor) error {
		e.DeleteBeforeCursor()
		return nil
	})
}

func (s *session) cmdDel(_ context.Context, _ string) error {
	return s.edit(func(e *engine.Editor) error {
		e.DeleteAtCursor()
		return nil
	})
}

func (s *session) cmdUndo(_ context.Context, _ string) error {
	return s.edit(func(e *engine.Editor) error { return e.Undo() })
}

func (s *session) cmdRedo(_ context.Context, _ string) error {
	return s.edit(func(e *engine.Editor) error { return e.Redo() })
}

func (s *session) cmdGoto(_ context.Context, args string) error {
	nums, err := parseInts(args, 1, 1)
	if err != nil {
		return err
	}
	return s.edit(func(e *engine.Editor) error {
		e.SetCursorPosition(nums[0])
		return nil
	})
}

func (s *session) cmdForward(_ context.Context, args string) error {
	nums, err := parseInts(args, 0, 1)
	if err != nil {
		return err
	}
	n := 1
	if len(nums) == 1 {
		n = nums[0]
	}
	return s.edit(func(e *engine.Editor) error {
		e.MoveCursorForward(n)
		return nil
	})
}

func (s *session) cmdBack(_ context.Context, args string) error {
	nums, err := parseInts(args, 0, 1)
	if err != nil {
		return err
	}
	n := 1
	if len(nums) == 1 {
		n = nums[0]
	}
	return s.edit(func(e *engine.Editor) error {
		e.MoveCursorBackward(n)
		return nil
	})
}

func (s *session) cmdPrint(_ context.Context, _ string) error {
	s.document().View(func(e *engine.Editor) {
		for i := 0; i < e.LenLines(); i++ {
			fmt.Fprintf(s.out, "%4d  %s\n", i+1, e.LineText(i))
		}
	})
	return nil
}

func (s *session) cmdLine(_ context.Context, args string) error {
	nums, err := parseInts(args, 1, 1)
	if err != nil {
		return err
	}
	var lineErr error
	s.document().View(func(e *engine.Editor) {
		n := nums[0]
		if n < 1 || n > e.LenLines() {
			lineErr = fmt.Errorf("line %d out of range [1, %d]", n, e.LenLines())
			return
		}
		fmt.Fprintln(s.out, e.LineText(n - 1))
	})
	return lineErr
}

func (s *session) cmdStatus(_ context.Context, _ string) error {
	doc := s.document()
	name := doc.Name()
	doc.View(func(e *engine.Editor) {
		line, col := e.CursorLineColumn()
		display := runewidth.StringWidth(firstRunes(e.LineText(line), col))

		modified := ""
		if e.IsModified() {
			modified = " [modified]"
		}
		if doc.ChangedOnDisk() {
			modified += " [changed on disk]"
		}
		format := string(e.Encoding())
		if ext := e.FileExtension(); ext != "" {
			format += " " + ext
		}
		fmt.Fprintf(s.out, "%s%s  pos %d/%d  line %d col %d (display %d)  lines %d  %s %s\n",
			name, modified, e.CursorPosition(), e.LenChars(), line+1, col+1, display+1, e.LenLines(), e.LineEnding(), format)
	})
	return nil
}

func (s *session) cmdHistory(_ context.Context, _ string) error {
	s.document().View(func(e *engine.Editor) {
		undo := e.UndoInfo()
		redo := e.RedoInfo()
		if len(undo) == 0 && len(redo) == 0 {
			fmt.Fprintln(s.out, "no edits")
			return
		}
		for _, info := range undo {
			fmt.Fprintf(s.out, "  %s  %s\n", info.Timestamp.Format("15:04:05"), info.Description)
		}
		for _, info := range redo {
			fmt.Fprintf(s.out, "~ %s  %s\n", info.Timestamp.Format("15:04:05"), info.Description)
		}
	})
	return nil
}

func (s *session) cmdSave(ctx context.Context, args string) error {
	s.document()
	if path := strings.TrimSpace(args); path != "" {
		return s.app.SaveDocumentAs(ctx, path)
	}
	err := s.app.SaveDocument(ctx)
	if errors.Is(err, engine.ErrNoFilePath) {
		return errors.New("no file name (use save PATH)")
	}
	return err
}

func (s *session) cmdReload(ctx context.Context, _ string) error {
	return s.document().Reload(ctx)
}

func (s *session) cmdOpen(ctx context.Context, args string) error {
	path := strings.TrimSpace(args)
	if path == "" {
		return errors.New("open needs a path")
	}
	_, err := s.app.OpenFile(ctx, path)
	return err
}

func (s *session) cmdHelp(_ context.Context, _ string) error {
	names := make([]string, 0, len(commands))
	width := 0
	for name, cmd := range commands {
		names = append(names, name)
		width = max(width, len(cmd.usage))
	}
	slices.Sort(names)
	for _, name := range names {
		cmd := commands[name]
		fmt.Fprintf(s.out, "  %-*s  %s\n", width, cmd.usage, cmd.help)
	}
	return nil
}

// parseText returns args verbatim, or unquoted when it is a Go string
// literal so that escapes such as \n and \t can be typed.
func parseText(args string) (string, error) {
	trimmed := strings.TrimSpace(args)
	if strings.HasPrefix(trimmed, `"`) {
		text, err := strconv.Unquote(trimmed)
		if err != nil {
			return "", fmt.Errorf("bad quoted text: %w", err)
		}
		return text, nil
	}
	return args, nil
}

func parseInts(args string, minN, maxN int) ([]int, error) {
	fields := strings.Fields(args)
	if len(fields) < minN || len(fields) > maxN {
		if minN == maxN {
			return nil, fmt.Errorf("expected %d numbers, got %d", minN, len(fields))
		}
		return nil, fmt.Errorf("expected %d to %d numbers, got %d", minN, maxN, len(fields))
	}
	nums := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", f)
		}
		nums[i] = n
	}
	return nums, nil
}

func firstRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}
