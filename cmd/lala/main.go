// Package main is the entry point for lala, a line-oriented text editor.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/lala/internal/app"
	"github.com/dshills/lala/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

type flags struct {
	configPath string
	logLevel   string
	maxUndo    int
	file       string
}

func main() {
	os.Exit(run())
}

func run() int {
	f := parseFlags()

	cfg, err := config.Load(f.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if f.logLevel != "" {
		cfg.Logging.Level = f.logLevel
	}
	if f.maxUndo != 0 {
		cfg.Editor.MaxUndoEntries = f.maxUndo
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	application, err := app.New(app.Options{Config: cfg})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if f.file != "" {
		if _, err := application.OpenFile(ctx, f.file); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	s := &session{app: application, out: os.Stdout}
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if err := s.loop(ctx, os.Stdin, os.Stderr, interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loop executes commands read from in until quit, end of input or
// cancellation. Command errors are reported to errOut and do not end the
// loop unless input is not interactive.
func (s *session) loop(ctx context.Context, in io.Reader, errOut io.Writer, interactive bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				readErr <- nil
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		if interactive {
			fmt.Fprint(s.out, "> ")
		}
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-readErr
			}
			err := s.execute(ctx, line)
			switch {
			case errors.Is(err, errQuit):
				return nil
			case err != nil && interactive:
				fmt.Fprintf(errOut, "error: %v\n", err)
			case err != nil:
				return err
			}
		}
	}
}

func parseFlags() flags {
	var f flags
	var showVersion bool

	flag.StringVar(&f.configPath, "config", "", "Path to configuration file (.toml or .yaml)")
	flag.StringVar(&f.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.IntVar(&f.maxUndo, "max-undo", 0, "Maximum number of undoable edits")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "lala - line-oriented text editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: lala [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands are read from standard input, one per line. Type help for a list.\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("lala %s (%s)\n", version, commit)
		os.Exit(0)
	}
	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}
	f.file = flag.Arg(0)
	return f
}
