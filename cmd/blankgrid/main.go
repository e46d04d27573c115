// Command blankgrid is a fixed-grid scratch editor for the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/blankgrid/internal/app"
	"github.com/dshills/blankgrid/internal/config"
	"github.com/dshills/blankgrid/internal/logging"
	"github.com/dshills/blankgrid/internal/renderer/backend"
)

// Set with -ldflags at release time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const keyHelp = `
Keys:
  Ctrl-Q          quit
  Ctrl-Space      insert a space, pushing the line right
  Shift-Arrows    select a block (or drag with the mouse)
  Ctrl-X/C/V      cut, copy, paste
  Tab, Shift-Tab  indent, outdent

Directives, written anywhere in the text:
  r.schema dark|light|auto   r.font <name>   r.size <px>
`

// errExit stops the program after parseArgs has printed what was asked
// for.
var errExit = errors.New("exit")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseArgs(args, os.Stdout, os.Stderr)
	switch {
	case errors.Is(err, errExit):
		return 0
	case err != nil:
		fmt.Fprintf(os.Stderr, "blankgrid: %v\n", err)
		return 2
	}

	a, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "blankgrid: %v\n", err)
		return 1
	}
	defer a.Shutdown()

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "blankgrid: open terminal: %v\n", err)
		return 1
	}
	if err := a.SetBackend(term); err != nil {
		fmt.Fprintf(os.Stderr, "blankgrid: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		a.Shutdown()
	}()

	if err := a.Run(); err != nil && !errors.Is(err, app.ErrQuit) {
		fmt.Fprintf(os.Stderr, "blankgrid: %v\n", err)
		return 1
	}
	return 0
}

// parseArgs turns the command line into application options. It returns
// errExit once -help or -version has been answered.
func parseArgs(args []string, stdout, stderr io.Writer) (app.Options, error) {
	var (
		opts        app.Options
		showVersion bool
	)

	fs := flag.NewFlagSet("blankgrid", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.ConfigPath, "config", "", "settings file (default "+config.DefaultPath()+")")
	fs.StringVar(&opts.ConfigPath, "c", "", "shorthand for -config")
	fs.StringVar(&opts.DataDir, "data-dir", "", "directory holding the document and caret")
	fs.StringVar(&opts.LogLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&opts.LogFile, "log-file", "", "write logs to this file")
	fs.BoolVar(&showVersion, "version", false, "print the version")
	fs.BoolVar(&showVersion, "v", false, "shorthand for -version")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: blankgrid [options]")
		fs.PrintDefaults()
		fmt.Fprint(fs.Output(), keyHelp)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, errExit
		}
		return opts, err
	}

	if showVersion {
		fmt.Fprintf(stdout, "blankgrid %s (commit %s, built %s)\n", version, commit, date)
		return opts, errExit
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if opts.LogLevel != "" {
		if _, ok := logging.ParseLevel(opts.LogLevel); !ok {
			return opts, fmt.Errorf("invalid log level %q", opts.LogLevel)
		}
	}
	return opts, nil
}
