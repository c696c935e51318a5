// Package obs holds the editor's ambient observability: a file-backed
// logger (stdout/stderr belong to the terminal UI, never to us) and a
// panic recovery helper that turns internal invariant violations into a
// crash report instead of a silently corrupted screen.
package obs

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"

	goerrors "github.com/go-errors/errors"
)

var logger = log.New(os.Stderr, "", log.LstdFlags)

// Init redirects the package logger to a file under dir, creating dir if
// needed. Once a log file is opened, logging never touches
// stdout/stderr, since those are the terminal surface the editor
// renders into. An empty dir returns nil and leaves the logger on
// stderr.
func Init(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return goerrors.Wrap(err, 0)
	}
	f, err := os.OpenFile(filepath.Join(dir, "lite-edit.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return goerrors.Wrap(err, 0)
	}
	logger = log.New(f, "", log.LstdFlags|log.Lmicroseconds)
	return nil
}

// Logf writes a formatted line to the log.
func Logf(format string, args ...interface{}) {
	logger.Printf(format, args...)
}

// Invariant panics with a stack-carrying error. Only internal invariant
// violations (line-index drift, pane-tree corruption) should reach this;
// user-triggerable conditions are errors, not panics.
func Invariant(format string, args ...interface{}) {
	panic(goerrors.New(fmt.Sprintf(format, args...)))
}

// RecoverCrash is deferred at the top of the main loop. It logs the
// stack-carrying error (if the panic came from goerrors.New/Wrap) or the
// raw panic value otherwise, then re-panics so the process still exits
// non-zero under a supervisor.
func RecoverCrash() {
	if r := recover(); r != nil {
		if e, ok := r.(*goerrors.Error); ok {
			Logf("PANIC: %s\n%s", e.Error(), e.Stack())
		} else {
			Logf("PANIC: %v\n%s", r, debug.Stack())
		}
		panic(r)
	}
}
