// ABOUTME: Process-wide error reporting and panic recovery for the CLI entry points.

package errorhandler

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/777genius/audiocycle/internal/logging"
)

type handler struct {
	logToConsole    bool
	exitOnCritical  bool
	recoveryEnabled bool
	console         io.Writer
	exit            func(int)
}

var (
	mu      sync.Mutex
	current = &handler{logToConsole: true, recoveryEnabled: true, console: os.Stderr, exit: os.Exit}
)

// Init configures the global error handler
func Init(logToConsole, exitOnCritical, recoveryEnabled bool) {
	mu.Lock()
	defer mu.Unlock()
	current = &handler{
		logToConsole:    logToConsole,
		exitOnCritical:  exitOnCritical,
		recoveryEnabled: recoveryEnabled,
		console:         os.Stderr,
		exit:            os.Exit,
	}
}

func get() *handler {
	mu.Lock()
	defer mu.Unlock()
	return current
}

// HandleError logs a non-fatal error with context
func HandleError(err error, context string) {
	if err == nil {
		return
	}
	logging.Warn("%s: %v", context, err)
}

// HandleCriticalError logs an error the current command cannot recover from
// and prints it for the user
func HandleCriticalError(err error, context string) {
	if err == nil {
		return
	}
	h := get()
	logging.Error("%s: %v", context, err)
	if h.logToConsole {
		fmt.Fprintf(h.console, "Error: %s: %v\n", context, err)
	}
	if h.exitOnCritical {
		h.exit(1)
	}
}

// HandlePanic recovers a panic in the calling goroutine. Must be deferred directly.
func HandlePanic() {
	h := get()
	if !h.recoveryEnabled {
		return
	}
	if r := recover(); r != nil {
		logging.Error("Panic recovered: %v\n%s", r, debug.Stack())
		if h.logToConsole {
			fmt.Fprintf(h.console, "Fatal: unexpected panic: %v\n", r)
		}
		if h.exitOnCritical {
			h.exit(2)
		}
	}
}
