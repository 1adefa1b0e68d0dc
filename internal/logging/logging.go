// Package logging holds the root logger of the wavegraph commands.
package logging

import (
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// VerboseEnv names the environment variable read when no -v flag is given.
const VerboseEnv = "WAVEGRAPH_VERBOSE"

var root = New(os.Stderr)

// Log returns the root logger.
func Log() logr.Logger { return root }

// New returns a logger writing timestamped lines to w.
func New(w io.Writer) logr.Logger {
	return stdr.New(log.New(w, "wavegraph ", log.Ltime))
}

// Verbosity returns flag if it is set, else the level named by env.
// Anything that is not a non-negative integer counts as 0.
func Verbosity(flag int, env string) int {
	if flag != 0 {
		return flag
	}
	n, err := strconv.Atoi(strings.TrimSpace(env))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Init sets the global verbosity from the -v flag value and VerboseEnv.
func Init(flag int) int {
	v := Verbosity(flag, os.Getenv(VerboseEnv))
	stdr.SetVerbosity(v)
	return v
}

// Redirect sends the root logger to w, e.g. away from a terminal screen.
func Redirect(w io.Writer) { root = New(w) }
