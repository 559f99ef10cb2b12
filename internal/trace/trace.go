// Package trace is the allocator's optional debug sink.
//
// Tracing is off unless the MEMORY_DEBUG environment variable holds the literal
// value "yes"; the variable is read once, lazily, under the trace mutex. Output
// goes to standard error as zerolog lines. Emission uses a non-blocking
// try-acquire plus an in-progress flag, so a trace call arriving while another
// is being written returns silently instead of recursing or blocking. Callers
// must not hold the memory mutex when tracing.
package trace

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

const envVar = "MEMORY_DEBUG"

var (
	mu          sync.Mutex
	running     bool
	initialized bool
	enabled     bool
	logger      zerolog.Logger
)

func initLocked() {
	if initialized {
		return
	}
	enabled = os.Getenv(envVar) == "yes"
	if enabled {
		logger = zerolog.New(os.Stderr).With().Timestamp().Str("component", "memkit").Logger()
	}
	initialized = true
}

// Enabled reports whether tracing is on. It returns false while another trace
// call is in flight, so data paths can skip snapshot work entirely.
func Enabled() bool {
	if !mu.TryLock() {
		return false
	}
	defer mu.Unlock()
	if running {
		return false
	}
	initLocked()
	return enabled
}

// Logf emits one formatted trace line. Silent when tracing is disabled, when
// the sink is busy, or when the call would reenter the sink.
func Logf(format string, args ...any) {
	if !mu.TryLock() {
		return
	}
	defer mu.Unlock()
	if running {
		return
	}
	running = true
	defer func() { running = false }()
	initLocked()
	if !enabled {
		return
	}
	logger.Debug().Msgf(format, args...)
}

// reset clears the lazily initialized state. Test hook only.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	initialized = false
	enabled = false
	running = false
}
