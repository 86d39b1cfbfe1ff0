// Package kvsoptions defines the configuration surface for a kvsd
// server instance, following the teacher corpus's functional-options
// pattern (OptionFunc, WithDefaultOptions, per-field With* setters).
package kvsoptions

import (
	"fmt"
	"strings"
)

// Engine names the storage backend kvsd should use. The values
// themselves come from the wire-level spec's lock-file vocabulary and
// are kept verbatim even though the Go "sled" backend is implemented
// with bbolt rather than the original sled database.
type Engine string

const (
	// EngineKVS selects the bespoke log-structured engine.
	EngineKVS Engine = "kvs"

	// EngineSled selects the B-tree engine.
	EngineSled Engine = "sled"
)

const (
	// DefaultAddr is the server and client's default listen/dial
	// address.
	DefaultAddr = "127.0.0.1:4000"

	// DefaultDataDir is the default directory a server opens its
	// engine against when none is given on the command line.
	DefaultDataDir = "."

	// DefaultCompactionThreshold is the number of stale bytes the
	// log-structured engine tolerates before compacting, per spec.
	DefaultCompactionThreshold uint64 = 1024 * 1024

	// MinCompactionThreshold is the smallest threshold WithCompactionThreshold accepts.
	MinCompactionThreshold uint64 = 4096

	// LockFileName is the name of the file recording which engine a
	// data directory was first opened with.
	LockFileName = ".kvs.lock"

	// LogFileName is the log-structured engine's on-disk log file.
	LogFileName = "kvs.db"

	// BoltFileName is the B-tree engine's on-disk database file.
	BoltFileName = "kvs.bolt"
)

// Options configures a kvsd server instance.
type Options struct {
	// DataDir is the directory the engine and lock file live under.
	DataDir string

	// Addr is the TCP address the server listens on.
	Addr string

	// Engine selects which storage backend to open.
	Engine Engine

	// CompactionThreshold is the number of dead bytes the
	// log-structured engine allows before running compaction.
	CompactionThreshold uint64
}

// OptionFunc mutates an Options in place.
type OptionFunc func(*Options)

// DefaultOptions returns the baseline configuration used when no
// OptionFuncs are supplied.
func DefaultOptions() Options {
	return Options{
		DataDir:             DefaultDataDir,
		Addr:                DefaultAddr,
		Engine:              EngineKVS,
		CompactionThreshold: DefaultCompactionThreshold,
	}
}

// WithDataDir overrides the data directory.
func WithDataDir(dir string) OptionFunc {
	return func(o *Options) {
		dir = strings.TrimSpace(dir)
		if dir != "" {
			o.DataDir = dir
		}
	}
}

// WithAddr overrides the listen/dial address.
func WithAddr(addr string) OptionFunc {
	return func(o *Options) {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			o.Addr = addr
		}
	}
}

// WithEngine overrides the storage backend.
func WithEngine(engine Engine) OptionFunc {
	return func(o *Options) {
		if engine == EngineKVS || engine == EngineSled {
			o.Engine = engine
		}
	}
}

// WithCompactionThreshold overrides the log-structured engine's
// compaction trigger, rejecting values small enough to make every
// write compact.
func WithCompactionThreshold(threshold uint64) OptionFunc {
	return func(o *Options) {
		if threshold >= MinCompactionThreshold {
			o.CompactionThreshold = threshold
		}
	}
}

// ParseEngine validates a CLI-supplied engine name.
func ParseEngine(name string) (Engine, error) {
	switch Engine(name) {
	case EngineKVS:
		return EngineKVS, nil
	case EngineSled:
		return EngineSled, nil
	default:
		return "", fmt.Errorf("unknown engine %q: must be %q or %q", name, EngineKVS, EngineSled)
	}
}

// FormatBytes renders a byte count in a human-readable unit, used in
// log lines and error messages.
func FormatBytes(bytes uint64) string {
	const unit = 1024
	units := []string{"B", "KB", "MB", "GB", "TB"}

	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	exp := 0
	value := float64(bytes)
	for value >= unit && exp < len(units)-1 {
		value /= unit
		exp++
	}
	return fmt.Sprintf("%.2f %s", value, units[exp])
}
