package multifile

import (
	"log/slog"
	"os"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/spf13/afero"
)

// Config contains configuration for a multi-file Reader.
type Config struct {
	// FS is the filesystem used for glob expansion.
	// OPTIONAL: Uses the OS filesystem if nil.
	FS afero.Fs

	// DisableExternalAccess rejects every file list request with
	// ErrPermission. Mirrors engine configurations that forbid table
	// functions from touching the filesystem.
	DisableExternalAccess bool

	// Allocator for Arrow memory management.
	// OPTIONAL: Uses memory.DefaultAllocator if nil.
	Allocator memory.Allocator

	// Logger for internal logging.
	// OPTIONAL: Uses slog.Default() if nil.
	// Note: If LogLevel is specified, a new logger will be created with that level.
	Logger *slog.Logger

	// LogLevel sets the logging level.
	// OPTIONAL: If nil, uses Info level.
	// If Logger is also provided, LogLevel is ignored (use pre-configured logger).
	LogLevel *slog.Level
}

// Reader binds multi-file scans: it expands file lists, constructs the global
// schema, prunes files, and creates per-file column mappings.
//
// A Reader is stateless apart from its configuration and is safe for
// concurrent use. The binding phase itself (BindOptions, PruneFileList) is
// meant to run once, single threaded, at query compile time; the resulting
// global schema and BindData are immutable and may be shared by any number of
// concurrent per-file tasks.
type Reader struct {
	fs     afero.Fs
	mem    memory.Allocator
	logger *slog.Logger

	disableExternalAccess bool
}

// NewReader creates a Reader from the given config, applying defaults for
// unset fields.
func NewReader(cfg Config) *Reader {
	fs := cfg.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}
	mem := cfg.Allocator
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	logger := cfg.Logger
	if logger == nil {
		if cfg.LogLevel != nil {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: *cfg.LogLevel}))
		} else {
			logger = slog.Default()
		}
	}
	return &Reader{
		fs:                    fs,
		mem:                   mem,
		logger:                logger,
		disableExternalAccess: cfg.DisableExternalAccess,
	}
}

// Allocator returns the Arrow allocator the reader was configured with.
func (r *Reader) Allocator() memory.Allocator { return r.mem }
