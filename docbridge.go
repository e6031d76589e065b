package docbridge

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/docbridge/internal/platform"
	"github.com/aretw0/docbridge/pkg/capi"
	"github.com/aretw0/docbridge/pkg/core"
	"github.com/aretw0/docbridge/pkg/managed"
)

// --- Types ---

// Runtime bundles the shared core with its manual and managed surfaces.
type Runtime = platform.Runtime

// Doc is a managed, reference-counted document wrapper.
type Doc = managed.Doc

// Status is the result code of the manual surface.
type Status = capi.Status

// --- Configuration ---

// Option defines a functional option for configuring docbridge.
type Option = platform.Option

// WithLogger sets the logger for the core and both surfaces.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithEngine allows injecting a custom document engine.
func WithEngine(engine core.Engine) Option {
	return platform.WithEngine(engine)
}

// WithMetrics registers the bridge collectors on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return platform.WithMetrics(reg)
}

// WithAllocator sets the allocator for buffers handed out by the manual surface.
func WithAllocator(alloc capi.Allocator) Option {
	return platform.WithAllocator(alloc)
}

// --- Factory ---

// New creates a Runtime.
func New(opts ...Option) *Runtime {
	return platform.New(opts...)
}

// NewDoc is a shortcut for a single managed document on a fresh Runtime.
func NewDoc(opts ...Option) *Doc {
	return platform.New(opts...).Managed.NewDoc()
}

// --- Utils ---

// FindRoot looks upwards for a .docbridge directory or docbridge.yaml file.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
