package platform

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/docbridge/pkg/capi"
	"github.com/aretw0/docbridge/pkg/core"
)

// options holds the internal configuration for a docbridge runtime.
type options struct {
	engine     core.Engine
	logger     *slog.Logger
	registerer prometheus.Registerer
	allocator  capi.Allocator
}

// Option defines a functional option for configuring docbridge.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{}
}

// WithLogger sets the logger shared by the core and both surfaces.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEngine replaces the document engine.
// Defaults to the bundled reference engine.
func WithEngine(engine core.Engine) Option {
	return func(o *options) {
		o.engine = engine
	}
}

// WithMetrics registers the bridge metrics on reg.
// Without it metrics go to a private registry.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithAllocator sets the allocator for buffers returned by the manual surface.
// Defaults to a tracking Go-heap allocator.
func WithAllocator(alloc capi.Allocator) Option {
	return func(o *options) {
		o.allocator = alloc
	}
}
