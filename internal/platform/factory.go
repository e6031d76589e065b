package platform

import (
	"github.com/aretw0/docbridge/pkg/bridge"
	"github.com/aretw0/docbridge/pkg/capi"
	"github.com/aretw0/docbridge/pkg/engine"
	"github.com/aretw0/docbridge/pkg/managed"
)

// Runtime bundles one shared core with both call surfaces over it.
type Runtime struct {
	Bridge  *bridge.Bridge
	Manual  *capi.Surface
	Managed *managed.Runtime
}

// New wires the bridge and its two adapters.
//
//	rt := platform.New(platform.WithLogger(logger))
//	h := rt.Manual.DocNew()
func New(opts ...Option) *Runtime {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.engine == nil {
		o.engine = engine.Engine()
	}

	b := bridge.New(bridge.Config{
		Engine:     o.engine,
		Logger:     o.logger,
		Registerer: o.registerer,
	})
	return &Runtime{
		Bridge:  b,
		Manual:  capi.New(b, o.allocator, o.logger),
		Managed: managed.NewRuntime(b, o.logger),
	}
}
