package bridge

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/docbridge/pkg/core"
)

type metrics struct {
	handles   *prometheus.GaugeVec
	ops       *prometheus.CounterVec
	syncBytes *prometheus.CounterVec
}

// newMetrics registers the bridge collectors on reg. A nil reg gets a
// private registry so independent bridges never collide.
func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &metrics{
		handles: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "docbridge",
			Name:      "handles_live",
			Help:      "Live handles by kind.",
		}, []string{"kind"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docbridge",
			Name:      "operations_total",
			Help:      "Operations by name and result.",
		}, []string{"op", "result"}),
		syncBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docbridge",
			Name:      "sync_bytes_total",
			Help:      "Synchronization bytes moved by direction.",
		}, []string{"direction"}),
	}
	m.handles = register(reg, m.handles)
	m.ops = register(reg, m.ops)
	m.syncBytes = register(reg, m.syncBytes)
	return m
}

// register adds c to reg, reusing an identical collector that is already there.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic("bridge: metric registration failed: " + err.Error())
	}
	return c
}

func (m *metrics) observe(op string, err error) {
	result := "ok"
	if kind := core.Classify(err); kind != core.KindNone {
		result = string(kind)
	}
	m.ops.WithLabelValues(op, result).Inc()
}
