// Package metrics exports container build and lifecycle activity as
// Prometheus metrics.
//
// A Collector implements nasc.Observer:
//
//	reg := prometheus.NewRegistry()
//	collector, err := metrics.NewCollector("app", reg)
//	c, err := nasc.Build(roots, nasc.WithObserver(collector))
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	nasc "github.com/toutaio/toutago-nasc-container"
)

// Collector holds the container metrics.
type Collector struct {
	ComponentsBuilt   *prometheus.CounterVec
	ComponentsAdvised *prometheus.CounterVec
	HookExecutions    *prometheus.CounterVec
	HookDuration      *prometheus.HistogramVec
}

var _ nasc.Observer = (*Collector)(nil)

// NewCollector creates the metrics under namespace and registers them with
// reg.
func NewCollector(namespace string, reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		ComponentsBuilt: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "nasc",
				Name:      "components_built_total",
				Help:      "Total number of components added to containers",
			},
			[]string{"local"},
		),
		ComponentsAdvised: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "nasc",
				Name:      "components_advised_total",
				Help:      "Total number of components replaced by an advised instance",
			},
			[]string{"handler"},
		),
		HookExecutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "nasc",
				Name:      "lifecycle_hooks_total",
				Help:      "Total number of lifecycle hook executions",
			},
			[]string{"phase", "status"},
		),
		HookDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "nasc",
				Name:      "lifecycle_hook_duration_seconds",
				Help:      "Lifecycle hook duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"phase"},
		),
	}

	for _, collector := range []prometheus.Collector{
		c.ComponentsBuilt,
		c.ComponentsAdvised,
		c.HookExecutions,
		c.HookDuration,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ComponentBuilt implements nasc.Observer.
func (c *Collector) ComponentBuilt(component *nasc.Component) {
	c.ComponentsBuilt.WithLabelValues(strconv.FormatBool(component.IsLocal())).Inc()
}

// ComponentAdvised implements nasc.Observer.
func (c *Collector) ComponentAdvised(_ *nasc.Component, handler *nasc.Component) {
	c.ComponentsAdvised.WithLabelValues(handler.Type().String()).Inc()
}

// HookExecuted implements nasc.Observer.
func (c *Collector) HookExecuted(phase nasc.Phase, _ *nasc.Component, elapsed time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.HookExecutions.WithLabelValues(phase.String(), status).Inc()
	c.HookDuration.WithLabelValues(phase.String()).Observe(elapsed.Seconds())
}
