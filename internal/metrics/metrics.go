package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	installs = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "phala",
			Subsystem: "simulator",
			Name:      "installs_total",
			Help:      "Number of completed simulator installations.",
		},
	)
	starts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "phala",
			Subsystem: "simulator",
			Name:      "starts_total",
			Help:      "Number of successful simulator launches.",
		},
	)
	stops = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "phala",
			Subsystem: "simulator",
			Name:      "stops_total",
			Help:      "Number of successful simulator stops.",
		},
	)
	probes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "phala",
			Subsystem: "simulator",
			Name:      "probes_total",
			Help:      "Liveness probe attempts by outcome.",
		}, []string{"result"},
	)
)

// Register registers all collectors with the provided registerer. It is
// safe to call multiple times; calls after the first success are no-ops,
// and AlreadyRegisteredError from a shared registry is ignored.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{installs, starts, stops, probes}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler exposes the default registry for scraping.
func Handler() http.Handler { return promhttp.Handler() }

func IncInstall() { installs.Inc() }
func IncStart()   { starts.Inc() }
func IncStop()    { stops.Inc() }

// ObserveProbe records one liveness probe outcome.
func ObserveProbe(alive bool) {
	result := "down"
	if alive {
		result = "up"
	}
	probes.WithLabelValues(result).Inc()
}
