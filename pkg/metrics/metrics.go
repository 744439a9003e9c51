// Package metrics exposes the lighting state to Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wamphlett/status-lights/pkg/controller"
	"github.com/wamphlett/status-lights/pkg/logging"
)

var logger = logging.New("metrics")

// Recorder keeps lighting metrics in its own registry
type Recorder struct {
	registry *prometheus.Registry

	events  *prometheus.CounterVec
	on      prometheus.Gauge
	channel *prometheus.GaugeVec
}

var _ controller.Publisher = (*Recorder)(nil)

// New returns a Recorder with every metric registered
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "status_lights_events_total",
			Help: "Lighting events by type",
		}, []string{"event"}),
		on: factory.NewGauge(prometheus.GaugeOpts{
			Name: "status_lights_on",
			Help: "1 when the lights are on",
		}),
		channel: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "status_lights_channel",
			Help: "Value of each channel of the remembered color",
		}, []string{"channel"}),
	}
}

// Publish records the event and the state that came with it
func (r *Recorder) Publish(event controller.Event, state controller.State) {
	r.events.WithLabelValues(string(event)).Inc()

	if state.On {
		r.on.Set(1)
	} else {
		r.on.Set(0)
	}

	c := state.Color
	r.channel.WithLabelValues("red").Set(float64(c.R))
	r.channel.WithLabelValues("green").Set(float64(c.G))
	r.channel.WithLabelValues("blue").Set(float64(c.B))
	r.channel.WithLabelValues("white").Set(float64(c.W))
	r.channel.WithLabelValues("brightness").Set(float64(c.Brightness))
}

// Handler serves the recorded metrics
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve hosts /metrics on addr until ctx is cancelled
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.With("addr", addr).Info("serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve metrics: %w", err)
	}
	return nil
}
