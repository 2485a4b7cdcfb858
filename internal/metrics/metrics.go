package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "arena"

// Recorder holds the arena's Prometheus metrics. A nil Recorder records
// nothing, so callers never need to check whether metrics are enabled.
type Recorder struct {
	registry *prometheus.Registry

	players         prometheus.Gauge
	entities        prometheus.Gauge
	step            prometheus.Histogram
	stabs           prometheus.Counter
	kills           prometheus.Counter
	pickups         prometheus.Counter
	volatileDropped prometheus.Counter
	kicked          prometheus.Counter
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		players: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "players_connected",
			Help:      "Players with a live session.",
		}),
		entities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entities_in_play",
			Help:      "Dynamic entities in the world.",
		}),
		step: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Time spent in one physics step including collision handling.",
			Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		}),
		stabs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stabs_total",
			Help:      "Stabs that dealt damage.",
		}),
		kills: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kills_total",
			Help:      "Players killed by a stab.",
		}),
		pickups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pickups_total",
			Help:      "Loot items picked up.",
		}),
		volatileDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "volatile_frames_dropped_total",
			Help:      "State frames dropped because a connection was behind.",
		}),
		kicked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_kicked_total",
			Help:      "Sessions closed because their reliable queue overflowed.",
		}),
	}

	r.registry.MustRegister(
		r.players,
		r.entities,
		r.step,
		r.stabs,
		r.kills,
		r.pickups,
		r.volatileDropped,
		r.kicked,
	)
	return r
}

// Handler serves the recorder's metrics in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) SetPlayers(n int) {
	if r == nil {
		return
	}
	r.players.Set(float64(n))
}

func (r *Recorder) SetEntities(n int) {
	if r == nil {
		return
	}
	r.entities.Set(float64(n))
}

func (r *Recorder) ObserveStep(d time.Duration) {
	if r == nil {
		return
	}
	r.step.Observe(d.Seconds())
}

func (r *Recorder) Stab() {
	if r == nil {
		return
	}
	r.stabs.Inc()
}

func (r *Recorder) Kill() {
	if r == nil {
		return
	}
	r.kills.Inc()
}

func (r *Recorder) Pickup() {
	if r == nil {
		return
	}
	r.pickups.Inc()
}

func (r *Recorder) VolatileDropped() {
	if r == nil {
		return
	}
	r.volatileDropped.Inc()
}

func (r *Recorder) Kicked() {
	if r == nil {
		return
	}
	r.kicked.Inc()
}
