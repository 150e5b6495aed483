// Package metrics exports toast scheduler activity to Prometheus.
package metrics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jmylchreest/toasty/internal/toast"
)

// Config configures the collectors.
type Config struct {
	Namespace string
	Registry  prometheus.Registerer
	Buckets   []float64
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metric namespace (default "toasty").
func WithNamespace(namespace string) Option {
	return func(c *Config) { c.Namespace = namespace }
}

// WithRegistry sets the registry collectors are registered with.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(c *Config) { c.Registry = reg }
}

// WithBuckets sets the buckets of the visible-time histogram.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) { c.Buckets = buckets }
}

// Metrics holds the collectors. Observe is registered as a center observer.
type Metrics struct {
	queued    prometheus.Counter
	shown     *prometheus.CounterVec
	completed *prometheus.CounterVec
	queueLen  prometheus.Gauge
	active    prometheus.Gauge
	visible   prometheus.Histogram
	flashOps  *prometheus.CounterVec

	mu        sync.Mutex
	activated map[string]time.Time
}

// New creates and registers the collectors.
func New(opts ...Option) *Metrics {
	cfg := Config{
		Namespace: "toasty",
		Registry:  prometheus.DefaultRegisterer,
		Buckets:   []float64{0.25, 0.5, 1, 1.5, 2, 3, 5, 10, 30},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(cfg.Registry)

	return &Metrics{
		queued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "toasts_queued_total",
			Help:      "Toasts that had to wait for the active slot",
		}),
		shown: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "toasts_shown_total",
			Help:      "Toasts activated, by category",
		}, []string{"category"}),
		completed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "toasts_completed_total",
			Help:      "Toasts that finished hiding, by category",
		}, []string{"category"}),
		queueLen: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "queue_length",
			Help:      "Toasts waiting behind the active one",
		}),
		active: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "active",
			Help:      "1 while a toast occupies the slot",
		}),
		visible: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "toast_visible_seconds",
			Help:      "Time from activation to the end of the exit transition",
			Buckets:   cfg.Buckets,
		}),
		flashOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "flash_operations_total",
			Help:      "Flash store operations by kind and result",
		}, []string{"op", "result"}),
		activated: make(map[string]time.Time),
	}
}

// Observe updates the collectors for one lifecycle event.
func (m *Metrics) Observe(ev toast.Event) {
	m.queueLen.Set(float64(ev.QueueLen))
	id := ev.Notification.ID()

	switch ev.Kind {
	case toast.EventQueued:
		m.queued.Inc()
	case toast.EventActivated:
		m.shown.WithLabelValues(label(ev.Notification.Category())).Inc()
		m.active.Set(1)
		m.mu.Lock()
		m.activated[id] = ev.At
		m.mu.Unlock()
	case toast.EventDone:
		m.completed.WithLabelValues(label(ev.Notification.Category())).Inc()
		m.active.Set(0)
		m.mu.Lock()
		start, ok := m.activated[id]
		delete(m.activated, id)
		m.mu.Unlock()
		if ok {
			m.visible.Observe(ev.At.Sub(start).Seconds())
		}
	}
}

// label bounds label cardinality: unknown categories share one series.
func label(c toast.Category) string {
	if c.Known() {
		return string(c)
	}
	return "other"
}

// InstrumentFlash wraps a flash store, counting its operations.
func (m *Metrics) InstrumentFlash(s toast.FlashStore) toast.FlashStore {
	return &instrumentedFlash{store: s, ops: m.flashOps}
}

type instrumentedFlash struct {
	store toast.FlashStore
	ops   *prometheus.CounterVec
}

func (f *instrumentedFlash) Put(ctx context.Context, key string, e toast.FlashEntry) error {
	err := f.store.Put(ctx, key, e)
	f.ops.WithLabelValues("put", result(err, true)).Inc()
	return err
}

func (f *instrumentedFlash) Take(ctx context.Context, key string) (toast.FlashEntry, bool, error) {
	e, ok, err := f.store.Take(ctx, key)
	f.ops.WithLabelValues("take", result(err, ok)).Inc()
	return e, ok, err
}

func result(err error, found bool) string {
	switch {
	case err != nil:
		return "error"
	case !found:
		return "miss"
	default:
		return "ok"
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
