package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Upstream counts and times calls made to the price API.
type Upstream struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewUpstream registers the upstream collectors. A nil registerer falls back
// to the default Prometheus registerer.
func NewUpstream(registerer prometheus.Registerer) *Upstream {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricewatch_upstream_calls_total",
		Help: "Calls to the price API partitioned by operation and outcome.",
	}, []string{"op", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricewatch_upstream_duration_seconds",
		Help:    "Latency of calls to the price API.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	registerer.MustRegister(calls, duration)
	return &Upstream{calls: calls, duration: duration}
}

// Call tracks a single upstream request.
type Call struct {
	upstream *Upstream
	op       string
	start    time.Time
}

// Track starts timing op. It is safe on a nil receiver.
func (u *Upstream) Track(op string) *Call {
	return &Call{upstream: u, op: op, start: time.Now()}
}

// End records the outcome and returns err untouched.
func (c *Call) End(err error) error {
	if c == nil || c.upstream == nil {
		return err
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	c.upstream.calls.WithLabelValues(c.op, outcome).Inc()
	c.upstream.duration.WithLabelValues(c.op).Observe(time.Since(c.start).Seconds())
	return err
}
