package qosmetrics

import (
	"time"

	"github.com/dialogs/dialog-io-service/metric"
	pkgerr "github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	RequestsTotalName   = "io_requests_total"
	RequestDurationName = "io_request_duration_seconds"

	LabelMethod = "method"
)

// LatencyBuckets are the upper bounds (seconds) of the latency histogram
var LatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

type IRequestMetric interface {
	IncRequest(methodName string)
	ObserveLatency(methodName string, start time.Time)
}

// RequestMetrics counts requests and their latency per rpc method
type RequestMetrics struct {
	requestCount *prometheus.CounterVec
	latencyHisto *prometheus.HistogramVec
}

// New registers the request metrics in reg and creates series for methods
// with zero values
func New(reg prometheus.Registerer, methods ...string) (*RequestMetrics, error) {

	requestCount := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: RequestsTotalName,
		Help: "Total number of RPC requests",
	}, []string{LabelMethod})

	latencyHisto := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    RequestDurationName,
			Help:    "Duration of RPC requests in seconds",
			Buckets: LatencyBuckets,
		},
		[]string{LabelMethod})

	m := &RequestMetrics{}

	if c, err := register(reg, requestCount); err != nil {
		return nil, err
	} else if m.requestCount, err = asCounterVec(c); err != nil {
		return nil, err
	}

	if c, err := register(reg, latencyHisto); err != nil {
		return nil, err
	} else if m.latencyHisto, err = asHistogramVec(c); err != nil {
		return nil, err
	}

	for _, name := range methods {
		m.requestCount.WithLabelValues(name)
		m.latencyHisto.WithLabelValues(name)
	}

	return m, nil
}

func (m *RequestMetrics) IncRequest(methodName string) {
	m.Counter(methodName).Inc()
}

func (m *RequestMetrics) ObserveLatency(methodName string, start time.Time) {
	m.Observer(methodName).Observe(time.Since(start).Seconds())
}

// Counter returns the request counter of the method
func (m *RequestMetrics) Counter(methodName string) metric.ICounter {
	return m.requestCount.WithLabelValues(methodName)
}

// Observer returns the latency histogram of the method
func (m *RequestMetrics) Observer(methodName string) metric.IObserver {
	return m.latencyHisto.WithLabelValues(methodName)
}

// register returns the collector already registered under the same
// descriptor if there is one
func register(reg prometheus.Registerer, c prometheus.Collector) (prometheus.Collector, error) {

	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
		return are.ExistingCollector, nil
	}

	return nil, pkgerr.Wrap(err, "register metric")
}

func asCounterVec(c prometheus.Collector) (*prometheus.CounterVec, error) {
	if v, ok := c.(*prometheus.CounterVec); ok {
		return v, nil
	}
	return nil, pkgerr.Errorf("collector %T is not a counter vector", c)
}

func asHistogramVec(c prometheus.Collector) (*prometheus.HistogramVec, error) {
	if v, ok := c.(*prometheus.HistogramVec); ok {
		return v, nil
	}
	return nil, pkgerr.Errorf("collector %T is not a histogram vector", c)
}
