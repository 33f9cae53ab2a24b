package qosmetrics

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

var testMethods = []string{"Ping", "ReadFile", "WriteFile"}

func TestInterface(t *testing.T) {

	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	require.NotNil(t, (IRequestMetric)(m))
	require.NotNil(t, (IRequestMetric)(NewMockMetric()))
}

func TestNewCreatesDeclaredSeries(t *testing.T) {

	reg := prometheus.NewRegistry()

	m, err := New(reg, testMethods...)
	require.NoError(t, err)

	require.Equal(t, 3, testutil.CollectAndCount(m.requestCount, RequestsTotalName))
	require.Equal(t, 3, testutil.CollectAndCount(m.latencyHisto, RequestDurationName))

	for _, name := range testMethods {
		require.Equal(t, float64(0), testutil.ToFloat64(m.requestCount.WithLabelValues(name)))
	}
}

func TestIncRequest(t *testing.T) {

	m, err := New(prometheus.NewRegistry(), testMethods...)
	require.NoError(t, err)

	m.IncRequest("Ping")
	m.IncRequest("Ping")
	m.IncRequest("ReadFile")

	require.Equal(t, float64(2), testutil.ToFloat64(m.requestCount.WithLabelValues("Ping")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.requestCount.WithLabelValues("ReadFile")))
	require.Equal(t, float64(0), testutil.ToFloat64(m.requestCount.WithLabelValues("WriteFile")))
}

func TestObserveLatency(t *testing.T) {

	m, err := New(prometheus.NewRegistry(), testMethods...)
	require.NoError(t, err)

	// 30ms falls into every bucket from 0.05 upwards
	m.ObserveLatency("WriteFile", time.Now().Add(-30*time.Millisecond))

	expected := `
# HELP io_request_duration_seconds Duration of RPC requests in seconds
# TYPE io_request_duration_seconds histogram
io_request_duration_seconds_bucket{method="WriteFile",le="0.005"} 0
io_request_duration_seconds_bucket{method="WriteFile",le="0.01"} 0
io_request_duration_seconds_bucket{method="WriteFile",le="0.025"} 0
io_request_duration_seconds_bucket{method="WriteFile",le="0.05"} 1
io_request_duration_seconds_bucket{method="WriteFile",le="0.1"} 1
io_request_duration_seconds_bucket{method="WriteFile",le="0.25"} 1
io_request_duration_seconds_bucket{method="WriteFile",le="0.5"} 1
io_request_duration_seconds_bucket{method="WriteFile",le="1"} 1
io_request_duration_seconds_bucket{method="WriteFile",le="2.5"} 1
io_request_duration_seconds_bucket{method="WriteFile",le="5"} 1
io_request_duration_seconds_bucket{method="WriteFile",le="+Inf"} 1
`
	// only bucket lines are compared; the sum depends on the clock
	got := collectBuckets(t, m, "WriteFile")
	require.Equal(t, strings.TrimSpace(bucketLines(expected)), strings.TrimSpace(got))
}

func TestAlreadyRegistered(t *testing.T) {

	reg := prometheus.NewRegistry()

	m1, err := New(reg, testMethods...)
	require.NoError(t, err)

	m2, err := New(reg, testMethods...)
	require.NoError(t, err)

	m1.IncRequest("Ping")
	m2.IncRequest("Ping")

	require.Equal(t, float64(2), testutil.ToFloat64(m1.requestCount.WithLabelValues("Ping")))
}

func TestRegisterConflict(t *testing.T) {

	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: RequestsTotalName,
		Help: "other",
	}, []string{"path"}))

	m, err := New(reg)
	require.Error(t, err)
	require.Nil(t, m)
}

func TestConcurrentUpdates(t *testing.T) {

	const (
		CountThreads = 50
		CountCalls   = 200
	)

	m, err := New(prometheus.NewRegistry(), testMethods...)
	require.NoError(t, err)

	wg := sync.WaitGroup{}
	for i := 0; i < CountThreads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < CountCalls; j++ {
				start := time.Now()
				m.IncRequest("Ping")
				m.ObserveLatency("Ping", start)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, float64(CountThreads*CountCalls), testutil.ToFloat64(m.requestCount.WithLabelValues("Ping")))
	require.Equal(t, uint64(CountThreads*CountCalls), histogramCount(t, m, "Ping"))
}

func TestMockMetric(t *testing.T) {

	m := NewMockMetric()

	start := time.Now()
	m.IncRequest("Ping")
	m.IncRequest("Ping")
	m.ObserveLatency("Ping", start)

	require.Equal(t, uint64(2), m.Counter("Ping").Get())
	require.Equal(t, uint64(0), m.Counter("ReadFile").Get())
	require.Equal(t, 1, m.Observer("Ping").Count())
	require.Equal(t, 0, m.Observer("ReadFile").Count())
}

func TestMethodSeries(t *testing.T) {

	m, err := New(prometheus.NewRegistry(), testMethods...)
	require.NoError(t, err)

	m.Counter("ReadFile").Add(3)
	m.Counter("ReadFile").Inc()
	m.Observer("ReadFile").Observe(0.2)

	require.Equal(t, float64(4), testutil.ToFloat64(m.requestCount.WithLabelValues("ReadFile")))
	require.Equal(t, uint64(1), histogramCount(t, m, "ReadFile"))
	require.Panics(t, func() { m.Counter("ReadFile").Add(-1) })
}
