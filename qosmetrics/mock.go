package qosmetrics

import (
	"sync"
	"time"

	"github.com/dialogs/dialog-io-service/metric/mock"
)

type MockMetric struct {
	mu        sync.Mutex
	counters  map[string]*mock.Counter
	observers map[string]*mock.Observer
}

func NewMockMetric() *MockMetric {
	return &MockMetric{
		counters:  make(map[string]*mock.Counter),
		observers: make(map[string]*mock.Observer),
	}
}

func (s *MockMetric) IncRequest(methodName string) {
	s.Counter(methodName).Inc()
}

func (s *MockMetric) ObserveLatency(methodName string, start time.Time) {
	s.Observer(methodName).Observe(time.Since(start).Seconds())
}

// Counter returns the request counter of the method
func (s *MockMetric) Counter(methodName string) *mock.Counter {

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.counters[methodName]
	if !ok {
		c = mock.NewCounter()
		s.counters[methodName] = c
	}

	return c
}

// Observer returns the latency observer of the method
func (s *MockMetric) Observer(methodName string) *mock.Observer {

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.observers[methodName]
	if !ok {
		o = mock.NewObserver()
		s.observers[methodName] = o
	}

	return o
}
