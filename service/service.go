package service

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// service is the common part of the servable services: address, readiness
// and the close signal
type service struct {
	mu        sync.RWMutex
	addr      string
	log       *zap.Logger
	ready     atomic.Bool
	closeCh   chan struct{}
	closeOnce sync.Once
}

func newService() *service {
	return &service{
		log:     zap.NewNop(),
		closeCh: make(chan struct{}),
	}
}

// SetLogger sets the logger of the service
func (s *service) SetLogger(l *zap.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l == nil {
		l = zap.NewNop()
	}
	s.log = l
}

func (s *service) getLogger() *zap.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.log
}

// SetAddr sets the listen address
func (s *service) SetAddr(addr string) {
	s.mu.Lock()
	s.addr = addr
	s.mu.Unlock()
}

// GetAddr returns the listen address. After the start it is the address
// of the listener.
func (s *service) GetAddr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Ready returns true while the service accepts connections
func (s *service) Ready() bool {
	return s.ready.Load()
}

// Close stops the service
func (s *service) Close() error {
	s.closeOnce.Do(func() {
		close(s.closeCh)
	})
	return nil
}

// serve runs the service until run returns or Close is called.
// run must send exactly one value to retval.
func (s *service) serve(name, addr string, run func(retval chan<- error), stop func(*zap.Logger)) error {

	l := s.getLogger().With(
		zap.String("service", name),
		zap.String("addr", addr))

	retval := make(chan error, 1)

	s.ready.Store(true)
	defer s.ready.Store(false)

	l.Info("started")
	go run(retval)

	select {
	case err := <-retval:
		if err != nil {
			l.Error("stopped", zap.Error(err))
		}
		return err

	case <-s.closeCh:
		l.Info("stopping")
		stop(l)
		return <-retval
	}
}
