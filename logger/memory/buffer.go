package memory

import (
	"bytes"
	"sync"
)

// Buffer is a zap sink safe for reading while the logger writes
type Buffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func (s *Buffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *Buffer) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Read(p)
}

func (s *Buffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func (s *Buffer) Reset() {
	s.mu.Lock()
	s.buf.Reset()
	s.mu.Unlock()
}

func (s *Buffer) Close() error { return nil }
func (s *Buffer) Sync() error  { return nil }
