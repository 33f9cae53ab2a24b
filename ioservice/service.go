package ioservice

import (
	"context"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dialogs/dialog-io-service/logger"
	"github.com/dialogs/dialog-io-service/worker"
	"go.uber.org/zap"
)

const (
	PongPrefix = "pong:"

	// FileMode of the created files
	FileMode os.FileMode = 0644
)

// Service implements the io operations
type Service struct {
	fs   FileSystem
	pool *worker.Dispatcher
	log  *zap.Logger
}

// New creates the service. File operations are executed by pool.
func New(fs FileSystem, pool *worker.Dispatcher, log *zap.Logger) *Service {

	if fs == nil {
		fs = OSFileSystem{}
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		fs:   fs,
		pool: pool,
		log:  log,
	}
}

// Ping echoes the message with the pong prefix
func (s *Service) Ping(_ context.Context, message string) string {
	return PongPrefix + message
}

// ReadFile returns the file content as a text. Invalid UTF-8 sequences are
// replaced with U+FFFD.
func (s *Service) ReadFile(ctx context.Context, path string) (string, error) {

	var (
		data []byte
		err  error
	)

	if e := s.do(ctx, func() { data, err = s.fs.ReadFile(path) }); e != nil {
		return "", e
	}

	if err != nil {
		logger.FromContext(ctx, s.log).Debug("failed to read file", zap.String("path", path), zap.Error(err))
		return "", newIOFailure("read", path, err)
	}

	return decodeText(data), nil
}

// WriteFile creates or truncates the file and writes content to it
func (s *Service) WriteFile(ctx context.Context, path, content string) (bool, error) {

	var err error

	if e := s.do(ctx, func() { err = s.fs.WriteFile(path, []byte(content), FileMode) }); e != nil {
		return false, e
	}

	if err != nil {
		logger.FromContext(ctx, s.log).Debug("failed to write file", zap.String("path", path), zap.Error(err))
		return false, newIOFailure("write", path, err)
	}

	return true, nil
}

// do runs fn on the pool and waits for it. Without a pool fn runs in the
// caller goroutine. Errors are those of the pool, fn is not started then.
func (s *Service) do(ctx context.Context, fn func()) error {

	if s.pool == nil {
		fn()
		return nil
	}

	done := make(chan struct{})
	task := worker.TaskFunc(func() {
		defer close(done)
		fn()
	})

	if err := s.pool.Submit(ctx, task); err != nil {
		return err
	}

	<-done
	return nil
}

func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}
