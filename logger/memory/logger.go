package memory

import (
	"net/url"
	"strconv"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sinkID atomic.Uint64

// New creates a logger writing to the returned buffer in addition to the
// outputs of cfg. A nil cfg means production JSON at debug level.
func New(cfg *zap.Config) (*zap.Logger, *Buffer, error) {

	scheme := "memory" + strconv.FormatUint(sinkID.Add(1), 10)

	buf := NewBuffer()
	err := zap.RegisterSink(scheme, func(*url.URL) (zap.Sink, error) {
		return buf, nil
	})
	if err != nil {
		return nil, nil, err
	}

	if cfg == nil {
		prodConfig := zap.NewProductionConfig()
		cfg = &prodConfig
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.OutputPaths = nil
	}
	cfg.OutputPaths = append(cfg.OutputPaths, scheme+"://")

	l, err := cfg.Build()
	return l, buf, err
}
