package logger

import (
	"go.uber.org/zap"
)

// New creates the logger by the config
func New(cfg Config) (*zap.Logger, error) {

	zapCfg, err := cfg.toZapConfig()
	if err != nil {
		return nil, err
	}

	return zapCfg.Build()
}
