package logger

import (
	"os"

	pkgerr "github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config of the logger wrapper
type Config struct {
	Debug  bool     `json:"debug" mapstructure:"debug"`
	Level  string   `json:"level" mapstructure:"level"`
	Output []string `json:"output" mapstructure:"output"`
}

func (c Config) toZapConfig() (*zap.Config, error) {

	var zapCfg zap.Config
	if c.Debug {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if len(c.Output) > 0 {
		for _, path := range c.Output {
			if path != "stdout" && path != "stderr" {
				if _, err := os.Stat(path); err != nil {
					return nil, pkgerr.Wrap(err, "logger output path")
				}
			}
			zapCfg.OutputPaths = append(zapCfg.OutputPaths, path)
		}
	}

	level, err := c.getZapLevel()
	if err != nil {
		return nil, err
	}
	zapCfg.Level = level

	return &zapCfg, nil
}

// getZapLevel returns info level for an empty level name
func (c Config) getZapLevel() (zap.AtomicLevel, error) {

	if c.Level == "" {
		return zap.NewAtomicLevelAt(zapcore.InfoLevel), nil
	}

	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return zap.AtomicLevel{}, pkgerr.Wrap(err, "logger level (debug, info, warn, error, dpanic, panic, fatal)")
	}

	return zap.NewAtomicLevelAt(level), nil
}
