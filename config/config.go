package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/dialogs/dialog-io-service/logger"
	pkgerr "github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "IOSERVICE"

	// EnvConfigFile names the yaml file when no path is given
	EnvConfigFile     = "CONFIG_FILE"
	DefaultConfigFile = "config.yaml"

	DefaultPort        = 50051
	DefaultMetricsPort = 9100

	DefaultShutdownTimeout = 5 * time.Second
)

// Config keys
const (
	KeyPort              = "port"
	KeyMetricsPort       = "metrics_port"
	KeyNodePort          = "node.port"
	KeyNodeHost          = "node.host"
	KeyWorkerMetricsPort = "worker.metrics_port"
	KeyWorkerCount       = "worker.count"
	KeyShutdownTimeout   = "shutdown_timeout"
	KeyLogLevel          = "log.level"
	KeyLogDebug          = "log.debug"
	KeyLogOutput         = "log.output"
)

// Config of the io service
type Config struct {
	Port            int
	MetricsPort     int
	Workers         int
	ShutdownTimeout time.Duration
	Node            Node
	Logger          logger.Config
	// File is the used config file, empty if there was none
	File string
}

// Node is the address clients use to reach the service
type Node struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// New returns a config reading environment variables with the name prefix.
// Nested keys use '_' instead of '.': PREFIX_WORKER_COUNT is worker.count.
func New(prefix string) *viper.Viper {

	v := viper.New()
	v.SetEnvPrefix(strings.ToUpper(prefix))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the yaml file, the environment and applies defaults.
// A missing file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {

	setDefaults(v)

	// unprefixed variables of the deployment scripts
	if err := v.BindEnv(KeyPort, EnvPrefix+"_PORT", "PORT"); err != nil {
		return nil, err
	}
	if err := v.BindEnv(KeyMetricsPort, EnvPrefix+"_METRICS_PORT", "METRICS_PORT"); err != nil {
		return nil, err
	}

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path == "" {
		path = DefaultConfigFile
	}

	cfg := &Config{}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, pkgerr.Wrap(err, "failed to parse config "+path)
		}
	} else {
		cfg.File = v.ConfigFileUsed()
	}

	var err error

	if cfg.Port, err = getPort(v); err != nil {
		return nil, err
	}

	if cfg.MetricsPort, err = getMetricsPort(v); err != nil {
		return nil, err
	}

	if cfg.Workers, err = GetInt(v, KeyWorkerCount); err != nil {
		return nil, err
	}

	if cfg.ShutdownTimeout, err = GetDuration(v, KeyShutdownTimeout); err != nil {
		return nil, err
	}

	if err := v.UnmarshalKey("node", &cfg.Node); err != nil {
		return nil, pkgerr.Wrap(err, "node")
	}

	if cfg.Logger.Debug, err = GetBool(v, KeyLogDebug); err != nil {
		return nil, err
	}

	if cfg.Logger.Level, err = GetString(v, KeyLogLevel); err != nil {
		return nil, err
	}

	cfg.Logger.Output = v.GetStringSlice(KeyLogOutput)

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyNodeHost, "localhost")
	v.SetDefault(KeyWorkerMetricsPort, DefaultMetricsPort)
	v.SetDefault(KeyWorkerCount, 0)
	v.SetDefault(KeyShutdownTimeout, DefaultShutdownTimeout.String())
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogDebug, false)
}

// getPort: port -> node.port -> DefaultPort
func getPort(v *viper.Viper) (int, error) {

	for _, key := range []string{KeyPort, KeyNodePort} {
		port, err := GetInt(v, key)
		if err == nil {
			return checkPort(key, port)
		}

		if !errors.Is(err, ErrNotFound) {
			return 0, err
		}
	}

	return DefaultPort, nil
}

// getMetricsPort: metrics_port -> worker.metrics_port (has a default)
func getMetricsPort(v *viper.Viper) (int, error) {

	port, err := GetInt(v, KeyMetricsPort)
	if err == nil {
		return checkPort(KeyMetricsPort, port)
	}

	if !errors.Is(err, ErrNotFound) {
		return 0, err
	}

	port, err = GetInt(v, KeyWorkerMetricsPort)
	if err != nil {
		return 0, err
	}

	return checkPort(KeyWorkerMetricsPort, port)
}

func checkPort(key string, port int) (int, error) {

	if port < 0 || port > 65535 {
		return 0, pkgerr.Errorf("invalid port '%s': %d", key, port)
	}

	return port, nil
}
