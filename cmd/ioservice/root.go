package main

import (
	"net"
	"strconv"

	"github.com/dialogs/dialog-io-service/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const appName = "ioservice"

// Flag names
const (
	FlagConfig      = "config"
	FlagPort        = "port"
	FlagMetricsPort = "metrics-port"
	FlagWorkers     = "workers"
	FlagLogLevel    = "log-level"
	FlagLogDebug    = "log-debug"
	FlagAddr        = "addr"
	FlagTimeout     = "timeout"
)

// flagKeys maps the flags to the config keys
var flagKeys = map[string]string{
	FlagPort:        config.KeyPort,
	FlagMetricsPort: config.KeyMetricsPort,
	FlagWorkers:     config.KeyWorkerCount,
	FlagLogLevel:    config.KeyLogLevel,
	FlagLogDebug:    config.KeyLogDebug,
}

func newRootCommand() *cobra.Command {

	root := &cobra.Command{
		Use:           appName,
		Short:         "File io service with request metrics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String(FlagConfig, "", "yaml config file (default $"+config.EnvConfigFile+" or "+config.DefaultConfigFile+")")

	root.AddCommand(
		newServeCommand(),
		newPingCommand(),
		newReadCommand(),
		newWriteCommand(),
	)

	return root
}

// loadConfig reads the config file and the environment. Flags set on the
// command line override them.
func loadConfig(flags *pflag.FlagSet) (*config.Config, error) {

	v := config.New(config.EnvPrefix)
	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}

	path, err := flags.GetString(FlagConfig)
	if err != nil {
		return nil, err
	}

	return config.Load(v, path)
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {

	var err error
	flags.Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}

		err = v.BindPFlag(key, f)
	})

	return err
}

// defaultAddr is the address of the node from the config
func defaultAddr(cfg *config.Config) string {
	return net.JoinHostPort(cfg.Node.Host, strconv.Itoa(cfg.Port))
}
