package main

import (
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dialogs/dialog-io-service/config"
	iogrpc "github.com/dialogs/dialog-io-service/grpc"
	"github.com/dialogs/dialog-io-service/ioservice"
	"github.com/dialogs/dialog-io-service/logger"
	"github.com/dialogs/dialog-io-service/metric"
	"github.com/dialogs/dialog-io-service/qosmetrics"
	"github.com/dialogs/dialog-io-service/rpc"
	"github.com/dialogs/dialog-io-service/schema"
	"github.com/dialogs/dialog-io-service/service"
	"github.com/dialogs/dialog-io-service/service/info"
	"github.com/dialogs/dialog-io-service/service/router"
	"github.com/dialogs/dialog-io-service/worker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

func newServeCommand() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the rpc server and the metrics endpoint",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	flags := cmd.Flags()
	flags.Int(FlagPort, config.DefaultPort, "rpc listen port")
	flags.Int(FlagMetricsPort, config.DefaultMetricsPort, "metrics and health listen port")
	flags.Int(FlagWorkers, 0, "count of the file io workers (0 is the count of cpu)")
	flags.String(FlagLogLevel, "info", "log level")
	flags.Bool(FlagLogDebug, false, "development logger")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {

	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.File != "" {
		log.Info("config loaded", zap.String("file", cfg.File))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := schema.Load(ctx)
	if err != nil {
		return err
	}

	reg := metric.NewRegistry()
	m, err := qosmetrics.New(reg, rpc.MethodNames()...)
	if err != nil {
		return err
	}

	pool := worker.NewDispatcher(cfg.Workers)
	pool.Run()
	defer pool.Close()

	srv, err := rpc.NewServer(s, rpc.NewIOService(ioservice.New(nil, pool, log), m), log)
	if err != nil {
		return err
	}

	opts := append(srv.ServerOptions(), grpc.UnaryInterceptor(iogrpc.UnaryServerInterceptor(log)))
	rpcSvc := service.NewGRPC(opts...)
	rpcSvc.SetLogger(log)
	rpcSvc.SetAddr(net.JoinHostPort("", strconv.Itoa(cfg.Port)))
	rpcSvc.RegisterService(srv.Register)

	adminSvc := service.NewHTTP(router.NewAdminRouter(info.New(appName), reg, log), cfg.ShutdownTimeout)
	adminSvc.SetLogger(log)
	adminSvc.SetAddr(net.JoinHostPort("", strconv.Itoa(cfg.MetricsPort)))

	log.Info("starting",
		zap.Int("port", cfg.Port),
		zap.Int("metrics_port", cfg.MetricsPort),
		zap.Int("workers", pool.Size()))

	chErr, cancel := service.RunGroup(ctx,
		service.Task(rpcSvc.ListenAndServe, rpcSvc),
		service.Task(adminSvc.ListenAndServe, adminSvc))
	defer cancel()

	var retval error
	for err := range chErr {
		// the first stopped service stops the others
		cancel()

		if err != nil && !errors.Is(err, http.ErrServerClosed) && retval == nil {
			retval = err
		}
	}

	log.Info("stopped")
	return retval
}
