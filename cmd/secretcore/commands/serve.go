package commands

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/systmms/secretcore/internal/bootstrap"
	"github.com/systmms/secretcore/internal/config"
	"github.com/systmms/secretcore/internal/logging"
	"github.com/systmms/secretcore/internal/rpc"
)

// NewServeCommand builds the gRPC server and the Prometheus metrics HTTP
// handler, wires C1-C12 together via internal/bootstrap, and blocks until
// the process receives SIGINT/SIGTERM.
func NewServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the secretcore gRPC server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func runServe(ctx context.Context, path string) error {
	def, err := config.Load(path)
	if err != nil {
		return err
	}
	logger := logging.New(def.Log.Debug, def.Log.Filters.Masking.Rules)

	app, err := bootstrap.Build(ctx, def, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	grpcServer := rpc.NewServer(app.Services, app.Resolver, logger, app.Metrics)

	listener, err := net.Listen("tcp", def.GRPC.ListenAddr)
	if err != nil {
		return err
	}

	metricsServer := &http.Server{Addr: def.Metrics.ListenAddr, Handler: promhttp.Handler()}

	serveErr := make(chan error, 2)
	go func() {
		logger.Info("grpc server listening", logging.F("addr", def.GRPC.ListenAddr))
		serveErr <- grpcServer.Serve(listener)
	}()
	go func() {
		if def.Metrics.ListenAddr == "" {
			return
		}
		logger.Info("metrics server listening", logging.F("addr", def.Metrics.ListenAddr))
		serveErr <- metricsServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", logging.F("signal", sig.String()))
		grpcServer.GracefulStop()
		return metricsServer.Close()
	}
}
