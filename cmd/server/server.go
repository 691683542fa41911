package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/xwing-api/internal/config"
	"github.com/KirkDiggler/xwing-api/internal/handlers/xwing/v1alpha1"
	"github.com/KirkDiggler/xwing-api/internal/markup"
	"github.com/KirkDiggler/xwing-api/internal/orchestrators/cardlookup"
)

const (
	shutdownTimeout = 30 * time.Second
	warmRetry       = 30 * time.Second
)

var serverFlags = map[string]string{
	config.KeyGRPCPort:      "port",
	config.KeyChatRateLimit: "chat-rate-limit",
	config.KeyChatBurst:     "chat-burst",
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gRPC server",
	Long:  `Start the xwing-api gRPC server with card lookup, health and reflection services.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().Int("port", 50051, "gRPC server port")
	serverCmd.Flags().Float64("chat-rate-limit", 10, "lookups per second across all chat callers")
	serverCmd.Flags().Int("chat-burst", 20, "lookups allowed in a burst")
	addDatasetFlags(serverCmd)
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, datasetFlags, serverFlags)
	if err != nil {
		return err
	}
	log := appLogger

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	lookupService, cleanup, err := newLookupService(cfg, markup.NewSlackPrinter(), log)
	if err != nil {
		return fmt.Errorf("failed to create lookup service: %w", err)
	}
	defer cleanup()

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		LookupService: lookupService,
		Logger:        log,
		RateLimit:     rate.Limit(cfg.Chat.RateLimit),
		Burst:         cfg.Chat.Burst,
	})
	if err != nil {
		return fmt.Errorf("failed to create card lookup handler: %w", err)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPC.Port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	grpcLogger := zapLogger(log)
	recoveryOpt := grpc_recovery.WithRecoveryHandlerContext(recoverPanic(log))
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(grpcLogger),
			grpc_recovery.UnaryServerInterceptor(recoveryOpt),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(grpcLogger),
			grpc_recovery.StreamServerInterceptor(recoveryOpt),
		),
	)

	v1alpha1.RegisterCardLookupServiceServer(srv, handler)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(v1alpha1.CardLookupServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	reflection.Register(srv)

	go warmIndex(ctx, lookupService, healthServer, log)

	errChan := make(chan error, 1)
	go func() {
		log.Info("gRPC server starting", zap.Int("port", cfg.GRPC.Port))
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down gRPC server")
		healthServer.Shutdown()

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()

		select {
		case <-time.After(shutdownTimeout):
			log.Warn("graceful shutdown timeout exceeded, forcing stop")
			srv.Stop()
		case <-stopped:
			log.Info("server stopped gracefully")
		}

		return nil
	case err := <-errChan:
		return err
	}
}

// warmIndex builds the card index before the first chat lookup and marks
// the lookup service healthy once it is ready.
func warmIndex(ctx context.Context, svc cardlookup.Service, hs *health.Server, log *zap.Logger) {
	for {
		err := svc.Warm(ctx)
		if err == nil {
			hs.SetServingStatus(v1alpha1.CardLookupServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
			return
		}
		log.Error("failed to load card index, retrying", zap.Duration("retry_in", warmRetry), zap.Error(err))

		select {
		case <-ctx.Done():
			return
		case <-time.After(warmRetry):
		}
	}
}

// zapLogger adapts zap to the middleware logger. Fields arrive as
// alternating keys and values.
func zapLogger(log *zap.Logger) grpc_logging.Logger {
	return grpc_logging.LoggerFunc(func(_ context.Context, level grpc_logging.Level, msg string, fields ...any) {
		zapFields := make([]zap.Field, 0, len(fields)/2)
		for i := 0; i+1 < len(fields); i += 2 {
			zapFields = append(zapFields, zap.Any(fmt.Sprint(fields[i]), fields[i+1]))
		}

		switch level {
		case grpc_logging.LevelDebug:
			log.Debug(msg, zapFields...)
		case grpc_logging.LevelWarn:
			log.Warn(msg, zapFields...)
		case grpc_logging.LevelError:
			log.Error(msg, zapFields...)
		default:
			log.Info(msg, zapFields...)
		}
	})
}

func recoverPanic(log *zap.Logger) grpc_recovery.RecoveryHandlerFuncContext {
	return func(_ context.Context, p any) error {
		log.Error("recovered from panic", zap.Any("panic", p), zap.Stack("stack"))
		return status.Error(codes.Internal, "internal error")
	}
}
