package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"apostila-ai/backend/pkg/config"
	"apostila-ai/backend/pkg/di"
	"apostila-ai/backend/pkg/logger"
	"apostila-ai/backend/pkg/router"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const serviceName = "apostila-ai"

func main() {
	cfg := config.New()

	logConfig := logger.DefaultConfig()
	logConfig.Level = cfg.Logging.Level
	logConfig.JSON = cfg.Logging.Format != "text"

	log := logger.New(logConfig)
	logger.SetGlobal(log)

	log.Info("Starting application",
		"version", cfg.Server.Version,
		"env", cfg.Server.Env,
		"conversation_log", cfg.ConversationLog.Backend,
		"rate_limit_backend", cfg.Security.RateLimitBackend,
	)

	container, err := di.New(cfg, log)
	if err != nil {
		log.LogError(err, "Failed to initialize dependency container")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := router.New(container)
	r.SetupRoutes()

	var grpcServer *grpc.Server
	if cfg.Server.GRPCPort != "" {
		grpcServer = startGRPCHealth(cfg.Server.GRPCPort, container, log)
	}
	container.Health.Start(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r.Engine,
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogError(err, "Server failed to start")
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.LogError(err, "Server forced to shutdown")
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	if err := container.Close(shutdownCtx); err != nil {
		log.LogError(err, "Failed to release resources")
	}

	log.Info("Server exited gracefully")
}

// startGRPCHealth serves the standard gRPC health protocol, mirroring the HTTP checker
func startGRPCHealth(port string, container *di.Container, log *logger.Logger) *grpc.Server {
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	healthServer.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_SERVING)
	container.Health.OnChange(func(healthy bool) {
		status := grpc_health_v1.HealthCheckResponse_SERVING
		if !healthy {
			status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
		healthServer.SetServingStatus(serviceName, status)
		healthServer.SetServingStatus("", status)
	})

	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		log.LogError(err, "Failed to listen for gRPC", "port", port)
		os.Exit(1)
	}

	go func() {
		log.Info("gRPC health server listening", "port", port)
		if err := grpcServer.Serve(lis); err != nil {
			log.LogError(err, "gRPC server stopped")
		}
	}()

	return grpcServer
}
