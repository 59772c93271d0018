package grpc

import (
	"context"
	"net"
	"time"

	"lmsplatform/internal/logger"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the name reported by the health service next to the overall "" status.
const ServiceName = "lms.api"

// HealthServer exposes grpc.health.v1 and reflection for operators and load balancers.
type HealthServer struct {
	server *grpc.Server
	health *health.Server
	log    *logger.Logger
}

func NewHealthServer(log *logger.Logger) *HealthServer {
	s := grpc.NewServer()
	h := health.NewServer()
	healthpb.RegisterHealthServer(s, h)
	reflection.Register(s)

	h.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	h.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return &HealthServer{server: s, health: h, log: log.With("component", "grpc")}
}

// Serve blocks until the listener fails or Stop is called.
func (s *HealthServer) Serve(lis net.Listener) error {
	s.log.Info("gRPC health server listening", "addr", lis.Addr().String())
	return s.server.Serve(lis)
}

// SetServing sets the reported status of both "" and ServiceName.
func (s *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Watch runs ping every interval and reports NOT_SERVING while it fails. It returns when ctx is done.
func (s *HealthServer) Watch(ctx context.Context, ping func(context.Context) error, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	serving := true
	for {
		pctx, cancel := context.WithTimeout(ctx, interval)
		err := ping(pctx)
		cancel()
		if ctx.Err() != nil {
			return
		}

		if ok := err == nil; ok != serving {
			serving = ok
			s.SetServing(ok)
			if ok {
				s.log.Info("database is reachable again, serving")
			} else {
				s.log.Warn("database ping failed, not serving", "error", err)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Stop reports NOT_SERVING and drains in-flight calls.
func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
