// Package health exposes liveness over gRPC for orchestrators.
package health

import (
	"net"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name reported to grpc.health.v1.Health
const ServiceName = "sprintkit.Wizard"

type Server struct {
	grpc   *grpc.Server
	health *health.Server
	logger zerolog.Logger
}

func NewServer(logger zerolog.Logger) *Server {
	gs := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return &Server{grpc: gs, health: hs, logger: logger}
}

// Serve blocks until the listener fails or Stop is called
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info().Str("addr", lis.Addr().String()).Msg("grpc health listening")
	return s.grpc.Serve(lis)
}

// Stop reports NOT_SERVING and drains in-flight RPCs
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
