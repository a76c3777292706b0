package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"alumni-directory-backend/internal/logger"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthServer reports NOT_SERVING for every service while the database
// cannot be reached.
type HealthServer struct {
	*health.Server
	db      Pinger
	timeout time.Duration
}

func NewHealthServer(db Pinger) *HealthServer {
	return &HealthServer{
		Server:  health.NewServer(),
		db:      db,
		timeout: 2 * time.Second,
	}
}

func (s *HealthServer) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	pingCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.db.PingContext(pingCtx); err != nil {
		logger.Warn("Health check failed", "service", req.GetService(), "error", err)
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
	}
	return s.Server.Check(ctx, req)
}
