package grpc

import (
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"alumni-directory-backend/internal/api/grpc/interceptor"
)

// NewServer builds the operations listener: the standard health service,
// open to probes, and reflection, restricted to administrators.
func NewServer(db Pinger, admins interceptor.AdminVerifier) (*grpc.Server, *HealthServer) {
	auth := interceptor.NewAuthInterceptor(admins)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(interceptor.UnaryLogging(), auth.Unary()),
		grpc.ChainStreamInterceptor(interceptor.StreamLogging(), auth.Stream()),
	)

	hs := NewHealthServer(db)
	healthpb.RegisterHealthServer(s, hs)
	reflection.Register(s)

	return s, hs
}
