// Package grpc serves the standard gRPC health protocol for the lostfound
// server. Each dependency is checked periodically and reported as its own
// service name; the empty service name aggregates all of them.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const checkTimeout = 2 * time.Second

// Check is one monitored dependency.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type HealthServer struct {
	address  string
	interval time.Duration
	checks   []Check
	health   *health.Server
	logger   logging.Logger
}

func NewHealthServer(address string, interval time.Duration, l logging.Logger, checks ...Check) *HealthServer {
	return &HealthServer{
		address:  address,
		interval: interval,
		checks:   checks,
		health:   health.NewServer(),
		logger:   l.With("module", "grpc_health"),
	}
}

// CheckAll pings every dependency once and updates the reported statuses.
func (s *HealthServer) CheckAll(ctx context.Context) bool {
	all := true
	for _, c := range s.checks {
		pctx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := c.Ping(pctx)
		cancel()

		st := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			all = false
			st = healthpb.HealthCheckResponse_NOT_SERVING
			s.logger.Warn(ctx, "health check failed", "check", c.Name, "error", err)
		}
		s.health.SetServingStatus(c.Name, st)
	}

	overall := healthpb.HealthCheckResponse_SERVING
	if !all {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", overall)
	return all
}

func (s *HealthServer) checkLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.CheckAll(ctx)
		}
	}
}

// Run serves until ctx is cancelled.
func (s *HealthServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	s.CheckAll(ctx)
	go s.checkLoop(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
