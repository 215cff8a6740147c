package grpc

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const ServiceName = "storefront.Storefront"

type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthReporter publishes grpc.health.v1 status for the storefront. It is
// SERVING while the database answers pings.
type HealthReporter struct {
	server   *health.Server
	db       Pinger
	interval time.Duration
	log      *logrus.Logger
	last     healthpb.HealthCheckResponse_ServingStatus
}

func NewHealthReporter(db Pinger, interval time.Duration, logger *logrus.Logger) *HealthReporter {
	return &HealthReporter{
		server:   health.NewServer(),
		db:       db,
		interval: interval,
		log:      logger,
		last:     healthpb.HealthCheckResponse_UNKNOWN,
	}
}

func (h *HealthReporter) Register(s *gogrpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

// Run checks the database every interval until ctx is done.
func (h *HealthReporter) Run(ctx context.Context) {
	h.Check(ctx)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}

func (h *HealthReporter) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := h.db.PingContext(pingCtx); err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		if h.last != status {
			h.log.Errorf("gRPC health: database ping failed: %v", err)
		}
	}
	if h.last != status {
		h.log.Infof("gRPC health: status changed to %s", status)
		h.last = status
	}
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(ServiceName, status)
	return status
}

// Shutdown marks every service NOT_SERVING ahead of GracefulStop.
func (h *HealthReporter) Shutdown() {
	h.server.Shutdown()
}
