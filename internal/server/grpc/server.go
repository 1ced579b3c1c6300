// Package grpc exposes the ProjectGate services over gRPC. It owns the
// transport concerns: bearer extraction from metadata, principal
// resolution per call, and mapping of domain errors to status codes.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/projectgate/internal/api"
	"github.com/dmitrijs2005/projectgate/internal/logging"
	"github.com/dmitrijs2005/projectgate/internal/server/auth"
	"github.com/dmitrijs2005/projectgate/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// UserService is the account side used by the handlers.
type UserService interface {
	Register(ctx context.Context, userName, password string, role models.Role) (*models.PublicAccount, error)
	Login(ctx context.Context, userName, password string) (string, error)
	SetRole(ctx context.Context, p *auth.Principal, userName string, role models.Role) (*models.PublicAccount, error)
	DeleteAccount(ctx context.Context, p *auth.Principal, userName string) error
	TokenTTL() time.Duration
}

// ProjectService is the project side used by the handlers.
type ProjectService interface {
	List(ctx context.Context, p *auth.Principal) ([]*models.Project, error)
	Create(ctx context.Context, p *auth.Principal, name, description string) (*models.Project, error)
	Delete(ctx context.Context, p *auth.Principal, id string) error
}

// PrincipalResolver turns a bearer token into the request's principal.
type PrincipalResolver interface {
	Resolve(ctx context.Context, token string) (*auth.Principal, error)
}

type GRPCServer struct {
	address  string
	users    UserService
	projects ProjectService
	resolver PrincipalResolver
	logger   logging.Logger
	health   *health.Server
}

func NewGRPCServer(a string, l logging.Logger, us UserService, ps ProjectService, r PrincipalResolver) (*GRPCServer, error) {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		users:    us,
		projects: ps,
		resolver: r,
		health:   health.NewServer(),
	}, nil
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {

	// creates gRPC-server
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))

	// registers services
	api.RegisterProjectGateServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)
	s.health.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
