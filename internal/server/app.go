// Package server assembles the ProjectGate server: it opens the database,
// applies migrations, builds the auth primitives from configuration and
// runs the gRPC endpoint until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/projectgate/internal/logging"
	"github.com/dmitrijs2005/projectgate/internal/server/auth"
	"github.com/dmitrijs2005/projectgate/internal/server/config"
	"github.com/dmitrijs2005/projectgate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/projectgate/internal/server/services"

	gs "github.com/dmitrijs2005/projectgate/internal/server/grpc"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	userService    *services.UserService
	projectService *services.ProjectService
	resolver       *auth.Resolver
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	deps, err := newAuthDeps(c)
	if err != nil {
		return nil, fmt.Errorf("auth init error: %w", err)
	}

	db, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	us := services.NewUserService(db, rm, deps, logger)
	ps := services.NewProjectService(db, rm, deps.Gate, logger)
	resolver := auth.NewResolver(deps.Codec, rm.Users(db), deps.Clock)

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		userService:    us,
		projectService: ps,
		resolver:       resolver,
	}, nil
}

// newAuthDeps builds the hasher, token codec and gate described by c.
func newAuthDeps(c *config.Config) (services.AuthDeps, error) {
	hasher, err := auth.NewHasher(c.HashAlgorithm, c.HashWorkFactor)
	if err != nil {
		return services.AuthDeps{}, err
	}

	codec, err := auth.NewTokenCodec(auth.TokenConfig{
		Key:    []byte(c.SecretKey),
		TTL:    c.TokenTTL,
		Issuer: c.TokenIssuer,
		Leeway: c.TokenLeeway,
	})
	if err != nil {
		return services.AuthDeps{}, err
	}

	return services.AuthDeps{
		Hasher: hasher,
		Codec:  codec,
		Gate:   auth.NewGate(auth.ExactMatch{}),
		Clock:  auth.SystemClock{},
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.projectService, app.resolver)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
