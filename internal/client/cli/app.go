package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/projectgate/internal/client/client"
	"github.com/dmitrijs2005/projectgate/internal/client/config"
)

// gateAPI is the part of client.GRPCClient the CLI uses.
type gateAPI interface {
	Register(ctx context.Context, userName, password, role string) (*client.Account, error)
	Login(ctx context.Context, userName, password string) error
	Logout()
	LoggedIn() bool
	WhoAmI(ctx context.Context) (*client.Account, error)
	ListProjects(ctx context.Context) ([]*client.Project, error)
	CreateProject(ctx context.Context, name, description string) (*client.Project, error)
	DeleteProject(ctx context.Context, id string) error
	SetRole(ctx context.Context, userName, role string) (*client.Account, error)
	DeleteAccount(ctx context.Context, userName string) error
	Ping(ctx context.Context) error
	Close() error
}

type App struct {
	config   *config.Config
	api      gateAPI
	userName string
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	return &App{config: c, api: apiClient, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) isLoggedIn() bool {
	return a.api.LoggedIn()
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

// Run checks that the server answers, then runs the REPL until the user
// exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.api.Close(); err != nil {
			log.Printf("error closing connection: %s", err.Error())
		}
	}()

	fmt.Fprintln(a.out, "Welcome to ProjectGate CLI (type 'help' for commands)")
	if err := a.api.Ping(ctx); err != nil {
		log.Printf("Server %s is not reachable: %s", a.config.ServerEndpointAddr, err.Error())
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
