package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/projectgate/internal/client/client"
	"github.com/fatih/color"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// Colors switch themselves off when stdout is not a terminal.
var (
	errorLabel  = color.New(color.FgRed).SprintFunc()
	promptLabel = color.New(color.FgCyan).SprintFunc()
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	ListProjects(ctx context.Context) error
	NewProject(ctx context.Context) error
	RemoveProject(ctx context.Context) error
	SetRole(ctx context.Context) error
	RemoveUser(ctx context.Context) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// It returns on EOF or when the user types "exit" or "quit".
//
//	Not logged in:
//	  - help           - show available commands
//	  - register       - create an account
//	  - login          - authenticate
//	  - exit | quit    - leave the program
//
//	Logged in, additionally:
//	  - whoami         - show the current account and its live role
//	  - projects | ls  - list projects
//	  - newproject     - create a project (admin)
//	  - rmproject      - delete a project (admin)
//	  - setrole        - change the role of an account (admin)
//	  - rmuser         - delete an account (admin)
//	  - logout         - forget the access token
//
// Command errors are reported and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("%s %s> ", promptLabel("pg"), statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, projects (ls), newproject, rmproject, setrole, rmuser, register, login, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "projects", "ls":
			cmdErr = a.ListProjects(ctx)

		case "newproject":
			cmdErr = a.NewProject(ctx)

		case "rmproject":
			cmdErr = a.RemoveProject(ctx)

		case "setrole":
			cmdErr = a.SetRole(ctx)

		case "rmuser":
			cmdErr = a.RemoveUser(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn(errorLabel("Error:"), describe(cmdErr))
		}
	}
}

// describe turns client errors into short user-facing messages.
func describe(err error) string {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		return "not authenticated (wrong credentials, or session expired: login again)"
	case errors.Is(err, client.ErrForbidden):
		return "permission denied"
	case errors.Is(err, client.ErrAlreadyExists):
		return "username already taken"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable"
	default:
		return err.Error()
	}
}
