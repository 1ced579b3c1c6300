package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/projectgate/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errNotLoggedIn = errors.New("not logged in, use 'login' first")

func (a *App) readCredentials() (string, []byte, error) {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", nil, err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return userName, password, nil
}

// Register prompts for a username, a password and an optional role and
// creates the account. It does not log in.
func (a *App) Register(ctx context.Context) error {
	userName, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	role, err := getSimpleText(a.reader, "Enter role (user or admin, empty for user)", a.out)
	if err != nil {
		return err
	}

	acc, err := a.api.Register(ctx, userName, string(password), role)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s as %s\n", acc.UserName, acc.Role)
	return nil
}

// Login prompts for credentials and keeps the issued token for the session.
// A failed login leaves any previous session untouched.
func (a *App) Login(ctx context.Context) error {
	userName, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Login(ctx, userName, string(password)); err != nil {
		return err
	}

	a.userName = userName
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout drops the token held in memory.
func (a *App) Logout(ctx context.Context) error {
	a.api.Logout()
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// WhoAmI prints the account the server resolves the current token to,
// including the role as stored right now.
func (a *App) WhoAmI(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	acc, err := a.api.WhoAmI(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (%s) id=%s\n", acc.UserName, acc.Role, acc.ID)
	return nil
}
