package cli

import (
	"context"
	"fmt"
)

// SetRole prompts for a username and a role and changes it. The new role
// applies to that account's next request, even with a token issued before.
func (a *App) SetRole(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	role, err := getSimpleText(a.reader, "Enter role (user or admin)", a.out)
	if err != nil {
		return err
	}

	acc, err := a.api.SetRole(ctx, userName, role)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s is now %s\n", acc.UserName, acc.Role)
	return nil
}

// RemoveUser prompts for a username and deletes the account. Tokens issued
// to it stop working at once.
func (a *App) RemoveUser(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	if err := a.api.DeleteAccount(ctx, userName); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Deleted account %s\n", userName)
	if userName == a.userName {
		return a.Logout(ctx)
	}
	return nil
}
