package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/dmitrijs2005/projectgate/internal/client/client"
)

// stubInputs makes getSimpleText return answers in order and getPassword
// return password.
func stubInputs(t *testing.T, password string, answers ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(answers) == 0 {
			return "", io.EOF
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

type fakeAPI struct {
	token string

	regUser, regPass, regRole string
	loginUser, loginPass      string
	created                   [2]string
	deletedProject            string
	roleUser, roleRole        string
	deletedUser               string

	projects []*client.Project
	err      error
	pingErr  error
	closed   bool
}

func (f *fakeAPI) Register(_ context.Context, userName, password, role string) (*client.Account, error) {
	f.regUser, f.regPass, f.regRole = userName, password, role
	if f.err != nil {
		return nil, f.err
	}
	if role == "" {
		role = "user"
	}
	return &client.Account{ID: "id-" + userName, UserName: userName, Role: role}, nil
}

func (f *fakeAPI) Login(_ context.Context, userName, password string) error {
	f.loginUser, f.loginPass = userName, password
	if f.err != nil {
		return f.err
	}
	f.token = "T"
	return nil
}

func (f *fakeAPI) Logout()        { f.token = "" }
func (f *fakeAPI) LoggedIn() bool { return f.token != "" }

func (f *fakeAPI) WhoAmI(context.Context) (*client.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &client.Account{ID: "id-" + f.loginUser, UserName: f.loginUser, Role: "user"}, nil
}

func (f *fakeAPI) ListProjects(context.Context) ([]*client.Project, error) {
	return f.projects, f.err
}

func (f *fakeAPI) CreateProject(_ context.Context, name, description string) (*client.Project, error) {
	f.created = [2]string{name, description}
	if f.err != nil {
		return nil, f.err
	}
	return &client.Project{ID: "p-new", Name: name, Description: description}, nil
}

func (f *fakeAPI) DeleteProject(_ context.Context, id string) error {
	f.deletedProject = id
	return f.err
}

func (f *fakeAPI) SetRole(_ context.Context, userName, role string) (*client.Account, error) {
	f.roleUser, f.roleRole = userName, role
	if f.err != nil {
		return nil, f.err
	}
	return &client.Account{UserName: userName, Role: role}, nil
}

func (f *fakeAPI) DeleteAccount(_ context.Context, userName string) error {
	f.deletedUser = userName
	return f.err
}

func (f *fakeAPI) Ping(context.Context) error { return f.pingErr }

func (f *fakeAPI) Close() error {
	f.closed = true
	return nil
}

func newTestApp(f *fakeAPI) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{api: f, out: &out}, &out
}

func loggedIn(f *fakeAPI, a *App, userName string) {
	f.token = "T"
	f.loginUser = userName
	a.userName = userName
}
