package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/uniyatwon/yatwon/internal/client/models"
	"github.com/uniyatwon/yatwon/internal/logging"
	"log/slog"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func stubInputs(t *testing.T, lines []string, password string) {
	t.Helper()
	origST, origGP, origML := getSimpleText, getPassword, getMultiline
	i := 0
	next := func() (string, error) {
		if i >= len(lines) {
			return "", fs.ErrClosed
		}
		line := lines[i]
		i++
		return line, nil
	}
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return next() }
	getMultiline = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return next() }
	getPassword = func(_ io.Writer) (string, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
		getMultiline = origML
	})
}

type fakeAuth struct {
	sess     *models.Session
	err      error
	email    string
	username string
	password string
	logouts  int
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*models.Session, error) {
	f.email, f.password = email, password
	return f.sess, f.err
}

func (f *fakeAuth) Signup(_ context.Context, username, email, password string) (*models.Session, error) {
	f.username, f.email, f.password = username, email, password
	return f.sess, f.err
}

func (f *fakeAuth) Restore(context.Context) (*models.Session, error) { return f.sess, f.err }

func (f *fakeAuth) Logout(context.Context) error {
	f.logouts++
	return f.err
}

func (f *fakeAuth) Current() *models.Session { return f.sess }

func TestAppLogin(t *testing.T) {
	muted(t)
	stubInputs(t, []string{"a@b.c"}, "pw")

	f := &fakeAuth{sess: &models.Session{Token: "t", UserID: "u-1", Name: "aung"}}
	a := &App{auth: f, log: testLogger()}

	if err := a.Login(context.Background()); err != nil {
		t.Fatalf("Login err: %v", err)
	}
	if f.email != "a@b.c" || f.password != "pw" {
		t.Fatalf("credentials mismatch: %q %q", f.email, f.password)
	}
	if !a.isLoggedIn() {
		t.Fatalf("session not installed")
	}
}

func TestAppLogin_ErrorKeepsLoggedOut(t *testing.T) {
	muted(t)
	stubInputs(t, []string{"a@b.c"}, "bad")

	f := &fakeAuth{err: errors.New("Invalid credentials")}
	a := &App{auth: f, log: testLogger()}

	if err := a.Login(context.Background()); err == nil {
		t.Fatalf("want error")
	}
	if a.isLoggedIn() {
		t.Fatalf("unexpected session")
	}
}

func TestAppSignup(t *testing.T) {
	muted(t)
	stubInputs(t, []string{"aung", "a@b.c"}, "pw")

	f := &fakeAuth{sess: &models.Session{Token: "t", UserID: "u-1", Name: "aung"}}
	a := &App{auth: f, log: testLogger()}

	if err := a.Signup(context.Background()); err != nil {
		t.Fatalf("Signup err: %v", err)
	}
	if f.username != "aung" {
		t.Fatalf("username mismatch: %q", f.username)
	}
	if !a.isLoggedIn() {
		t.Fatalf("session not installed")
	}
}

func TestAppLogout(t *testing.T) {
	muted(t)

	f := &fakeAuth{}
	a := &App{auth: f, log: testLogger(), session: &models.Session{Token: "t", UserID: "u-1"}}

	if err := a.Logout(context.Background()); err != nil {
		t.Fatalf("Logout err: %v", err)
	}
	if f.logouts != 1 {
		t.Fatalf("service not called")
	}
	if a.isLoggedIn() {
		t.Fatalf("session not cleared")
	}
}

func TestIsAdmin(t *testing.T) {
	a := &App{}
	if a.isAdmin() {
		t.Fatalf("admin without session")
	}
	a.session = &models.Session{Token: "t", UserID: "u-1", IsAdmin: true}
	if !a.isAdmin() {
		t.Fatalf("admin flag ignored")
	}
}
