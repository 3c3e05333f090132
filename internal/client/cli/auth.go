package cli

import (
	"context"
	"os"
)

// getSimpleText, getMultiline and getPassword are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getMultiline = GetMultiline
var getPassword = GetPassword

// Login prompts for email and password and signs in. On success the session
// is persisted, so subsequent runs restore it without prompting.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	sess, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	a.session = sess
	printlnFn("Logged in as", sess.Name)
	return nil
}

// Signup prompts for a username, email and password and creates an account.
// The server signs the new user in directly.
func (a *App) Signup(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Choose a username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	sess, err := a.auth.Signup(ctx, username, email, password)
	if err != nil {
		return err
	}
	a.session = sess
	printlnFn("Welcome,", sess.Name)
	return nil
}

// Logout drops the session and forgets the current feed screen.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.session = nil
	if a.feed != nil {
		a.feed.Close()
		a.feed = nil
	}
	if a.profile != nil {
		a.profile.Close()
		a.profile = nil
	}
	a.notis = nil
	printlnFn("Logged out")
	return nil
}
