// Package services contains application services for the Uni Yatwon client:
// the glue between the remote API client, the local session store, and the
// CLI screens.
package services

import (
	"context"

	"github.com/uniyatwon/yatwon/internal/client/api"
	"github.com/uniyatwon/yatwon/internal/client/models"
	"github.com/uniyatwon/yatwon/internal/client/session"
	"github.com/uniyatwon/yatwon/internal/logging"
)

// AuthService defines the sign-in lifecycle for the CLI.
//
// Contract:
//   - Login/Signup: authenticate against the server and persist the session.
//   - Restore: rebuild the session from local storage on startup.
//   - Logout: drop the in-memory session and wipe the persisted copy.
//
// All methods must honor context cancellation.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Signup(ctx context.Context, username, email, password string) (*models.Session, error)
	Restore(ctx context.Context) (*models.Session, error)
	Logout(ctx context.Context) error
	Current() *models.Session
}

// authService is the concrete AuthService backed by the remote client and
// the local session store.
type authService struct {
	client      api.Client
	store       *session.Store
	log         logging.Logger
	deviceToken string
}

// NewAuthService constructs an AuthService. deviceToken, when non-empty, is
// registered for push notifications once after each successful sign-in.
func NewAuthService(client api.Client, store *session.Store, deviceToken string, log logging.Logger) AuthService {
	return &authService{
		client:      client,
		store:       store,
		log:         log.With("component", "auth"),
		deviceToken: deviceToken,
	}
}

// Login authenticates and persists the returned session. Push-token
// registration is best effort: a failure is logged, never surfaced.
func (a *authService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	sess, err := a.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := a.store.SignIn(ctx, sess); err != nil {
		return nil, err
	}
	a.registerPush(ctx)
	return sess, nil
}

// Signup creates an account. The server signs the new user in directly, so
// the session persists like a login.
func (a *authService) Signup(ctx context.Context, username, email, password string) (*models.Session, error) {
	sess, err := a.client.Signup(ctx, username, email, password)
	if err != nil {
		return nil, err
	}
	if err := a.store.SignIn(ctx, sess); err != nil {
		return nil, err
	}
	a.registerPush(ctx)
	return sess, nil
}

func (a *authService) registerPush(ctx context.Context) {
	if a.deviceToken == "" {
		return
	}
	if err := a.client.RegisterPushToken(ctx, a.deviceToken); err != nil {
		a.log.Warn(ctx, "push token registration failed", "err", err)
	}
}

// Restore rebuilds the session from local storage. It returns (nil, nil)
// when no usable session exists, including when the stored token expired.
func (a *authService) Restore(ctx context.Context) (*models.Session, error) {
	return a.store.Restore(ctx)
}

// Logout drops the session. Local cleanup only; the server keeps no
// session state to invalidate.
func (a *authService) Logout(ctx context.Context) error {
	return a.store.SignOut(ctx)
}

// Current returns the in-memory session, or nil when signed out.
func (a *authService) Current() *models.Session {
	return a.store.Current()
}
