// Package session is the single source of truth for "who is logged in".
// The identity survives restarts in the on-device sqlite database; only this
// package ever writes the persisted fields.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pressly/goose/v3"

	"github.com/uniyatwon/yatwon/internal/client/api"
	"github.com/uniyatwon/yatwon/internal/client/models"
	"github.com/uniyatwon/yatwon/internal/client/repositories/metadata"
	"github.com/uniyatwon/yatwon/internal/client/session/migrations"
	"github.com/uniyatwon/yatwon/internal/common"
	"github.com/uniyatwon/yatwon/internal/logging"

	_ "modernc.org/sqlite"
)

// Storage keys, fixed for compatibility with existing installs.
const (
	keyToken    = "token"
	keyUserID   = "user_uuid"
	keyUsername = "Username"
	keyIsAdmin  = "is_admin"
	keyAvatar   = "Profile_photo"
)

// Partial carries the fields of a session update; nil fields are left alone.
type Partial struct {
	Name    *string
	Avatar  *string
	IsAdmin *bool
}

// Store owns the in-memory session and its persisted copy.
type Store struct {
	mu      sync.Mutex
	db      *sql.DB
	repo    metadata.Repository
	current *models.Session
	log     logging.Logger
}

// timeNow is a test seam for the token expiry check.
var timeNow = time.Now

// Open opens (creating if needed) the on-device database at dsn and runs
// pending migrations.
func Open(ctx context.Context, dsn string, log logging.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening session db: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating session db: %w", err)
	}

	return &Store{
		db:   db,
		repo: metadata.NewSQLiteRepository(db),
		log:  log.With("component", "session"),
	}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SignIn persists the full identity and sets the in-memory session. A
// storage write failure leaves memory untouched and surfaces to the caller.
func (s *Store) SignIn(ctx context.Context, sess *models.Session) error {
	if !sess.Valid() {
		return fmt.Errorf("sign in: %w", common.ErrNotAuthenticated)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pairs := map[string]string{
		keyToken:    sess.Token,
		keyUserID:   sess.UserID,
		keyUsername: sess.Name,
		keyIsAdmin:  boolValue(sess.IsAdmin),
		keyAvatar:   sess.Avatar,
	}
	for key, value := range pairs {
		if err := s.repo.Set(ctx, key, []byte(value)); err != nil {
			return fmt.Errorf("persisting session: %w", err)
		}
	}

	copied := *sess
	s.current = &copied
	return nil
}

// SignOut clears the persisted keys and the in-memory session.
func (s *Store) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signOutLocked(ctx)
}

func (s *Store) signOutLocked(ctx context.Context) error {
	s.current = nil
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// Update merges the provided fields into the session and persists only
// those fields.
func (s *Store) Update(ctx context.Context, p Partial) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return common.ErrNotAuthenticated
	}

	if p.Name != nil && *p.Name != "" {
		if err := s.repo.Set(ctx, keyUsername, []byte(*p.Name)); err != nil {
			return fmt.Errorf("persisting session: %w", err)
		}
		s.current.Name = *p.Name
	}
	if p.Avatar != nil && *p.Avatar != "" {
		if err := s.repo.Set(ctx, keyAvatar, []byte(*p.Avatar)); err != nil {
			return fmt.Errorf("persisting session: %w", err)
		}
		s.current.Avatar = *p.Avatar
	}
	if p.IsAdmin != nil {
		if err := s.repo.Set(ctx, keyIsAdmin, []byte(boolValue(*p.IsAdmin))); err != nil {
			return fmt.Errorf("persisting session: %w", err)
		}
		s.current.IsAdmin = *p.IsAdmin
	}
	return nil
}

// Restore reads the persisted keys at startup and reconstitutes the session
// when the identity fields are present and the stored token is still usable.
// An expired token destroys the persisted session and restores nothing.
func (s *Store) Restore(ctx context.Context) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	read := func(key string) (string, error) {
		v, err := s.repo.Get(ctx, key)
		if err != nil {
			return "", err
		}
		return string(v), nil
	}

	token, err := read(keyToken)
	if err != nil {
		return nil, fmt.Errorf("restoring session: %w", err)
	}
	userID, err := read(keyUserID)
	if err != nil {
		return nil, fmt.Errorf("restoring session: %w", err)
	}
	name, err := read(keyUsername)
	if err != nil {
		return nil, fmt.Errorf("restoring session: %w", err)
	}
	isAdmin, err := read(keyIsAdmin)
	if err != nil {
		return nil, fmt.Errorf("restoring session: %w", err)
	}
	avatar, err := read(keyAvatar)
	if err != nil {
		return nil, fmt.Errorf("restoring session: %w", err)
	}

	if userID == "" || name == "" || token == "" {
		s.current = nil
		return nil, nil
	}

	if tokenExpired(token) {
		s.log.Warn(ctx, "stored token expired, signing out")
		if err := s.signOutLocked(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if avatar == "" {
		avatar = models.DefaultAvatar
	}
	s.current = &models.Session{
		Token:   token,
		UserID:  userID,
		Name:    name,
		IsAdmin: isAdmin == "1",
		Avatar:  avatar,
	}
	copied := *s.current
	return &copied, nil
}

// Current returns a copy of the in-memory session, or nil when signed out.
func (s *Store) Current() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	copied := *s.current
	return &copied
}

// Credentials implements api.CredentialsSource. A missing token is "not
// authenticated", never a panic or a raw request without auth.
func (s *Store) Credentials(ctx context.Context) (api.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current.Valid() {
		return api.Credentials{}, common.ErrNotAuthenticated
	}
	return api.Credentials{Token: s.current.Token, Username: s.current.Name}, nil
}

// tokenExpired inspects a JWT's exp claim without verifying the signature
// (the client has no key material; the server remains authoritative).
// Opaque non-JWT tokens are trusted as-is.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(timeNow())
}

func boolValue(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

var _ api.CredentialsSource = (*Store)(nil)
