// Package api translates client intents into HTTP calls against the Uni
// Yatwon backend and server responses into the normalized models. It
// performs no retries and keeps no state beyond credentials lookup; failures
// propagate once to the caller.
package api

import (
	"context"

	"github.com/uniyatwon/yatwon/internal/client/models"
)

// Credentials are attached to authenticated calls: the bearer token and the
// display name some endpoints additionally expect in an X-Username header.
type Credentials struct {
	Token    string
	Username string
}

// CredentialsSource supplies the current credentials. The session store
// implements it; calls return common.ErrNotAuthenticated when no token is
// stored.
type CredentialsSource interface {
	Credentials(ctx context.Context) (Credentials, error)
}

// Upload is one media item of a multipart submission. Data takes precedence
// when set; otherwise the file at Path is read.
type Upload struct {
	Path string
	Data []byte
	Type models.MediaType
}

// ToggleResult is the reconciliation payload of a toggle endpoint. Count is
// non-nil when the server supplied an authoritative like count.
type ToggleResult struct {
	Count *int
}

// Client is the remote resource client, one method per server endpoint.
type Client interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Signup(ctx context.Context, username, email, password string) (*models.Session, error)

	FetchPosts(ctx context.Context, category models.Category) ([]models.Post, error)
	FetchPost(ctx context.Context, postID string) (models.Post, error)
	SubmitPost(ctx context.Context, description string, category models.Category, media []Upload) (string, error)
	DeletePost(ctx context.Context, postID string) error

	ToggleLike(ctx context.Context, postID string) (*ToggleResult, error)
	ToggleSave(ctx context.Context, postID string) (*ToggleResult, error)
	ToggleFollow(ctx context.Context, userID string) (*ToggleResult, error)

	SubmitComment(ctx context.Context, postID, text, parentID string) error
	FetchComments(ctx context.Context, postID string) ([]models.Comment, error)
	FetchLikeUsers(ctx context.Context, postID string, page int) ([]models.User, error)

	Search(ctx context.Context, tab models.SearchTab, query string) ([]models.SearchResult, error)
	FetchSearchHistory(ctx context.Context) ([]models.SearchHistoryEntry, error)
	SaveSearchHistory(ctx context.Context, query, targetID string, target models.TargetType) error
	DeleteSearchHistory(ctx context.Context, id string) error

	FetchNotifications(ctx context.Context) ([]models.Notification, error)

	FetchMyProfile(ctx context.Context) (models.Profile, error)
	FetchProfile(ctx context.Context, userID string) (models.Profile, error)
	UpdateProfile(ctx context.Context, username string, avatar *Upload) (*models.Session, error)

	RegisterPushToken(ctx context.Context, deviceToken string) error
	Broadcast(ctx context.Context, title, message string) error
}
