package services

import (
	"context"

	"github.com/uniyatwon/yatwon/internal/client/api"
	"github.com/uniyatwon/yatwon/internal/client/models"
	"github.com/uniyatwon/yatwon/internal/client/session"
	"github.com/uniyatwon/yatwon/internal/logging"
)

// ProfileService fetches profiles and applies profile edits. An accepted
// edit is merged back into the stored session so the new name and avatar
// survive restarts.
type ProfileService interface {
	Me(ctx context.Context) (models.Profile, error)
	Other(ctx context.Context, userID string) (models.Profile, error)
	Edit(ctx context.Context, username string, avatar *api.Upload) error
}

type profileService struct {
	client api.Client
	store  *session.Store
	log    logging.Logger
}

func NewProfileService(client api.Client, store *session.Store, log logging.Logger) ProfileService {
	return &profileService{
		client: client,
		store:  store,
		log:    log.With("component", "profile"),
	}
}

func (p *profileService) Me(ctx context.Context) (models.Profile, error) {
	return p.client.FetchMyProfile(ctx)
}

func (p *profileService) Other(ctx context.Context, userID string) (models.Profile, error) {
	return p.client.FetchProfile(ctx, userID)
}

// Edit submits the new username and optional avatar. The server echoes the
// updated identity fields; whatever it confirmed is merged into the session.
func (p *profileService) Edit(ctx context.Context, username string, avatar *api.Upload) error {
	updated, err := p.client.UpdateProfile(ctx, username, avatar)
	if err != nil {
		return err
	}

	var partial session.Partial
	if updated != nil {
		if updated.Name != "" {
			partial.Name = &updated.Name
		}
		if updated.Avatar != "" && updated.Avatar != models.DefaultAvatar {
			partial.Avatar = &updated.Avatar
		}
	} else if username != "" {
		partial.Name = &username
	}

	if err := p.store.Update(ctx, partial); err != nil {
		p.log.Warn(ctx, "session merge after profile edit failed", "err", err)
	}
	return nil
}
