package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/uniyatwon/yatwon/internal/client/api"
	"github.com/uniyatwon/yatwon/internal/client/feed"
	"github.com/uniyatwon/yatwon/internal/client/models"
)

// profileView is the last profile screen shown; Follow acts on it.
func (a *App) profileView() *feed.ProfileView {
	if a.profile == nil {
		a.profile = feed.NewProfileView(a.client, a.log)
	}
	return a.profile
}

// Profile shows the viewer's own profile, or another user's when a user id
// is given.
func (a *App) Profile(ctx context.Context, args []string) error {
	v := a.profileView()

	var err error
	if len(args) == 0 {
		err = v.LoadMine(ctx)
	} else {
		err = v.Load(ctx, args[0])
	}
	if err != nil {
		return err
	}

	p, _ := v.Profile()
	renderProfile(p, a.session.UserID)
	return nil
}

func renderProfile(p models.Profile, viewerID string) {
	line := p.Name
	if p.IsAdmin {
		line += " (admin)"
	}
	printlnFn(line)
	printlnFn(fmt.Sprintf("  %d followers", p.Followers))
	if p.UUID != viewerID {
		printlnFn("  following:", p.Following)
	}
	if len(p.Posts) == 0 {
		printlnFn("  no posts")
		return
	}
	for i, post := range p.Posts {
		printlnFn(renderPostLine(i+1, post))
	}
}

// Follow toggles following of the profile currently on screen. The screen
// updates immediately; a failure rolls it back.
func (a *App) Follow(ctx context.Context) error {
	if a.profile == nil {
		return errors.New("open a profile first")
	}
	p, ok := a.profile.Profile()
	if !ok {
		return errors.New("open a profile first")
	}
	if p.UUID == a.session.UserID {
		return errors.New("cannot follow yourself")
	}

	if err := a.profile.ToggleFollow(ctx); err != nil {
		return err
	}
	a.profile.Wait()

	p, _ = a.profile.Profile()
	printlnFn("following:", p.Following)
	return nil
}

// Edit updates the viewer's username and avatar. Accepted changes are
// merged into the stored session.
func (a *App) Edit(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "New username (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	if username == "" {
		username = a.session.Name
	}

	avatarPath, err := getSimpleText(a.reader, "Avatar image file (or empty)", os.Stdout)
	if err != nil {
		return err
	}
	var avatar *api.Upload
	if avatarPath != "" {
		avatar = &api.Upload{Path: avatarPath, Type: models.MediaImage}
	}

	if err := a.profiles.Edit(ctx, username, avatar); err != nil {
		return err
	}
	a.session = a.store.Current()
	printlnFn("Profile updated")
	return nil
}

// Broadcast sends a push notification to every user. Admin only; the REPL
// hides and refuses the command for everyone else.
func (a *App) Broadcast(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Broadcast title", os.Stdout)
	if err != nil {
		return err
	}
	message, err := getMultiline(a.reader, "Broadcast message", os.Stdout)
	if err != nil {
		return err
	}
	if title == "" || message == "" {
		return errors.New("both title and message are required")
	}

	if err := a.client.Broadcast(ctx, title, message); err != nil {
		return err
	}
	printlnFn("Broadcast sent")
	return nil
}
