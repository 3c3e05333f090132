package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/uniyatwon/yatwon/internal/client/api"
	"github.com/uniyatwon/yatwon/internal/client/models"
)

// NewPost prompts for a description, category, and media files, then
// submits the post. The announcement category is reserved for admins.
func (a *App) NewPost(ctx context.Context) error {
	description, err := getMultiline(a.reader, "What's happening on campus?", os.Stdout)
	if err != nil {
		return err
	}
	if description == "" {
		return errors.New("empty post")
	}

	catText, err := getSimpleText(a.reader, "Category (normal, lost_found, announcement)", os.Stdout)
	if err != nil {
		return err
	}
	category := models.ParseCategory(catText)
	if category == models.CategoryAnnouncement && !a.isAdmin() {
		return errors.New("only admins can post announcements")
	}

	pathsText, err := getSimpleText(a.reader, "Media files, comma separated (or empty)", os.Stdout)
	if err != nil {
		return err
	}

	var media []api.Upload
	if pathsText != "" {
		for _, p := range strings.Split(pathsText, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			media = append(media, api.Upload{Path: p, Type: mediaTypeOf(p)})
		}
	}

	msg, err := a.client.SubmitPost(ctx, description, category, media)
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "Posted"
	}
	printlnFn(msg)

	// Freshly posted content should show up on the next feed render.
	if a.feed != nil {
		if err := a.feed.Load(ctx, category); err == nil {
			a.tracker.SetItems(a.feed.Posts())
		}
	}
	return nil
}

func mediaTypeOf(path string) models.MediaType {
	if strings.EqualFold(filepath.Ext(path), ".mp4") {
		return models.MediaVideo
	}
	return models.MediaImage
}
