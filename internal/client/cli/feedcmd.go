package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/uniyatwon/yatwon/internal/client/feed"
	"github.com/uniyatwon/yatwon/internal/client/models"
	"github.com/uniyatwon/yatwon/internal/timex"
)

var errNoFeed = errors.New("load the feed first (run 'feed')")

// postArg resolves a command argument to a post id: either a 1-based index
// into the last rendered feed, or a raw post id.
func (a *App) postArg(args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("which post? pass a number from the feed or a post id")
	}
	if n, err := strconv.Atoi(args[0]); err == nil {
		if a.feed == nil {
			return "", errNoFeed
		}
		posts := a.feed.Posts()
		if n < 1 || n > len(posts) {
			return "", fmt.Errorf("no post #%d on screen", n)
		}
		return posts[n-1].ID, nil
	}
	return args[0], nil
}

// Feed loads and renders the feed for a category (default: normal campus
// posts). Loading replaces the current screen.
func (a *App) Feed(ctx context.Context, args []string) error {
	category := models.CategoryNormal
	if len(args) > 0 {
		category = models.ParseCategory(args[0])
	}

	if a.feed == nil {
		a.feed = feed.NewController(a.client, a.session.UserID, a.log)
	}
	if err := a.feed.Load(ctx, category); err != nil {
		return err
	}

	posts := a.feed.Posts()
	a.tracker.SetItems(posts)
	if len(posts) == 0 {
		printlnFn("Nothing here yet")
		return nil
	}
	for i, p := range posts {
		printlnFn(renderPostLine(i+1, p))
	}
	return nil
}

func renderPostLine(n int, p models.Post) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d [%s] %s", n, p.Category, p.AuthorName)
	if p.CreatedAt != "" {
		fmt.Fprintf(&b, " · %s", timex.TimeAgo(p.CreatedAt))
	}
	fmt.Fprintf(&b, "\n   %s", firstLine(p.Description))
	fmt.Fprintf(&b, "\n   ♥ %d", p.LikeCount)
	if p.Liked {
		b.WriteString(" (liked)")
	}
	if p.Saved {
		b.WriteString(" (saved)")
	}
	if len(p.Comments) > 0 {
		fmt.Fprintf(&b, " · %d comments", len(p.Comments))
	}
	if len(p.Media) > 0 {
		fmt.Fprintf(&b, " · %d media", len(p.Media))
	}
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Open shows a single post in detail: description, media, and comment
// threads. Opening an item scrolls it fully into view, which starts video
// playback for single-video posts.
func (a *App) Open(ctx context.Context, args []string) error {
	id, err := a.postArg(args)
	if err != nil {
		return err
	}

	var post models.Post
	ok := false
	if a.feed != nil {
		post, ok = a.feed.Post(id)
	}
	if !ok {
		post, err = a.client.FetchPost(ctx, id)
		if err != nil {
			return err
		}
	}

	a.tracker.Focus(post.ID)

	printlnFn(renderPostLine(1, post))
	for _, m := range post.Media {
		printlnFn(" ", string(m.Type)+":", m.URL)
	}

	comments, err := a.client.FetchComments(ctx, post.ID)
	if err != nil {
		return err
	}
	for _, th := range models.Threads(comments) {
		printlnFn(fmt.Sprintf("  %s: %s", th.AuthorName, th.Description))
		for _, r := range th.Replies {
			printlnFn(fmt.Sprintf("    ↳ %s: %s", r.AuthorName, r.Description))
		}
	}
	return nil
}

// Like toggles the like of a post. The screen updates immediately; the
// reconciled state prints once the server answers.
func (a *App) Like(ctx context.Context, args []string) error {
	id, err := a.postArg(args)
	if err != nil {
		return err
	}
	if a.feed == nil {
		return errNoFeed
	}
	if err := a.feed.ToggleLike(ctx, id); err != nil {
		return err
	}
	a.feed.Wait()
	if p, ok := a.feed.Post(id); ok {
		printlnFn(fmt.Sprintf("♥ %d, liked: %v", p.LikeCount, p.Liked))
	}
	return nil
}

// Save toggles the bookmark of a post.
func (a *App) Save(ctx context.Context, args []string) error {
	id, err := a.postArg(args)
	if err != nil {
		return err
	}
	if a.feed == nil {
		return errNoFeed
	}
	if err := a.feed.ToggleSave(ctx, id); err != nil {
		return err
	}
	a.feed.Wait()
	if p, ok := a.feed.Post(id); ok {
		printlnFn("saved:", p.Saved)
	}
	return nil
}

// Comment prompts for text and submits a comment on a post. Prefixing the
// text with "@<comment-id> " turns it into a reply.
func (a *App) Comment(ctx context.Context, args []string) error {
	id, err := a.postArg(args)
	if err != nil {
		return err
	}
	if a.feed == nil {
		return errNoFeed
	}

	text, err := getMultiline(a.reader, "Your comment", os.Stdout)
	if err != nil {
		return err
	}
	if text == "" {
		return errors.New("empty comment")
	}

	parentID := ""
	if strings.HasPrefix(text, "@") {
		if sp := strings.IndexByte(text, ' '); sp > 1 {
			parentID = text[1:sp]
			text = strings.TrimSpace(text[sp+1:])
		}
	}

	if err := a.feed.Comment(ctx, id, text, parentID); err != nil {
		return err
	}
	printlnFn("Comment posted")
	return nil
}

// Likes pages through the users who liked a post. An empty page ends the
// listing.
func (a *App) Likes(ctx context.Context, args []string) error {
	id, err := a.postArg(args)
	if err != nil {
		return err
	}

	pager := feed.NewPager(func(ctx context.Context, page int) ([]models.User, error) {
		return a.client.FetchLikeUsers(ctx, id, page)
	})
	if err := pager.LoadFirst(ctx); err != nil {
		return err
	}
	for pager.HasMore() {
		if err := pager.LoadMore(ctx); err != nil {
			return err
		}
	}

	users := pager.Items()
	if len(users) == 0 {
		printlnFn("No likes yet")
		return nil
	}
	for _, u := range users {
		printlnFn(" ", u.Name)
	}
	return nil
}

// Delete removes one of the viewer's own posts, after confirmation. Posts
// of other users are refused locally.
func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.postArg(args)
	if err != nil {
		return err
	}
	if a.feed == nil {
		return errNoFeed
	}

	answer, err := getSimpleText(a.reader, "Delete this post? (y/n)", os.Stdout)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") {
		return nil
	}

	if err := a.feed.Delete(ctx, id); err != nil {
		return err
	}
	a.tracker.SetItems(a.feed.Posts())
	printlnFn("Post deleted")
	return nil
}
