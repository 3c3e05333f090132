package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/uniyatwon/yatwon/internal/client/models"
)

func parseSearchTab(s string) (models.SearchTab, bool) {
	switch models.SearchTab(s) {
	case models.SearchAll, models.SearchUsers, models.SearchPosts,
		models.SearchLostFound, models.SearchAnnouncements:
		return models.SearchTab(s), true
	}
	return "", false
}

// Search runs a query and lists mixed user/post results. The first argument
// may name a tab (all, users, normal, lost_found, announcement); the rest is
// the query. Submitting a search records it in the server-side history, and
// opening a result records the tap with its target.
func (a *App) Search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("search what? usage: search [tab] <query>")
	}

	tab := models.SearchAll
	if t, ok := parseSearchTab(args[0]); ok && len(args) > 1 {
		tab = t
		args = args[1:]
	}
	query := strings.Join(args, " ")

	results, err := a.client.Search(ctx, tab, query)
	if err != nil {
		return err
	}

	// History records the submitted query even when nothing matched.
	if err := a.client.SaveSearchHistory(ctx, query, "", models.TargetQuery); err != nil {
		a.log.Warn(ctx, "saving search history failed", "err", err)
	}

	if len(results) == 0 {
		printlnFn("No results")
		return nil
	}
	for i, r := range results {
		switch r.Type {
		case models.TargetUser:
			printlnFn(fmt.Sprintf("#%d user %s", i+1, r.User.Name))
		default:
			printlnFn(fmt.Sprintf("#%d [%s] %s: %s", i+1, r.Post.Category, r.Post.AuthorName, firstLine(r.Post.Description)))
		}
	}

	answer, err := getSimpleText(a.reader, "Open which result? (number or empty)", os.Stdout)
	if err != nil || answer == "" {
		return err
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(results) {
		return errors.New("no such result")
	}
	return a.openResult(ctx, results[n-1])
}

func (a *App) openResult(ctx context.Context, r models.SearchResult) error {
	switch r.Type {
	case models.TargetUser:
		if err := a.client.SaveSearchHistory(ctx, r.User.Name, r.User.UUID, models.TargetUser); err != nil {
			a.log.Warn(ctx, "saving search history failed", "err", err)
		}
		return a.Profile(ctx, []string{r.User.UUID})
	default:
		if err := a.client.SaveSearchHistory(ctx, firstLine(r.Post.Description), r.Post.ID, models.TargetPost); err != nil {
			a.log.Warn(ctx, "saving search history failed", "err", err)
		}
		return a.Open(ctx, []string{r.Post.ID})
	}
}

// History lists past searches and taps, and offers a one-shot delete.
func (a *App) History(ctx context.Context) error {
	entries, err := a.client.FetchSearchHistory(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		printlnFn("No search history")
		return nil
	}
	for _, e := range entries {
		line := fmt.Sprintf("  %s  %s", e.ID, e.Query)
		if e.Target != models.TargetQuery {
			line += fmt.Sprintf(" (%s)", e.Target)
		}
		printlnFn(line)
	}

	answer, err := getSimpleText(a.reader, "Delete which entry? (id or empty)", os.Stdout)
	if err != nil || answer == "" {
		return err
	}
	if err := a.client.DeleteSearchHistory(ctx, answer); err != nil {
		return err
	}
	printlnFn("Deleted")
	return nil
}
