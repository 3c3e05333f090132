package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/uniyatwon/yatwon/internal/timex"
)

// Notifications fetches and lists the viewer's notifications, newest first
// as the server sends them.
func (a *App) Notifications(ctx context.Context) error {
	notis, err := a.client.FetchNotifications(ctx)
	if err != nil {
		return err
	}
	a.notis = notis

	if len(notis) == 0 {
		printlnFn("No notifications")
		return nil
	}
	for i, n := range notis {
		marker := "•"
		if n.Read {
			marker = " "
		}
		printlnFn(fmt.Sprintf("%s #%d %s %s · %s", marker, i+1, n.FromName, n.Message, timex.TimeAgo(n.CreatedAt)))
	}
	return nil
}

// Read marks a notification as read and opens its post, if it points at
// one. The read state is local only; the server keeps sending it unchanged.
func (a *App) Read(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("which notification? pass a number from 'noti'")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(a.notis) {
		return errors.New("no such notification")
	}

	a.notis[n-1].Read = true
	if postID := a.notis[n-1].PostID; postID != "" {
		return a.Open(ctx, []string{postID})
	}
	return nil
}
