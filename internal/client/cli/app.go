package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/uniyatwon/yatwon/internal/client/api"
	"github.com/uniyatwon/yatwon/internal/client/config"
	"github.com/uniyatwon/yatwon/internal/client/feed"
	"github.com/uniyatwon/yatwon/internal/client/models"
	"github.com/uniyatwon/yatwon/internal/client/services"
	"github.com/uniyatwon/yatwon/internal/client/session"
	"github.com/uniyatwon/yatwon/internal/logging"

	_ "modernc.org/sqlite"
)

// App is the interactive client: one instance per process, holding the
// session, the current feed screen, and the services behind the commands.
type App struct {
	config   *config.Config
	store    *session.Store
	client   api.Client
	auth     services.AuthService
	profiles services.ProfileService
	log      logging.Logger

	session *models.Session
	feed    *feed.Controller
	profile *feed.ProfileView
	tracker *feed.VisibilityTracker
	notis   []models.Notification
	reader  *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	store, err := session.Open(ctx, c.SessionDBPath, log)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	apiClient := api.NewHTTPClient(c.APIBaseURL, store, log)

	a := &App{
		config:   c,
		store:    store,
		client:   apiClient,
		auth:     services.NewAuthService(apiClient, store, c.PushDeviceToken, log),
		profiles: services.NewProfileService(apiClient, store, log),
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
	}
	a.tracker = feed.NewVisibilityTracker(
		func(id string) { printlnFn("▶ playing video of post", id) },
		func(id string) { printlnFn("⏸ paused video of post", id) },
	)
	return a, nil
}

// Run restores the saved session, then hands control to the REPL. It blocks
// until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	sess, err := a.auth.Restore(ctx)
	if err != nil {
		a.log.Warn(ctx, "session restore failed", "err", err)
	}
	a.session = sess
	if sess != nil {
		printlnFn("Welcome back,", sess.Name)
	}

	printlnFn("Uni Yatwon CLI (type 'help' for commands)")

	watchCtx, stopWatcher := context.WithCancel(ctx)
	defer stopWatcher()
	go a.StartNotificationWatcher(watchCtx, a.config.NotiCheckInterval)

	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

// StartNotificationWatcher polls the notifications endpoint and announces
// unread ones between commands. A zero or negative interval disables it.
func (a *App) StartNotificationWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastUnread := -1
	for {
		select {
		case <-ticker.C:
			if !a.auth.Current().Valid() {
				continue
			}
			callCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			ns, err := a.client.FetchNotifications(callCtx)
			cancel()
			if err != nil {
				continue
			}
			unread := 0
			for _, n := range ns {
				if !n.Read {
					unread++
				}
			}
			if unread > 0 && unread != lastUnread {
				printlnFn(fmt.Sprintf("%d unread notifications (run 'noti')", unread))
			}
			lastUnread = unread

		case <-ctx.Done():
			return
		}
	}
}

// Close releases the session store and waits out pending feed work.
func (a *App) Close() {
	if a.feed != nil {
		a.feed.Close()
		a.feed.Wait()
	}
	if a.profile != nil {
		a.profile.Close()
		a.profile.Wait()
	}
	_ = a.store.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session.Valid()
}

func (a *App) isAdmin() bool {
	return a.session.Valid() && a.session.IsAdmin
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return ""
	}
	s := a.session.Name
	if a.session.IsAdmin {
		s += " admin"
	}
	return fmt.Sprintf("(%s)", s)
}
