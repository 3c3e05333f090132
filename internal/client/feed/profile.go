package feed

import (
	"context"
	"sync"

	"github.com/uniyatwon/yatwon/internal/client/api"
	"github.com/uniyatwon/yatwon/internal/client/models"
	"github.com/uniyatwon/yatwon/internal/common"
	"github.com/uniyatwon/yatwon/internal/logging"
)

// ProfileView is the view-state for one profile screen. Following uses the
// same optimistic protocol as likes: flip the flag and follower count
// locally, then restore the snapshot exactly if the request fails.
type ProfileView struct {
	mu     sync.Mutex
	client api.Client
	log    logging.Logger

	profile  models.Profile
	loaded   bool
	inFlight bool
	alive    bool

	wg       sync.WaitGroup
	onChange func()
}

func NewProfileView(client api.Client, log logging.Logger) *ProfileView {
	return &ProfileView{
		client: client,
		log:    log.With("component", "profile"),
		alive:  true,
	}
}

func (v *ProfileView) SetOnChange(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onChange = fn
}

func (v *ProfileView) notify() {
	v.mu.Lock()
	fn := v.onChange
	v.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (v *ProfileView) Close() {
	v.mu.Lock()
	v.alive = false
	v.mu.Unlock()
}

func (v *ProfileView) Wait() {
	v.wg.Wait()
}

// LoadMine fetches the viewer's own profile.
func (v *ProfileView) LoadMine(ctx context.Context) error {
	p, err := v.client.FetchMyProfile(ctx)
	return v.store(p, err)
}

// Load fetches another user's profile, including the viewer's following
// state toward them.
func (v *ProfileView) Load(ctx context.Context, userID string) error {
	p, err := v.client.FetchProfile(ctx, userID)
	return v.store(p, err)
}

func (v *ProfileView) store(p models.Profile, err error) error {
	if err != nil {
		return err
	}
	v.mu.Lock()
	if v.alive {
		v.profile = p
		v.loaded = true
	}
	v.mu.Unlock()
	v.notify()
	return nil
}

// Profile returns the current profile snapshot.
func (v *ProfileView) Profile() (models.Profile, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.profile, v.loaded
}

// ToggleFollow flips the viewer's following state toward the shown user.
func (v *ProfileView) ToggleFollow(ctx context.Context) error {
	v.mu.Lock()
	if !v.alive {
		v.mu.Unlock()
		return nil
	}
	if !v.loaded {
		v.mu.Unlock()
		return common.ErrBusy
	}
	if v.inFlight {
		v.mu.Unlock()
		return common.ErrBusy
	}
	v.inFlight = true

	prevFollowing := v.profile.Following
	prevFollowers := v.profile.Followers
	userID := v.profile.UUID
	if v.profile.Following {
		v.profile.Following = false
		v.profile.Followers--
	} else {
		v.profile.Following = true
		v.profile.Followers++
	}
	if v.profile.Followers < 0 {
		v.profile.Followers = 0
	}
	v.mu.Unlock()
	v.notify()

	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		_, err := v.client.ToggleFollow(ctx, userID)

		v.mu.Lock()
		v.inFlight = false
		if !v.alive {
			v.mu.Unlock()
			return
		}
		if err != nil && v.profile.UUID == userID {
			v.profile.Following = prevFollowing
			v.profile.Followers = prevFollowers
		}
		v.mu.Unlock()
		v.notify()

		if err != nil {
			v.log.Warn(ctx, "follow rolled back", "user", userID, "err", err)
		}
	}()
	return nil
}
