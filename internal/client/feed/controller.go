// Package feed holds the per-screen view-state controllers: optimistic
// toggle mutations, page-by-page list growth, and the active-item tracking
// that drives video autoplay.
package feed

import (
	"context"
	"errors"
	"sync"

	"github.com/uniyatwon/yatwon/internal/client/api"
	"github.com/uniyatwon/yatwon/internal/client/models"
	"github.com/uniyatwon/yatwon/internal/common"
	"github.com/uniyatwon/yatwon/internal/logging"
)

// ErrUnknownPost is returned when an action targets a post that is not in
// the controller's list (e.g. removed by a concurrent delete).
var ErrUnknownPost = errors.New("unknown post")

// Controller owns one screen's copy of the feed. Screens do not share
// state: each screen constructs its own controller and re-fetches on focus.
//
// Toggle mutations follow the optimistic protocol: snapshot, flip locally,
// fire the request, and on resolution either keep/overwrite with the
// server's authoritative value or restore the snapshot exactly. A toggle
// already in flight for the same post and action swallows the duplicate
// intent with common.ErrBusy.
type Controller struct {
	mu       sync.Mutex
	client   api.Client
	log      logging.Logger
	viewerID string

	posts    []models.Post
	category models.Category
	inFlight map[string]struct{}
	alive    bool
	loading  bool

	wg       sync.WaitGroup
	onChange func()
}

func NewController(client api.Client, viewerID string, log logging.Logger) *Controller {
	return &Controller{
		client:   client,
		log:      log.With("component", "feed"),
		viewerID: viewerID,
		inFlight: make(map[string]struct{}),
		alive:    true,
	}
}

// SetOnChange registers a render hook invoked after every state mutation.
func (c *Controller) SetOnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

func (c *Controller) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Close marks the screen unmounted. In-flight resolutions finish their
// network call but no longer touch view-state.
func (c *Controller) Close() {
	c.mu.Lock()
	c.alive = false
	c.mu.Unlock()
}

// Wait blocks until all in-flight toggle resolutions have run. Used by the
// CLI before rendering and by tests.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Load fetches and replaces the screen's posts for the given category.
// A failure leaves the previous list in place.
func (c *Controller) Load(ctx context.Context, category models.Category) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return common.ErrBusy
	}
	c.loading = true
	c.mu.Unlock()

	posts, err := c.client.FetchPosts(ctx, category)

	c.mu.Lock()
	c.loading = false
	if err != nil || !c.alive {
		c.mu.Unlock()
		return err
	}
	c.posts = posts
	c.category = category
	c.mu.Unlock()

	c.notify()
	return nil
}

// Posts returns a copy of the current list.
func (c *Controller) Posts() []models.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Post, len(c.posts))
	copy(out, c.posts)
	return out
}

// Post returns the post with the given id, if present.
func (c *Controller) Post(id string) (models.Post, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(id); i >= 0 {
		return c.posts[i], true
	}
	return models.Post{}, false
}

func (c *Controller) indexLocked(id string) int {
	for i := range c.posts {
		if c.posts[i].ID == id {
			return i
		}
	}
	return -1
}

// toggleOp describes one optimistic toggle: how to snapshot, apply and
// restore the local state, and which endpoint to call.
type toggleOp struct {
	action    string
	snapshot  func(p *models.Post) (flag bool, count int)
	apply     func(p *models.Post)
	restore   func(p *models.Post, flag bool, count int)
	call      func(ctx context.Context) (*api.ToggleResult, error)
	reconcile func(p *models.Post, res *api.ToggleResult)
}

func (c *Controller) toggle(ctx context.Context, postID string, op toggleOp) error {
	c.mu.Lock()
	if !c.alive {
		c.mu.Unlock()
		return nil
	}
	idx := c.indexLocked(postID)
	if idx < 0 {
		c.mu.Unlock()
		return ErrUnknownPost
	}

	key := op.action + ":" + postID
	if _, busy := c.inFlight[key]; busy {
		c.mu.Unlock()
		return common.ErrBusy
	}
	c.inFlight[key] = struct{}{}

	prevFlag, prevCount := op.snapshot(&c.posts[idx])
	op.apply(&c.posts[idx])
	c.mu.Unlock()
	c.notify()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		res, err := op.call(ctx)

		c.mu.Lock()
		delete(c.inFlight, key)
		// Liveness check: never mutate view-state after unmount.
		if !c.alive {
			c.mu.Unlock()
			return
		}
		if i := c.indexLocked(postID); i >= 0 {
			if err != nil {
				op.restore(&c.posts[i], prevFlag, prevCount)
			} else {
				op.reconcile(&c.posts[i], res)
			}
		}
		c.mu.Unlock()
		c.notify()

		if err != nil {
			c.log.Warn(ctx, "toggle rolled back", "action", op.action, "post", postID, "err", err)
		}
	}()
	return nil
}

// ToggleLike flips the viewer's like on a post.
func (c *Controller) ToggleLike(ctx context.Context, postID string) error {
	return c.toggle(ctx, postID, toggleOp{
		action: "like",
		snapshot: func(p *models.Post) (bool, int) {
			return p.Liked, p.LikeCount
		},
		apply: func(p *models.Post) {
			if p.Liked {
				p.Liked = false
				p.LikeCount--
			} else {
				p.Liked = true
				p.LikeCount++
			}
			if p.LikeCount < 0 {
				p.LikeCount = 0
			}
		},
		restore: func(p *models.Post, flag bool, count int) {
			p.Liked = flag
			p.LikeCount = count
		},
		call: func(ctx context.Context) (*api.ToggleResult, error) {
			return c.client.ToggleLike(ctx, postID)
		},
		reconcile: func(p *models.Post, res *api.ToggleResult) {
			if res != nil && res.Count != nil && *res.Count >= 0 {
				p.LikeCount = *res.Count
			}
		},
	})
}

// ToggleSave flips the viewer's bookmark on a post. No counter is involved.
func (c *Controller) ToggleSave(ctx context.Context, postID string) error {
	return c.toggle(ctx, postID, toggleOp{
		action: "save",
		snapshot: func(p *models.Post) (bool, int) {
			return p.Saved, 0
		},
		apply: func(p *models.Post) {
			p.Saved = !p.Saved
		},
		restore: func(p *models.Post, flag bool, _ int) {
			p.Saved = flag
		},
		call: func(ctx context.Context) (*api.ToggleResult, error) {
			return c.client.ToggleSave(ctx, postID)
		},
		reconcile: func(p *models.Post, res *api.ToggleResult) {},
	})
}

// Delete removes the viewer's own post. Deletion is not optimistic: the
// item leaves the list only after the server confirms, and the delete is
// refused locally for posts the viewer does not own.
func (c *Controller) Delete(ctx context.Context, postID string) error {
	c.mu.Lock()
	idx := c.indexLocked(postID)
	if idx < 0 {
		c.mu.Unlock()
		return ErrUnknownPost
	}
	if !c.posts[idx].OwnedBy(c.viewerID) {
		c.mu.Unlock()
		return common.ErrNotPermitted
	}

	key := "delete:" + postID
	if _, busy := c.inFlight[key]; busy {
		c.mu.Unlock()
		return common.ErrBusy
	}
	c.inFlight[key] = struct{}{}
	c.mu.Unlock()

	err := c.client.DeletePost(ctx, postID)

	c.mu.Lock()
	delete(c.inFlight, key)
	if err != nil || !c.alive {
		c.mu.Unlock()
		return err
	}
	if i := c.indexLocked(postID); i >= 0 {
		c.posts = append(c.posts[:i], c.posts[i+1:]...)
	}
	c.mu.Unlock()

	c.notify()
	return nil
}

// Comment submits a comment (or a reply when parentID is set) and, on
// success, refreshes the post's comment list from the server.
func (c *Controller) Comment(ctx context.Context, postID, text, parentID string) error {
	if err := c.client.SubmitComment(ctx, postID, text, parentID); err != nil {
		return err
	}

	comments, err := c.client.FetchComments(ctx, postID)
	if err != nil {
		// The comment went through; stale local comments are acceptable.
		c.log.Warn(ctx, "comment refresh failed", "post", postID, "err", err)
		return nil
	}

	c.mu.Lock()
	if c.alive {
		if i := c.indexLocked(postID); i >= 0 {
			c.posts[i].Comments = comments
		}
	}
	c.mu.Unlock()
	c.notify()
	return nil
}
