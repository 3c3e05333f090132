package feed

import (
	"sync"

	"github.com/uniyatwon/yatwon/internal/client/models"
)

// VisibilityThreshold is the fraction of an item that must be on screen
// before it becomes the active item.
const VisibilityThreshold = 0.60

// VisibilityTracker decides which single feed item is "active" as the
// viewer scrolls, and drives video playback off that decision. Only posts
// with exactly one video attachment autoplay; multi-media carousels and
// image posts never do.
type VisibilityTracker struct {
	mu        sync.Mutex
	onPlay    func(postID string)
	onPause   func(postID string)
	order     []string
	fractions map[string]float64
	video     map[string]bool
	active    string
	playing   string
}

func NewVisibilityTracker(onPlay, onPause func(postID string)) *VisibilityTracker {
	return &VisibilityTracker{
		onPlay:    onPlay,
		onPause:   onPause,
		fractions: make(map[string]float64),
		video:     make(map[string]bool),
	}
}

// SetItems declares the current list, in display order. Items that
// disappeared are forgotten; a playing video that left the list is paused.
func (t *VisibilityTracker) SetItems(posts []models.Post) {
	t.mu.Lock()
	order := make([]string, 0, len(posts))
	video := make(map[string]bool, len(posts))
	for _, p := range posts {
		order = append(order, p.ID)
		video[p.ID] = len(p.Media) == 1 && p.Media[0].Type == models.MediaVideo
	}
	t.order = order
	t.video = video
	for id := range t.fractions {
		if _, ok := video[id]; !ok {
			delete(t.fractions, id)
		}
	}
	pause := ""
	if t.playing != "" {
		if _, ok := video[t.playing]; !ok {
			pause = t.playing
			t.playing = ""
		}
	}
	if t.active != "" {
		if _, ok := video[t.active]; !ok {
			t.active = ""
		}
	}
	t.mu.Unlock()

	if pause != "" && t.onPause != nil {
		t.onPause(pause)
	}
}

// Update records how much of an item is visible and re-evaluates the
// active item. Unknown ids are ignored.
func (t *VisibilityTracker) Update(postID string, fraction float64) {
	t.mu.Lock()
	if _, known := t.video[postID]; !known {
		t.mu.Unlock()
		return
	}
	t.fractions[postID] = fraction

	// The current active item keeps its slot while it stays above the
	// threshold; otherwise the first sufficiently visible item wins.
	next := ""
	if t.active != "" && t.fractions[t.active] >= VisibilityThreshold {
		next = t.active
	} else {
		for _, id := range t.order {
			if t.fractions[id] >= VisibilityThreshold {
				next = id
				break
			}
		}
	}
	t.active = next

	pause, play := "", ""
	want := ""
	if next != "" && t.video[next] {
		want = next
	}
	if t.playing != want {
		pause = t.playing
		play = want
		t.playing = want
	}
	t.mu.Unlock()

	if pause != "" && t.onPause != nil {
		t.onPause(pause)
	}
	if play != "" && t.onPlay != nil {
		t.onPlay(play)
	}
}

// Focus makes one item the only visible item, as when it is opened full
// screen. Everything else is treated as scrolled away.
func (t *VisibilityTracker) Focus(postID string) {
	t.mu.Lock()
	for id := range t.fractions {
		t.fractions[id] = 0
	}
	t.mu.Unlock()
	t.Update(postID, 1.0)
}

// Active returns the id of the current active item, or "".
func (t *VisibilityTracker) Active() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// PauseAll stops any playing video, e.g. when the screen loses focus.
func (t *VisibilityTracker) PauseAll() {
	t.mu.Lock()
	pause := t.playing
	t.playing = ""
	t.active = ""
	t.mu.Unlock()

	if pause != "" && t.onPause != nil {
		t.onPause(pause)
	}
}
