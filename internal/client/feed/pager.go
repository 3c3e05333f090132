package feed

import (
	"context"
	"sync"

	"github.com/uniyatwon/yatwon/internal/common"
)

// FetchPage loads one page of items. Pages are numbered from 1.
type FetchPage[T any] func(ctx context.Context, page int) ([]T, error)

// Pager grows a list page by page. An empty page marks the end of the
// collection; once exhausted, further LoadMore calls are no-ops. At most
// one fetch runs at a time.
type Pager[T any] struct {
	mu       sync.Mutex
	fetch    FetchPage[T]
	items    []T
	page     int
	hasMore  bool
	inFlight bool
}

func NewPager[T any](fetch FetchPage[T]) *Pager[T] {
	return &Pager[T]{fetch: fetch, hasMore: true}
}

// LoadFirst resets the pager and loads page one.
func (p *Pager[T]) LoadFirst(ctx context.Context) error {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return common.ErrBusy
	}
	p.inFlight = true
	p.mu.Unlock()

	items, err := p.fetch(ctx, 1)

	p.mu.Lock()
	p.inFlight = false
	if err != nil {
		p.mu.Unlock()
		return err
	}
	p.items = items
	p.page = 1
	p.hasMore = len(items) > 0
	p.mu.Unlock()
	return nil
}

// LoadMore appends the next page. It returns nil without fetching when the
// collection is exhausted, and common.ErrBusy when a fetch is already
// running.
func (p *Pager[T]) LoadMore(ctx context.Context) error {
	p.mu.Lock()
	if !p.hasMore {
		p.mu.Unlock()
		return nil
	}
	if p.inFlight {
		p.mu.Unlock()
		return common.ErrBusy
	}
	p.inFlight = true
	next := p.page + 1
	p.mu.Unlock()

	items, err := p.fetch(ctx, next)

	p.mu.Lock()
	p.inFlight = false
	if err != nil {
		p.mu.Unlock()
		return err
	}
	if len(items) == 0 {
		p.hasMore = false
	} else {
		p.items = append(p.items, items...)
		p.page = next
	}
	p.mu.Unlock()
	return nil
}

// Items returns a copy of everything loaded so far.
func (p *Pager[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

// HasMore reports whether another page may exist.
func (p *Pager[T]) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}
