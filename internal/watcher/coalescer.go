package watcher

import (
	"slices"
	"sync"
	"time"
)

// ChangeKind classifies a workspace file change.
type ChangeKind int

const (
	Created ChangeKind = iota
	Written
	Removed
)

// String returns the kind name used in logs and metrics.
func (k ChangeKind) String() string {
	switch k {
	case Created:
		return "created"
	case Written:
		return "written"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Change is a settled change to one workspace file.
type Change struct {
	Path string
	Kind ChangeKind
	At   time.Time
}

// Coalescer folds bursts of filesystem notifications for the same file
// into one Change. A change is released once its file has been quiet for
// the debounce window, or for the removal grace period when the file is
// gone, so an editor's save-by-rename is reported as a single write.
type Coalescer struct {
	debounce time.Duration
	grace    time.Duration

	mu      sync.Mutex
	pending map[string]*pendingChange
	stopped bool

	wake     chan struct{}
	out      chan Change
	done     chan struct{}
	finished chan struct{}
}

type pendingChange struct {
	change Change
	due    time.Time
}

// NewCoalescer starts a coalescer.
func NewCoalescer(debounce, grace time.Duration) *Coalescer {
	c := &Coalescer{
		debounce: debounce,
		grace:    grace,
		pending:  make(map[string]*pendingChange),
		wake:     make(chan struct{}, 1),
		out:      make(chan Change, 256),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	go c.run()
	return c
}

// Add records a notification, restarting the quiet period of its file.
func (c *Coalescer) Add(change Change) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}

	if p, ok := c.pending[change.Path]; ok {
		merged, keep := mergeChanges(p.change, change)
		if !keep {
			delete(c.pending, change.Path)
			return
		}
		change = merged
	}

	c.pending[change.Path] = &pendingChange{
		change: change,
		due:    time.Now().Add(c.delay(change.Kind)),
	}

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Changes returns the channel of settled changes. It is closed by Stop.
func (c *Coalescer) Changes() <-chan Change {
	return c.out
}

// Pending returns the number of files with an unsettled change.
func (c *Coalescer) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Stop discards unsettled changes and closes the Changes channel.
func (c *Coalescer) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	clear(c.pending)
	c.mu.Unlock()

	close(c.done)
	<-c.finished
	close(c.out)
}

// run releases changes as they come due.
func (c *Coalescer) run() {
	defer close(c.finished)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		ready, next := c.settled(time.Now())
		for _, change := range ready {
			select {
			case c.out <- change:
			case <-c.done:
				return
			}
		}

		var tick <-chan time.Time
		if !next.IsZero() {
			timer.Reset(time.Until(next))
			tick = timer.C
		}

		select {
		case <-tick:
		case <-c.wake:
			timer.Stop()
		case <-c.done:
			return
		}
	}
}

// settled removes and returns the changes due by now, oldest deadline
// first, along with the earliest remaining deadline.
func (c *Coalescer) settled(now time.Time) ([]Change, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		ready []*pendingChange
		next  time.Time
	)
	for path, p := range c.pending {
		if !p.due.After(now) {
			ready = append(ready, p)
			delete(c.pending, path)
			continue
		}
		if next.IsZero() || p.due.Before(next) {
			next = p.due
		}
	}

	slices.SortFunc(ready, func(a, b *pendingChange) int { return a.due.Compare(b.due) })
	changes := make([]Change, len(ready))
	for i, p := range ready {
		changes[i] = p.change
	}
	return changes, next
}

func (c *Coalescer) delay(kind ChangeKind) time.Duration {
	if kind == Removed {
		return c.grace
	}
	return c.debounce
}

// mergeChanges folds a new notification into a pending change. It reports
// false when the pair cancels out: a file created and removed inside one
// window, which is how editors handle their temporary copies.
func mergeChanges(pending, next Change) (Change, bool) {
	merged := next

	switch {
	case pending.Kind == Created && next.Kind == Removed:
		return Change{}, false
	case pending.Kind == Created && next.Kind == Written:
		merged.Kind = Created
	case pending.Kind == Removed && next.Kind == Created:
		// Save-by-rename: the entry file was replaced.
		merged.Kind = Written
	}

	return merged, true
}
