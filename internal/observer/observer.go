package observer

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"
)

// Mutation is one "subtree inserted" event from the watched page.
type Mutation struct {
	// HTML is the outer markup of the inserted subtree.
	HTML string
}

// HasPostMarker reports whether the inserted subtree is or contains a feed
// post element.
func (m Mutation) HasPostMarker() bool {
	return strings.Contains(m.HTML, "feed-shared-update-v2")
}

// DefaultDebounce is how long the observer waits after the last qualifying
// mutation before running one extraction pass. Feed insertions arrive in
// bursts of tens of nodes; a single debounced pass avoids re-scanning
// overlapping subtrees per mutation.
const DefaultDebounce = 2 * time.Second

// Observer drains a mutation channel and schedules a single debounced
// extraction pass. Only one pending timer exists at a time; each qualifying
// mutation resets it. The enabled check runs inside the consumer, so turning
// the feature off leaves the source attached and simply drops events.
type Observer struct {
	events   <-chan Mutation
	debounce time.Duration
	enabled  func() bool
	onBatch  func()

	stopChan chan struct{}
	mu       sync.Mutex
	active   bool
}

func New(events <-chan Mutation, debounce time.Duration, enabled func() bool, onBatch func()) *Observer {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Observer{
		events:   events,
		debounce: debounce,
		enabled:  enabled,
		onBatch:  onBatch,
		// Buffered so Stop never blocks when the consumer already exited
		// through context cancellation.
		stopChan: make(chan struct{}, 1),
	}
}

func (o *Observer) Start(ctx context.Context) {
	o.mu.Lock()
	if o.active {
		o.mu.Unlock()
		log.Println("Observer: already running")
		return
	}
	o.active = true
	o.mu.Unlock()

	go o.run(ctx)
}

func (o *Observer) Stop() {
	o.mu.Lock()
	if !o.active {
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()

	select {
	case o.stopChan <- struct{}{}:
	default:
	}
}

func (o *Observer) run(ctx context.Context) {
	defer func() {
		o.mu.Lock()
		o.active = false
		o.mu.Unlock()
	}()

	var timer *time.Timer
	var fire <-chan time.Time

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-o.stopChan:
			return
		case m, ok := <-o.events:
			if !ok {
				return
			}
			if !o.enabled() || !m.HasPostMarker() {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(o.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					<-fire
				}
				timer.Reset(o.debounce)
			}
		case <-fire:
			timer = nil
			fire = nil
			o.onBatch()
		}
	}
}
