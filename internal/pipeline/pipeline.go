package pipeline

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/fluffyriot/feedbuddy/internal/browser"
	"github.com/fluffyriot/feedbuddy/internal/extractor"
	"github.com/fluffyriot/feedbuddy/internal/feed"
	"github.com/fluffyriot/feedbuddy/internal/metrics"
	"github.com/fluffyriot/feedbuddy/internal/observer"
	"github.com/fluffyriot/feedbuddy/internal/settings"
)

// Source is the watched page: a stream of DOM insertions plus on-demand
// full snapshots.
type Source interface {
	Events() <-chan observer.Mutation
	Snapshot(ctx context.Context) (string, error)
	CurrentURL(ctx context.Context) (string, error)
}

// Pusher mirrors admitted posts to the backend.
type Pusher interface {
	Sync(ctx context.Context, posts []feed.Post)
}

// Pipeline owns the extraction state for one watched page: settings, local
// store, change observer, and sync client, all injected. Lifecycle is
// New → Start → Stop.
type Pipeline struct {
	source   Source
	pusher   Pusher
	store    *feed.Store
	settings *settings.Store

	observer       *observer.Observer
	resyncInterval time.Duration

	ticker   *time.Ticker
	stopChan chan struct{}
	mu       sync.Mutex
	running  bool
	active   bool
}

func New(source Source, pusher Pusher, store *feed.Store, st *settings.Store, debounce, resyncInterval time.Duration) *Pipeline {
	if resyncInterval <= 0 {
		resyncInterval = 30 * time.Second
	}
	p := &Pipeline{
		source:         source,
		pusher:         pusher,
		store:          store,
		settings:       st,
		resyncInterval: resyncInterval,
		// Buffered so Stop never blocks when the ticker loop already
		// exited through context cancellation.
		stopChan: make(chan struct{}, 1),
	}
	p.observer = observer.New(source.Events(), debounce,
		func() bool { return p.settings.Snapshot().ChatAssistant },
		func() { p.RunPass(context.Background()) },
	)
	return p
}

// Start runs an immediate extraction pass, starts the debounced observer
// consumer, and begins the periodic resync. A resync re-scans the full page,
// so mutations dropped under buffer pressure are recovered on the next tick.
func (p *Pipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.active {
		p.mu.Unlock()
		log.Println("Pipeline: already started")
		return
	}
	p.active = true
	p.mu.Unlock()

	p.RunPass(ctx)
	p.observer.Start(ctx)

	p.ticker = time.NewTicker(p.resyncInterval)
	go func() {
		defer func() {
			p.mu.Lock()
			p.active = false
			p.mu.Unlock()
		}()
		for {
			select {
			case <-ctx.Done():
				p.ticker.Stop()
				return
			case <-p.ticker.C:
				p.RunPass(ctx)
			case <-p.stopChan:
				p.ticker.Stop()
				return
			}
		}
	}()
	log.Printf("Pipeline: started, resync every %v", p.resyncInterval)
}

func (p *Pipeline) Stop() {
	p.mu.Lock()
	if !p.active {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.observer.Stop()
	select {
	case p.stopChan <- struct{}{}:
	default:
	}
	log.Println("Pipeline: stopped")
}

// RunPass performs one extraction pass: snapshot, extract, merge, push.
// Overlapping invocations are skipped, and the pass is inert when the chat
// assistant is off or the page left the feed surface.
func (p *Pipeline) RunPass(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		log.Println("Pipeline: pass already in progress, skipping")
		return
	}
	p.running = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	if !p.settings.Snapshot().ChatAssistant {
		return
	}

	pageURL, err := p.source.CurrentURL(ctx)
	if err != nil {
		log.Printf("Pipeline: could not read page location: %v", err)
		return
	}
	if !browser.OnFeedSurface(pageURL) {
		return
	}

	html, err := p.source.Snapshot(ctx)
	if err != nil {
		log.Printf("Pipeline: snapshot failed: %v", err)
		return
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Printf("Pipeline: could not parse snapshot: %v", err)
		return
	}

	posts := extractor.ExtractAll(doc, pageURL)
	metrics.PostsExtracted.Add(float64(len(posts)))
	if len(posts) == 0 {
		return
	}

	admitted := p.store.Merge(posts)
	metrics.PostsAdmitted.Add(float64(len(admitted)))
	if len(admitted) == 0 {
		return
	}

	log.Printf("Pipeline: extracted %d posts, %d new, store holds %d", len(posts), len(admitted), p.store.Len())
	p.pusher.Sync(ctx, admitted)
}
