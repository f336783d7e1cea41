package browser

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/fluffyriot/feedbuddy/internal/observer"
)

const mutationBinding = "feedbuddyMutation"

// observerScript installs a page MutationObserver that forwards the outer
// HTML of every inserted element through the CDP binding. Installed on every
// new document so SPA navigations keep reporting.
const observerScript = `(function() {
	if (window.__feedbuddyObserver) return;
	var send = function(html) {
		try { window.` + mutationBinding + `(html); } catch (e) {}
	};
	window.__feedbuddyObserver = new MutationObserver(function(mutations) {
		for (var i = 0; i < mutations.length; i++) {
			var added = mutations[i].addedNodes;
			for (var j = 0; j < added.length; j++) {
				if (added[j].nodeType === 1) send(added[j].outerHTML);
			}
		}
	});
	var attach = function() {
		if (document.body) {
			window.__feedbuddyObserver.observe(document.body, {childList: true, subtree: true});
		} else {
			setTimeout(attach, 100);
		}
	};
	attach();
})();`

// Session drives one headless browser against the feed page and streams
// DOM insertions as observer mutations.
type Session struct {
	feedURL string
	events  chan observer.Mutation

	ctx         context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
}

func NewSession(feedURL string) *Session {
	return &Session{
		feedURL: feedURL,
		events:  make(chan observer.Mutation, 256),
	}
}

// Start allocates the browser, installs the mutation binding, and navigates
// to the feed surface.
func (s *Session) Start(ctx context.Context) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		chromedp.WindowSize(1920, 1080),
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx)
	s.ctx = browserCtx
	s.cancelAlloc = cancelAlloc
	s.cancelCtx = cancelCtx

	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		if e, ok := ev.(*runtime.EventBindingCalled); ok && e.Name == mutationBinding {
			select {
			case s.events <- observer.Mutation{HTML: e.Payload}:
			default:
				// A full buffer means a pass is already overdue; dropping
				// is safe because the periodic resync re-scans everything.
			}
		}
	})

	err := chromedp.Run(browserCtx,
		runtime.Enable(),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if err := runtime.AddBinding(mutationBinding).Do(ctx); err != nil {
				return err
			}
			_, err := page.AddScriptToEvaluateOnNewDocument(observerScript).Do(ctx)
			return err
		}),
		chromedp.Navigate(s.feedURL),
		chromedp.Evaluate(observerScript, nil),
	)
	if err != nil {
		return fmt.Errorf("Browser: navigation failed: %w", err)
	}

	log.Printf("Browser: watching %s", s.feedURL)
	return nil
}

// Events is the mutation channel consumed by the change observer.
func (s *Session) Events() <-chan observer.Mutation {
	return s.events
}

// Snapshot returns the current serialized page HTML for a full extraction
// pass.
func (s *Session) Snapshot(ctx context.Context) (string, error) {
	var html string
	if err := chromedp.Run(s.ctx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", err
	}
	return html, nil
}

// CurrentURL reports the page location, which moves under SPA navigation
// without a reload.
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	var loc string
	if err := chromedp.Run(s.ctx, chromedp.Location(&loc)); err != nil {
		return "", err
	}
	return loc, nil
}

func (s *Session) Close() {
	if s.cancelCtx != nil {
		s.cancelCtx()
	}
	if s.cancelAlloc != nil {
		s.cancelAlloc()
	}
}

// OnFeedSurface reports whether a URL is the scrollable feed surface.
// Notification routes never qualify.
func OnFeedSurface(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if IsNotificationsPage(raw) {
		return false
	}
	path := u.Path
	return path == "/" || path == "" || path == "/feed/" || strings.HasPrefix(path, "/feed")
}

func IsNotificationsPage(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return strings.HasPrefix(u.Path, "/notifications")
}
