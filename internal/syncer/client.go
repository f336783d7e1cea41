package syncer

import (
	"context"
	"log"
	"time"

	"resty.dev/v3"

	"github.com/fluffyriot/feedbuddy/internal/feed"
	"github.com/fluffyriot/feedbuddy/internal/metrics"
)

// DefaultTimeout bounds every backend call so a slow network never stalls
// the extraction cadence.
const DefaultTimeout = 15 * time.Second

type syncRequest struct {
	Posts []feed.Post `json:"posts"`
}

type syncResponse struct {
	Success       bool `json:"success"`
	PostsReceived int  `json:"postsReceived"`
	TotalStored   int  `json:"totalStored"`
}

type chatRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"maxResults"`
}

type chatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
}

// Client pushes extracted posts to the backend and asks it questions,
// degrading to the local store when the backend is unreachable. Callers
// never see an error from either path.
type Client struct {
	http    *resty.Client
	baseURL string
	local   *feed.Store
}

func NewClient(baseURL string, local *feed.Store, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &Client{
		http:    client,
		baseURL: baseURL,
		local:   local,
	}
}

func (c *Client) Close() error {
	return c.http.Close()
}

// Sync is a fire-and-forget push of newly extracted posts. Failures are
// logged and swallowed; sync must never block or throw into the extraction
// path.
func (c *Client) Sync(ctx context.Context, posts []feed.Post) {
	if len(posts) == 0 {
		return
	}

	res, err := c.http.R().
		WithContext(ctx).
		SetBody(syncRequest{Posts: posts}).
		SetResult(&syncResponse{}).
		Post("/api/posts")
	if err != nil {
		metrics.SyncFailures.Inc()
		log.Printf("Syncer: push failed, will retry on next pass: %v", err)
		return
	}
	if res.IsError() {
		metrics.SyncFailures.Inc()
		log.Printf("Syncer: push rejected: %s", res.Status())
		return
	}

	result := res.Result().(*syncResponse)
	log.Printf("Syncer: pushed %d posts, backend stores %d", result.PostsReceived, result.TotalStored)
}

// Ask forwards a question to the query service and falls back to the local
// keyword search on any failure. It always returns a non-empty answer.
func (c *Client) Ask(ctx context.Context, query string) string {
	res, err := c.http.R().
		WithContext(ctx).
		SetBody(chatRequest{Query: query, MaxResults: 5}).
		SetResult(&chatResponse{}).
		Post("/api/chat")
	if err != nil {
		log.Printf("Syncer: chat request failed, using local search: %v", err)
		metrics.ChatFallbacks.Inc()
		return feed.Search(c.local, query)
	}
	if res.IsError() {
		log.Printf("Syncer: chat request rejected (%s), using local search", res.Status())
		metrics.ChatFallbacks.Inc()
		return feed.Search(c.local, query)
	}

	answer := res.Result().(*chatResponse).Response
	if answer == "" {
		return "I found some information but couldn't generate a response."
	}
	return answer
}
