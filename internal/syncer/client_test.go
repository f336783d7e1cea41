package syncer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fluffyriot/feedbuddy/internal/feed"
)

func storedPost(id, text string) feed.Post {
	return feed.Post{ID: id, Author: "Someone", Text: text}
}

func TestSync_PushesBatch(t *testing.T) {
	var gotPosts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/posts" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req struct {
			Posts []feed.Post `json:"posts"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		gotPosts = len(req.Posts)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true, "postsReceived": gotPosts, "totalStored": gotPosts,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, feed.NewStore(feed.LocalCapacity), time.Second)
	defer c.Close()

	c.Sync(context.Background(), []feed.Post{
		storedPost("a", "a body well over the admission threshold"),
		storedPost("b", "another body well over the admission threshold"),
	})
	if gotPosts != 2 {
		t.Fatalf("backend received %d posts, want 2", gotPosts)
	}
}

func TestSync_EmptyBatchSkipsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient(srv.URL, feed.NewStore(feed.LocalCapacity), time.Second)
	defer c.Close()

	c.Sync(context.Background(), nil)
	if called {
		t.Fatal("empty batch still hit the backend")
	}
}

func TestSync_BackendErrorSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, feed.NewStore(feed.LocalCapacity), time.Second)
	defer c.Close()

	// Must not panic or block; errors stay inside the client.
	c.Sync(context.Background(), []feed.Post{storedPost("a", "a body well over the admission threshold")})
}

func TestAsk_ReturnsBackendAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "response": "the backend answer"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, feed.NewStore(feed.LocalCapacity), time.Second)
	defer c.Close()

	if got := c.Ask(context.Background(), "anything"); got != "the backend answer" {
		t.Fatalf("Ask = %q", got)
	}
}

func TestAsk_FallsBackOnBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	local := feed.NewStore(feed.LocalCapacity)
	local.Merge([]feed.Post{storedPost("a", "a long post about kubernetes operations")})

	c := NewClient(srv.URL, local, time.Second)
	defer c.Close()

	got := c.Ask(context.Background(), "kubernetes")
	if !strings.Contains(got, "Found 1 posts") {
		t.Fatalf("expected local search fallback, got %q", got)
	}
}

func TestAsk_FallsBackWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, feed.NewStore(feed.LocalCapacity), time.Second)
	defer c.Close()

	got := c.Ask(context.Background(), "anything")
	if got == "" {
		t.Fatal("unreachable backend produced empty answer")
	}
	if !strings.Contains(got, "don't have any posts") {
		t.Fatalf("expected empty-store fallback message, got %q", got)
	}
}

func TestAsk_EmptyAnswerGetsPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "response": ""})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, feed.NewStore(feed.LocalCapacity), time.Second)
	defer c.Close()

	if got := c.Ask(context.Background(), "anything"); got == "" {
		t.Fatal("empty backend answer surfaced as empty string")
	}
}
