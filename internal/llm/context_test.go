package llm

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fluffyriot/feedbuddy/internal/feed"
)

func TestBuildContext_EmptyStore(t *testing.T) {
	block, posts := BuildContext(feed.NewStore(feed.LocalCapacity), 5)
	if block != "" || posts != nil {
		t.Fatalf("empty store produced context: %q, %v", block, posts)
	}
}

func TestBuildContext_BoundsCandidateWindow(t *testing.T) {
	s := feed.NewStore(feed.LocalCapacity)
	var batch []feed.Post
	for i := 0; i < 30; i++ {
		batch = append(batch, feed.Post{
			ID:   fmt.Sprintf("p%02d", i),
			Text: fmt.Sprintf("post number %02d with a body long enough to admit", i),
		})
	}
	s.Merge(batch)

	_, posts := BuildContext(s, 5)
	if len(posts) != 15 {
		t.Fatalf("context window holds %d posts, want 15", len(posts))
	}

	_, posts = BuildContext(s, 0)
	if len(posts) != 15 {
		t.Fatalf("default maxResults window holds %d posts, want 15", len(posts))
	}
}

func TestBuildContext_RendersFields(t *testing.T) {
	s := feed.NewStore(feed.LocalCapacity)
	s.Merge([]feed.Post{{
		ID:           "a",
		Author:       "Ada Lovelace",
		AuthorTitle:  "Engineer",
		Text:         "a long post body about analytical engines",
		Hashtags:     []string{"#computing"},
		Reactions:    "12",
		CommentCount: "3",
		Reposts:      "0",
		Category:     feed.CategoryText,
	}})

	block, _ := BuildContext(s, 5)
	for _, want := range []string{
		"Post 1 by Ada Lovelace (Engineer):",
		"analytical engines",
		"Tags: #computing",
		"Engagement: 12 reactions, 3 comments, 0 reposts",
		"Type: text_post",
	} {
		if !strings.Contains(block, want) {
			t.Errorf("context block missing %q:\n%s", want, block)
		}
	}
}

func TestBuildContext_ArticleFallbackAndTruncation(t *testing.T) {
	s := feed.NewStore(feed.LocalCapacity)
	long := strings.Repeat("z", 600)
	s.Merge([]feed.Post{
		{ID: "a", Author: "A", Text: long},
		{ID: "b", Author: "B", ArticleTitle: "On Feeds", ArticleDescription: "a survey",
			Comments: []feed.Comment{{Author: "C", Text: "nice"}}},
	})

	block, _ := BuildContext(s, 5)
	if strings.Contains(block, long) {
		t.Fatal("long body not truncated")
	}
	if !strings.Contains(block, strings.Repeat("z", 500)+"...") {
		t.Fatal("truncation marker missing")
	}
	if !strings.Contains(block, "On Feeds — a survey") {
		t.Fatalf("article fallback body missing:\n%s", block)
	}
}
