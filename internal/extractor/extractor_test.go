package extractor

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/fluffyriot/feedbuddy/internal/feed"
)

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return d
}

const fullPost = `
<div class="feed-shared-update-v2" data-id="urn:li:activity:1">
  <div class="update-components-actor">
    <span class="update-components-actor__name">Ada Lovelace</span>
    <span class="update-components-actor__description">Engineer at Analytical Engines</span>
  </div>
  <time datetime="2026-08-01T10:00:00Z">3d</time>
  <div class="update-components-text">Notes on compilers and feed pipelines, at length. …see more</div>
  <a href="/feed/hashtag/?keywords=golang">#golang</a>
  <div class="social-counts-reactions">128</div>
  <div class="social-counts-comments">12</div>
</div>`

func TestExtract_FullPost(t *testing.T) {
	d := doc(t, fullPost)

	p, err := Extract(d.Find(PostSelector), "https://example.com/feed/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.ID != "urn:li:activity:1" {
		t.Errorf("ID = %q", p.ID)
	}
	if p.Author != "Ada Lovelace" {
		t.Errorf("Author = %q", p.Author)
	}
	if p.AuthorTitle != "Engineer at Analytical Engines" {
		t.Errorf("AuthorTitle = %q", p.AuthorTitle)
	}
	if p.Text != "Notes on compilers and feed pipelines, at length." {
		t.Errorf("ui suffix survived cleanup: %q", p.Text)
	}
	if p.PostTime != "2026-08-01T10:00:00Z" {
		t.Errorf("PostTime = %q", p.PostTime)
	}
	if p.Reactions != "128" || p.CommentCount != "12" || p.Reposts != "0" {
		t.Errorf("counters = %q/%q/%q", p.Reactions, p.CommentCount, p.Reposts)
	}
	if len(p.Hashtags) != 1 || p.Hashtags[0] != "#golang" {
		t.Errorf("Hashtags = %v", p.Hashtags)
	}
	if p.Category != feed.CategoryText {
		t.Errorf("Category = %q", p.Category)
	}
	if p.SourceURL != "https://example.com/feed/" {
		t.Errorf("SourceURL = %q", p.SourceURL)
	}
}

func TestExtract_MissingAuthorUsesSentinel(t *testing.T) {
	d := doc(t, `<div class="feed-shared-update-v2" data-id="x">
	  <div class="update-components-text">Body text with no author element at all here.</div>
	</div>`)

	p, err := Extract(d.Find(PostSelector), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Author != feed.UnknownAuthor {
		t.Fatalf("Author = %q, want sentinel", p.Author)
	}
}

func TestExtract_ImplausibleAuthorRejected(t *testing.T) {
	d := doc(t, `<div class="feed-shared-update-v2" data-id="x">
	  <span class="update-components-actor__name">3d ago</span>
	  <span class="actor-name">Grace Hopper</span>
	  <div class="update-components-text">Body text long enough to matter for admission.</div>
	</div>`)

	p, err := Extract(d.Find(PostSelector), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Author != "Grace Hopper" {
		t.Fatalf("Author = %q, want fallback strategy result", p.Author)
	}
}

func TestExtract_GeneratedIDWhenMarkupHasNone(t *testing.T) {
	d := doc(t, `<div class="feed-shared-update-v2">
	  <div class="update-components-text">Body text long enough to matter for admission.</div>
	</div>`)

	p, err := Extract(d.Find(PostSelector), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(p.ID, "post_") {
		t.Fatalf("ID = %q, want generated token", p.ID)
	}
}

func TestExtract_EmptyElement(t *testing.T) {
	d := doc(t, `<div class="feed-shared-update-v2">   </div>`)

	if _, err := Extract(d.Find(PostSelector), ""); err == nil {
		t.Fatal("expected error for empty element")
	}
}

func TestExtract_CategoryPriority(t *testing.T) {
	d := doc(t, `<div class="feed-shared-update-v2" data-id="x">
	  <div class="update-components-article">
	    <div class="update-components-article__headline">On Feeds</div>
	  </div>
	  <div class="update-components-image"></div>
	  <div class="update-components-text">A share that carries both an article and an image.</div>
	</div>`)

	p, err := Extract(d.Find(PostSelector), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Category != feed.CategoryArticle {
		t.Fatalf("Category = %q, want first matching rule", p.Category)
	}
	if p.ArticleTitle != "On Feeds" {
		t.Fatalf("ArticleTitle = %q", p.ArticleTitle)
	}
}

func TestExtract_CommentsBoundedAndTruncated(t *testing.T) {
	long := strings.Repeat("y", 300)
	d := doc(t, `<div class="feed-shared-update-v2" data-id="x">
	  <div class="update-components-text">Body text long enough to matter for admission.</div>
	  <div class="comments-comment-item"><span class="hoverable-link-text">A</span><div class="comments-comment-item-content-body">`+long+`</div></div>
	  <div class="comments-comment-item"><span class="hoverable-link-text">B</span><div class="comments-comment-item-content-body">two</div></div>
	  <div class="comments-comment-item"><span class="hoverable-link-text">C</span><div class="comments-comment-item-content-body">three</div></div>
	  <div class="comments-comment-item"><span class="hoverable-link-text">D</span><div class="comments-comment-item-content-body">four</div></div>
	</div>`)

	p, err := Extract(d.Find(PostSelector), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Comments) != feed.MaxComments {
		t.Fatalf("captured %d comments, want %d", len(p.Comments), feed.MaxComments)
	}
	if len(p.Comments[0].Text) != feed.MaxCommentLength {
		t.Fatalf("comment text length %d, want %d", len(p.Comments[0].Text), feed.MaxCommentLength)
	}
}

func TestExtractAll_SkipsFailingElement(t *testing.T) {
	d := doc(t, fullPost+`
	  <div class="feed-shared-update-v2">  </div>
	  <div class="feed-shared-update-v2" data-id="urn:li:activity:2">
	    <span class="update-components-actor__name">Grace Hopper</span>
	    <div class="update-components-text">A second healthy post body with plenty of text.</div>
	  </div>`)

	posts := ExtractAll(d, "https://example.com/feed/")
	if len(posts) != 2 {
		t.Fatalf("extracted %d posts, want 2 with the empty sibling skipped", len(posts))
	}
	if posts[0].ID != "urn:li:activity:1" || posts[1].ID != "urn:li:activity:2" {
		t.Fatalf("unexpected IDs: %s, %s", posts[0].ID, posts[1].ID)
	}
}

func TestCleanText_StripsStackedSuffixes(t *testing.T) {
	got := cleanText("thoughts   on  feeds …see more …")
	if got != "thoughts on feeds" {
		t.Fatalf("cleanText = %q", got)
	}
}
