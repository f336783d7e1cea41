package extractor

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/fluffyriot/feedbuddy/internal/feed"
)

// PostSelector marks a feed post element in the watched page's markup.
const PostSelector = ".feed-shared-update-v2"

// ErrEmptyElement reports a candidate element with no usable substructure.
var ErrEmptyElement = errors.New("empty post element")

// categoryRule maps a substructure selector to a category. Rules are
// evaluated in priority order and the first match wins; later rules are
// never consulted.
type categoryRule struct {
	selector string
	category string
}

var categoryRules = []categoryRule{
	{".update-components-article", feed.CategoryArticle},
	{".update-components-image", feed.CategoryImage},
	{".update-components-video", feed.CategoryVideo},
	{".update-components-document", feed.CategoryDocument},
	{`[data-urn*="reshare"]`, feed.CategoryRepost},
}

func classify(sel *goquery.Selection) string {
	for _, rule := range categoryRules {
		if sel.Find(rule.selector).Length() > 0 {
			return rule.category
		}
	}
	return feed.CategoryText
}

// Extract builds a Post from one feed post element. It never panics; any
// internal failure yields an error for this element only, and extraction of
// sibling elements continues.
func Extract(sel *goquery.Selection, sourceURL string) (post feed.Post, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed post markup: %v", r)
		}
	}()

	if sel.Children().Length() == 0 && collapseWhitespace(sel.Text()) == "" {
		return feed.Post{}, ErrEmptyElement
	}

	post = feed.Post{
		ID:            extractID(sel),
		Author:        extractAuthor(sel),
		AuthorTitle:   collapseWhitespace(sel.Find(".update-components-actor__description").First().Text()),
		IsCompanyPost: isCompanyPost(sel),
		Text:          cleanText(firstMatch(sel, textStrategies)),
		Hashtags:      collectLinkTexts(sel, `a[href*="hashtag"]`),
		Mentions:      collectLinkTexts(sel, `a[href*="/in/"]`),
		Comments:      extractComments(sel),
		Reactions:     counterText(sel, ".social-counts-reactions"),
		CommentCount:  counterText(sel, ".social-counts-comments"),
		Reposts:       counterText(sel, ".social-counts-reposts"),
		Category:      classify(sel),
		PostTime:      extractPostTime(sel),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		SourceURL:     sourceURL,
	}

	if article := sel.Find(".update-components-article").First(); article.Length() > 0 {
		post.ArticleTitle = collapseWhitespace(article.Find(".update-components-article__headline").Text())
		post.ArticleDescription = collapseWhitespace(article.Find(".update-components-article__description").Text())
	}

	return post, nil
}

// ExtractAll runs one extraction pass over every post element in the
// document. Per-element failures are logged and skipped; the pass never
// aborts.
func ExtractAll(doc *goquery.Document, sourceURL string) []feed.Post {
	var posts []feed.Post
	doc.Find(PostSelector).Each(func(_ int, sel *goquery.Selection) {
		post, err := Extract(sel, sourceURL)
		if err != nil {
			log.Printf("Extractor: skipping post element: %v", err)
			return
		}
		posts = append(posts, post)
	})
	return posts
}

// extractID prefers the embedded content identifier so re-extractions of the
// same post dedup cleanly; a generated token is the last resort.
func extractID(sel *goquery.Selection) string {
	if id, ok := sel.Attr("data-id"); ok && id != "" {
		return id
	}
	if id, ok := sel.Find("[data-id]").First().Attr("data-id"); ok && id != "" {
		return id
	}
	return "post_" + uuid.NewString()
}

func extractAuthor(sel *goquery.Selection) string {
	if author := firstMatch(sel, authorStrategies); author != "" {
		return author
	}
	return feed.UnknownAuthor
}

func extractPostTime(sel *goquery.Selection) string {
	timeEl := sel.Find("time").First()
	if dt, ok := timeEl.Attr("datetime"); ok && dt != "" {
		return dt
	}
	return collapseWhitespace(timeEl.Text())
}

func extractComments(sel *goquery.Selection) []feed.Comment {
	var comments []feed.Comment
	sel.Find(".comments-comment-item").EachWithBreak(func(i int, c *goquery.Selection) bool {
		if i >= feed.MaxComments {
			return false
		}
		author := collapseWhitespace(c.Find(".comments-comment-item__main-content .hoverable-link-text").First().Text())
		if author == "" {
			author = collapseWhitespace(c.Find(".hoverable-link-text").First().Text())
		}
		text := collapseWhitespace(c.Find(".comments-comment-item-content-body").First().Text())
		if author == "" || text == "" {
			return true
		}
		if len(text) > feed.MaxCommentLength {
			text = text[:feed.MaxCommentLength]
		}
		comments = append(comments, feed.Comment{Author: author, Text: text})
		return true
	})
	return comments
}

func counterText(sel *goquery.Selection, selector string) string {
	if v := collapseWhitespace(sel.Find(selector).First().Text()); v != "" {
		return v
	}
	return "0"
}

func collectLinkTexts(sel *goquery.Selection, selector string) []string {
	var out []string
	sel.Find(selector).Each(func(_ int, link *goquery.Selection) {
		if text := collapseWhitespace(link.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

func isCompanyPost(sel *goquery.Selection) bool {
	return sel.Find(`.update-components-actor__image img[alt*="logo"]`).Length() > 0 ||
		sel.Find(".entityPhoto-circle-4").Length() > 0
}
