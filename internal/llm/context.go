package llm

import (
	"fmt"
	"strings"

	"github.com/fluffyriot/feedbuddy/internal/feed"
)

// contextMultiplier widens the candidate window beyond the requested result
// count so the model sees enough surrounding posts to rank from.
const contextMultiplier = 3

const maxBodyLength = 500

// BuildContext renders the most recent maxResults × 3 posts as compact
// structured text blocks and returns the block plus the posts it includes.
func BuildContext(store *feed.Store, maxResults int) (string, []feed.Post) {
	if maxResults <= 0 {
		maxResults = 5
	}
	posts := store.Recent(maxResults * contextMultiplier)
	if len(posts) == 0 {
		return "", nil
	}

	var b strings.Builder
	for i, p := range posts {
		author := p.Author
		if p.AuthorTitle != "" {
			author += " (" + p.AuthorTitle + ")"
		}
		fmt.Fprintf(&b, "Post %d by %s:\n", i+1, author)

		body := p.Text
		if body == "" && p.ArticleTitle != "" {
			body = p.ArticleTitle
			if p.ArticleDescription != "" {
				body += " — " + p.ArticleDescription
			}
		}
		if len(body) > maxBodyLength {
			body = body[:maxBodyLength] + "..."
		}
		fmt.Fprintf(&b, "%s\n", body)

		if len(p.Hashtags) > 0 {
			fmt.Fprintf(&b, "Tags: %s\n", strings.Join(p.Hashtags, " "))
		}
		fmt.Fprintf(&b, "Engagement: %s reactions, %s comments, %s reposts\n", p.Reactions, p.CommentCount, p.Reposts)
		fmt.Fprintf(&b, "Type: %s\n\n", p.Category)
	}
	return b.String(), posts
}
