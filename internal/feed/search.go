package feed

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

const maxSearchResults = 4

// searchText flattens every text-bearing field of a post for matching.
func searchText(p Post) string {
	parts := []string{p.Text, p.Author, p.AuthorTitle, p.ArticleTitle, p.ArticleDescription}
	parts = append(parts, p.Hashtags...)
	parts = append(parts, p.Mentions...)
	parts = append(parts, lo.Map(p.Comments, func(c Comment, _ int) string {
		return c.Author + ": " + c.Text
	})...)
	return strings.ToLower(strings.Join(parts, " "))
}

// Search runs the keyword-overlap fallback search over a store and renders a
// reply. It always returns a non-empty string, even over an empty store.
func Search(store *Store, query string) string {
	posts := store.All()
	if len(posts) == 0 {
		return "I don't have any posts available for analysis yet. Please wait a moment for posts to be extracted from the page, then try asking again!"
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	relevant := lo.Filter(posts, func(p Post, _ int) bool {
		return strings.Contains(searchText(p), needle)
	})
	if len(relevant) > maxSearchResults {
		relevant = relevant[:maxSearchResults]
	}

	if len(relevant) == 0 {
		reply := fmt.Sprintf("No results for %q in %d posts.", query, len(posts))
		if topics := TopTopics(store, 3); len(topics) > 0 {
			reply += "\n\nTry these topics: " + strings.Join(topics, ", ")
		}
		return reply + "\n\nOr ask: \"What's trending?\""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d posts about %q:\n\n", len(relevant), query)
	for _, p := range relevant {
		author := p.Author
		if p.AuthorTitle != "" {
			author += " (" + p.AuthorTitle + ")"
		}
		content := p.Text
		if content == "" {
			content = p.ArticleTitle
		}
		if content == "" {
			content = "Shared content"
		}
		if len(content) > 100 {
			content = content[:100] + "..."
		}
		fmt.Fprintf(&b, "• %s: %s\n", author, content)
	}
	fmt.Fprintf(&b, "\n%d of %d posts shown.", len(relevant), len(posts))
	return b.String()
}

// TopTopics ranks hashtags across the store by frequency.
func TopTopics(store *Store, n int) []string {
	counts := map[string]int{}
	for _, p := range store.All() {
		for _, tag := range p.Hashtags {
			tag = strings.ToLower(strings.TrimPrefix(tag, "#"))
			if len(tag) > 1 {
				counts[tag]++
			}
		}
	}
	topics := lo.Keys(counts)
	sort.Slice(topics, func(i, j int) bool {
		if counts[topics[i]] != counts[topics[j]] {
			return counts[topics[i]] > counts[topics[j]]
		}
		return topics[i] < topics[j]
	})
	if len(topics) > n {
		topics = topics[:n]
	}
	return topics
}
