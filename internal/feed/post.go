package feed

// Category values assigned by the extractor. First matching rule wins,
// see extractor.classify.
const (
	CategoryText     = "text_post"
	CategoryArticle  = "article_share"
	CategoryImage    = "image_post"
	CategoryVideo    = "video_post"
	CategoryDocument = "document_post"
	CategoryRepost   = "repost"
)

const (
	// UnknownAuthor is the sentinel used when no author strategy matched.
	UnknownAuthor = "Unknown Author"

	// MinTextLength is the admission threshold: posts with no comments and
	// text at or below this length are treated as extraction noise.
	MinTextLength = 15

	// MaxComments bounds how many visible comments are captured per post.
	MaxComments = 3

	// MaxCommentLength bounds the captured text of a single comment.
	MaxCommentLength = 200
)

type Comment struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// Post is one extracted feed post. Records are immutable after extraction;
// a re-extraction of the same content produces a new record that participates
// in dedup by ID or exact text match.
type Post struct {
	ID                 string    `json:"id"`
	Author             string    `json:"author"`
	AuthorTitle        string    `json:"authorTitle"`
	IsCompanyPost      bool      `json:"isCompanyPost"`
	Text               string    `json:"text"`
	ArticleTitle       string    `json:"articleTitle"`
	ArticleDescription string    `json:"articleDescription"`
	Hashtags           []string  `json:"hashtags"`
	Mentions           []string  `json:"mentions"`
	Comments           []Comment `json:"comments"`

	// Engagement counters as rendered on the page ("1.2K"), kept as opaque
	// display strings.
	Reactions    string `json:"reactions"`
	CommentCount string `json:"commentCount"`
	Reposts      string `json:"reposts"`

	Category string `json:"category"`

	// PostTime is the post's own timestamp (ISO-8601 when the markup carried
	// one, otherwise the raw displayed string). Timestamp is when this
	// pipeline captured the post.
	PostTime  string `json:"postTime"`
	Timestamp string `json:"timestamp"`
	SourceURL string `json:"url"`
}

// Admissible reports whether the post carries enough content to be stored.
func (p Post) Admissible() bool {
	return len(p.Text) > MinTextLength || len(p.Comments) > 0
}
