package feed

import "sync"

const (
	LocalCapacity  = 75
	RemoteCapacity = 100
)

// Store is an ordered, deduplicated, capacity-bounded collection of posts,
// newest first. Merges are applied in caller order; the mutex serializes
// concurrent callers the way the single-threaded host runtime serializes
// request handlers.
type Store struct {
	mu       sync.Mutex
	capacity int
	posts    []Post
}

func NewStore(capacity int) *Store {
	return &Store{capacity: capacity}
}

// Merge prepends newPosts, drops duplicates by ID or exact text keeping the
// first (newest) occurrence, and truncates to capacity. A re-extraction of an
// already-stored post therefore replaces the old record at the front rather
// than duplicating it. Returns the posts that were not previously stored,
// for UI counters. Merging the same batch twice produces no growth.
func (s *Store) Merge(newPosts []Post) []Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevIDs := make(map[string]struct{}, len(s.posts))
	prevText := make(map[string]struct{}, len(s.posts))
	for _, p := range s.posts {
		prevIDs[p.ID] = struct{}{}
		prevText[p.Text] = struct{}{}
	}

	candidates := make([]Post, 0, len(newPosts))
	for _, p := range newPosts {
		if p.Admissible() {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	merged := make([]Post, 0, len(candidates)+len(s.posts))
	merged = append(merged, candidates...)
	merged = append(merged, s.posts...)

	seenIDs := make(map[string]struct{}, len(merged))
	seenText := make(map[string]struct{}, len(merged))
	kept := merged[:0]
	for _, p := range merged {
		if _, dup := seenIDs[p.ID]; dup {
			continue
		}
		if _, dup := seenText[p.Text]; dup {
			continue
		}
		seenIDs[p.ID] = struct{}{}
		seenText[p.Text] = struct{}{}
		kept = append(kept, p)
	}
	if len(kept) > s.capacity {
		kept = kept[:s.capacity]
	}
	s.posts = kept

	var admitted []Post
	batchIDs := make(map[string]struct{}, len(candidates))
	batchText := make(map[string]struct{}, len(candidates))
	for _, p := range candidates {
		if _, known := prevIDs[p.ID]; known {
			continue
		}
		if _, known := prevText[p.Text]; known {
			continue
		}
		if _, dup := batchIDs[p.ID]; dup {
			continue
		}
		if _, dup := batchText[p.Text]; dup {
			continue
		}
		batchIDs[p.ID] = struct{}{}
		batchText[p.Text] = struct{}{}
		admitted = append(admitted, p)
	}
	return admitted
}

// All returns a copy of the stored posts, newest first.
func (s *Store) All() []Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// Recent returns up to n of the most recently merged posts.
func (s *Store) Recent(n int) []Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 0 {
		n = 0
	}
	if n > len(s.posts) {
		n = len(s.posts)
	}
	out := make([]Post, n)
	copy(out, s.posts[:n])
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts)
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = nil
}
