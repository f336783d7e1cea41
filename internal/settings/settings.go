package settings

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
)

// Action names of the toggle message protocol.
const (
	ActionToggleChatAssistant       = "toggleChatAssistant"
	ActionToggleAutoExpandPosts     = "toggleAutoExpandPosts"
	ActionToggleAutoHideSponsored   = "toggleAutoHideSponsored"
	ActionToggleAutoHideRecommended = "toggleAutoHideRecommended"
	ActionToggleHideImages          = "toggleHideImages"

	// ActionOpenChat carries no flag; the chat surface itself is a UI
	// concern, so applying it is an acknowledged no-op here.
	ActionOpenChat = "openChat"
)

// Settings are the feature flags read at startup and on every toggle.
type Settings struct {
	ChatAssistant       bool `json:"chatAssistant"`
	AutoExpandPosts     bool `json:"autoExpandPosts"`
	AutoHideSponsored   bool `json:"autoHideSponsored"`
	AutoHideRecommended bool `json:"autoHideRecommended"`
	HideImages          bool `json:"hideImages"`
}

// Defaults matches a fresh install: auto-expand on, everything else off.
func Defaults() Settings {
	return Settings{AutoExpandPosts: true}
}

// Store holds the current settings, persists them to a small key/value file
// (the synced-storage analog), and notifies listeners on every change.
type Store struct {
	mu        sync.Mutex
	path      string
	current   Settings
	listeners []func(Settings)
}

// Load reads persisted settings, falling back to defaults when the file is
// missing or unreadable.
func Load(path string) *Store {
	s := &Store{path: path, current: Defaults()}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Settings: could not read %s: %v", path, err)
		}
		return s
	}
	if err := json.Unmarshal(data, &s.current); err != nil {
		log.Printf("Settings: corrupt settings file %s, using defaults: %v", path, err)
		s.current = Defaults()
	}
	return s
}

func (s *Store) Snapshot() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// OnChange registers a listener invoked with the new snapshot after every
// applied toggle.
func (s *Store) OnChange(fn func(Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Apply handles one protocol action. Unknown actions are an error; openChat
// is acknowledged without touching any flag.
func (s *Store) Apply(action string, enabled bool) error {
	s.mu.Lock()

	switch action {
	case ActionToggleChatAssistant:
		s.current.ChatAssistant = enabled
	case ActionToggleAutoExpandPosts:
		s.current.AutoExpandPosts = enabled
	case ActionToggleAutoHideSponsored:
		s.current.AutoHideSponsored = enabled
	case ActionToggleAutoHideRecommended:
		s.current.AutoHideRecommended = enabled
	case ActionToggleHideImages:
		s.current.HideImages = enabled
	case ActionOpenChat:
		s.mu.Unlock()
		return nil
	default:
		s.mu.Unlock()
		return fmt.Errorf("unknown settings action %q", action)
	}

	snapshot := s.current
	listeners := make([]func(Settings), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	s.persist(snapshot)
	for _, fn := range listeners {
		fn(snapshot)
	}
	return nil
}

func (s *Store) persist(snapshot Settings) {
	if s.path == "" {
		return
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		log.Printf("Settings: marshal failed: %v", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		log.Printf("Settings: could not persist to %s: %v", s.path, err)
	}
}
