package handlers

import (
	"github.com/fluffyriot/feedbuddy/internal/config"
	"github.com/fluffyriot/feedbuddy/internal/feed"
	"github.com/fluffyriot/feedbuddy/internal/llm"
)

type Handler struct {
	Store    *feed.Store
	Provider llm.Provider
	Config   *config.AppConfig
}

func NewHandler(store *feed.Store, provider llm.Provider, cfg *config.AppConfig) *Handler {
	return &Handler{
		Store:    store,
		Provider: provider,
		Config:   cfg,
	}
}
