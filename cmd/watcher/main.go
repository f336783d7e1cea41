package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fluffyriot/feedbuddy/internal/browser"
	"github.com/fluffyriot/feedbuddy/internal/config"
	"github.com/fluffyriot/feedbuddy/internal/feed"
	"github.com/fluffyriot/feedbuddy/internal/pipeline"
	"github.com/fluffyriot/feedbuddy/internal/settings"
	"github.com/fluffyriot/feedbuddy/internal/syncer"
)

func main() {
	cfg := config.Load()

	st := settings.Load(cfg.SettingsFile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session := browser.NewSession(cfg.FeedURL)
	if err := session.Start(ctx); err != nil {
		log.Fatalln(err)
	}
	defer session.Close()

	local := feed.NewStore(feed.LocalCapacity)
	client := syncer.NewClient(cfg.APIBaseURL, local, cfg.SyncTimeout)
	defer client.Close()

	p := pipeline.New(session, client, local, st, cfg.Debounce, cfg.ResyncInterval)
	p.Start(ctx)

	// A settings flip retriggers extraction immediately instead of waiting
	// for the next resync tick.
	st.OnChange(func(s settings.Settings) {
		if s.ChatAssistant {
			p.RunPass(ctx)
		}
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Watcher: shutting down")
	p.Stop()
}
