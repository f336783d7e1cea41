package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/fluffyriot/feedbuddy/internal/api/handlers"
	"github.com/fluffyriot/feedbuddy/internal/config"
	"github.com/fluffyriot/feedbuddy/internal/feed"
	"github.com/fluffyriot/feedbuddy/internal/llm"
	"github.com/fluffyriot/feedbuddy/internal/metrics"
	"github.com/fluffyriot/feedbuddy/internal/middleware"
)

func main() {
	cfg := config.Load()

	store := feed.NewStore(feed.RemoteCapacity)
	provider := llm.NewOpenAI(cfg.OpenAIKey, cfg.OpenAIModel, cfg.ProviderTimeout)
	if !provider.Configured() {
		log.Println("Server: no OPENAI_API_KEY set, chat runs in degraded mode")
	}

	h := handlers.NewHandler(store, provider, cfg)

	r := gin.Default()
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.DevCORS))

	r.GET("/health", h.HealthCheckHandler)
	r.POST("/api/posts", h.ReceivePostsHandler)
	r.GET("/api/posts", h.ListPostsHandler)
	r.DELETE("/api/posts", h.ClearPostsHandler)
	r.POST("/api/chat", h.ChatHandler)
	r.GET("/metrics", metrics.Handler())

	log.Printf("Server: listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalln(err)
	}
}
