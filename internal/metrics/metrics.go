package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PostsExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedbuddy_posts_extracted_total",
		Help: "Posts produced by extraction passes, before admission.",
	})

	PostsAdmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedbuddy_posts_admitted_total",
		Help: "Posts newly admitted to a store by merge.",
	})

	SyncFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedbuddy_sync_failures_total",
		Help: "Fire-and-forget post pushes that did not reach the backend.",
	})

	ChatFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedbuddy_chat_fallbacks_total",
		Help: "Questions answered by the local keyword search instead of the backend.",
	})

	ProviderTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedbuddy_provider_timeouts_total",
		Help: "LLM provider calls that exceeded the request timeout.",
	})
)

// Handler exposes the prometheus registry on a gin route.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
