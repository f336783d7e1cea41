// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fluffyriot/feedbuddy/internal/feed"
	"github.com/fluffyriot/feedbuddy/internal/llm"
)

type chatRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"maxResults"`
}

func (h *Handler) ChatHandler(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	// A missing credential is a degraded mode, not a request failure:
	// the caller still gets a usable answer body.
	if !h.Provider.Configured() {
		c.JSON(http.StatusOK, gin.H{
			"success":            true,
			"response":           llm.NotConfiguredResponse,
			"relevantPosts":      []feed.Post{},
			"totalPostsSearched": h.Store.Len(),
			"query":              req.Query,
		})
		return
	}

	contextBlock, relevant := llm.BuildContext(h.Store, req.MaxResults)

	answer, err := h.Provider.Answer(c.Request.Context(), req.Query, contextBlock)
	if err != nil {
		log.Printf("Chat: provider call failed: %v", err)
		details := "the assistant could not process the question"
		if errors.Is(err, llm.ErrTimeout) {
			details = "the assistant timed out answering the question"
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "chat request failed",
			"details": details,
		})
		return
	}

	if relevant == nil {
		relevant = []feed.Post{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"response":           answer,
		"relevantPosts":      relevant,
		"totalPostsSearched": h.Store.Len(),
		"query":              req.Query,
	})
}
