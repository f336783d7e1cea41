// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fluffyriot/feedbuddy/internal/feed"
)

const listTextLimit = 200

type receivePostsRequest struct {
	Posts []feed.Post `json:"posts"`
}

func (h *Handler) ReceivePostsHandler(c *gin.Context) {
	var req receivePostsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	admitted := h.Store.Merge(req.Posts)
	if len(admitted) > 0 {
		log.Printf("Posts: received %d, stored %d new, total %d", len(req.Posts), len(admitted), h.Store.Len())
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"postsReceived": len(req.Posts),
		"totalStored":   h.Store.Len(),
	})
}

func (h *Handler) ListPostsHandler(c *gin.Context) {
	posts := h.Store.All()

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		if limit < len(posts) {
			posts = posts[:limit]
		}
	}

	// Listing is a debug surface; long bodies stay in the store but are
	// trimmed on the wire.
	out := make([]feed.Post, len(posts))
	for i, p := range posts {
		if len(p.Text) > listTextLimit {
			p.Text = p.Text[:listTextLimit] + "..."
		}
		out[i] = p
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": out,
		"total": h.Store.Len(),
	})
}

func (h *Handler) ClearPostsHandler(c *gin.Context) {
	h.Store.Clear()
	log.Println("Posts: store cleared")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "All posts cleared",
	})
}
