package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pinory/backend/internal/cache"
	"github.com/pinory/backend/internal/feed"
)

// feedCacheTTL keeps feed pages briefly to absorb refresh bursts
const feedCacheTTL = 30 * time.Second

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	aggregator *feed.Aggregator
	cache      *cache.Cache
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(aggregator *feed.Aggregator, c *cache.Cache) *FeedHandler {
	return &FeedHandler{aggregator: aggregator, cache: c}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns the merged reverse-chronological feed of friends'
// places and journeys
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	feedType := c.QueryParam("type")
	if feedType == "" {
		feedType = feed.TypeAll
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > feed.MaxLimit {
		limit = feed.DefaultLimit
	}

	cacheKey := fmt.Sprintf("feed:%d:%s:%d", currentUserID, feedType, limit)
	var entries []feed.Entry
	if err := h.cache.GetJSON(c.Request().Context(), cacheKey, &entries); err == nil {
		return c.JSON(http.StatusOK, echo.Map{"feed": entries})
	}

	entries, err := h.aggregator.GetFeed(c.Request().Context(), currentUserID, feedType, limit)
	if err != nil {
		c.Logger().Errorf("feed aggregation failed for user %d: %v", currentUserID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch feed")
	}

	_ = h.cache.SetJSON(c.Request().Context(), cacheKey, entries, feedCacheTTL)

	return c.JSON(http.StatusOK, echo.Map{"feed": entries})
}
