package api

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/newsdesk/app/curation"
	"github.com/lysyi3m/newsdesk/app/database"
	"github.com/lysyi3m/newsdesk/app/feed"
	"github.com/lysyi3m/newsdesk/app/source"
	"github.com/lysyi3m/newsdesk/app/tasks"
)

const (
	DefaultFeedLimit = 50
	MaxFeedLimit     = 200
)

func NewHandler(configCache *source.ConfigCache, articleRepo database.ArticleRepository,
	sourceRepo database.SourceRepository, engine *curation.Engine,
	scheduler tasks.TaskSchedulerInterface, site Site) *Handler {
	return &Handler{
		articleRepo: articleRepo,
		sourceRepo:  sourceRepo,
		engine:      engine,
		generator:   feed.NewGenerator(engine),
		configCache: configCache,
		scheduler:   scheduler,
		site:        site,
	}
}

// loadSnapshot reads the current articles and category records from storage.
func (h *Handler) loadSnapshot(c *gin.Context) ([]curation.Article, []curation.Category, bool) {
	articles, err := h.articleRepo.GetArticles()
	if err != nil {
		slog.Error("Database error", "operation", "get_articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, nil, false
	}

	categories, err := h.articleRepo.GetCategories()
	if err != nil {
		slog.Error("Database error", "operation", "get_categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, nil, false
	}

	return articles, categories, true
}

func (h *Handler) GetView(c *gin.Context) {
	var state curation.FilterState
	if err := c.ShouldBindQuery(&state); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter", "details": err.Error()})
		return
	}

	articles, categories, ok := h.loadSnapshot(c)
	if !ok {
		return
	}

	view := h.engine.DeriveView(articles, categories, state)

	response := ViewResponse{
		Filter:          view.Filter,
		Categories:      view.Categories,
		CategoryRecords: view.CategoryRecords,
		Stats:           view.Stats,
		LastPost:        h.engine.LastPost(view.Stats),
		Latest:          h.engine.Cards(view.Latest),
		Articles:        h.engine.Cards(view.FilteredArticles),
	}
	if view.Featured != nil {
		featured := h.engine.Card(*view.Featured)
		response.Featured = &featured
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetArticle(c *gin.Context) {
	id := c.Param("id")
	sourceName := c.Query("source")

	article, err := h.articleRepo.GetArticle(sourceName, id)
	if err != nil {
		slog.Error("Database error", "operation", "get_article", "id", id, "source", sourceName, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	c.JSON(http.StatusOK, ArticleResponse{
		ArticleCard: h.engine.Card(*article),
		Content:     article.Content,
		Link:        article.Link,
	})
}

func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.articleRepo.GetCategories()
	if err != nil {
		slog.Error("Database error", "operation", "get_categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": curation.NormalizeCategories(categories),
		"total":      len(categories),
	})
}

// GetLatestFeed renders the filtered collection as RSS, most recent first.
func (h *Handler) GetLatestFeed(c *gin.Context) {
	var state curation.FilterState
	if err := c.ShouldBindQuery(&state); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	limit := DefaultFeedLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.Status(http.StatusBadRequest)
			return
		}
		limit = min(parsed, MaxFeedLimit)
	}

	articles, err := h.articleRepo.GetArticles()
	if err != nil {
		slog.Error("Database error", "operation", "get_articles", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	items := curation.SortByRecency(curation.Filter(articles, state))
	if len(items) > limit {
		items = items[:limit]
	}

	rss, err := h.generator.Run(h.channel(c, state), items)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(items)))

	c.String(http.StatusOK, rss)
}

func (h *Handler) channel(c *gin.Context, state curation.FilterState) feed.Channel {
	title := "Newsdesk: latest"
	if !state.IsUnfiltered() {
		title = fmt.Sprintf("Newsdesk: %s", cmp.Or(curation.CleanCategory(state.Category), curation.AllCategories))
		if state.Query != "" {
			title += fmt.Sprintf(" matching %q", state.Query)
		}
	}

	return feed.Channel{
		Title:       title,
		Link:        h.baseURL(),
		Description: "Most recent articles from the newsroom",
		SelfURL:     h.baseURL() + c.Request.URL.RequestURI(),
		Language:    h.site.Locale,
		Generator:   fmt.Sprintf("Newsdesk/%s", h.site.Version),
	}
}

func (h *Handler) baseURL() string {
	if h.site.BaseURL != "" {
		return h.site.BaseURL
	}
	return fmt.Sprintf("http://localhost:%s", h.site.Port)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if count, err := h.articleRepo.GetArticleCount(); err == nil {
		health["articles"] = count
	}

	health["loaded_configurations"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	articles, categories, ok := h.loadSnapshot(c)
	if !ok {
		return
	}

	sources, err := h.sourceRepo.GetSources()
	if err != nil {
		slog.Error("Database error", "operation", "get_sources", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	stats := h.engine.DeriveView(articles, categories, curation.FilterState{}).Stats

	c.JSON(http.StatusOK, StatsResponse{
		Stats:    stats,
		LastPost: h.engine.LastPost(stats),
		Sources:  sources,
	})
}

func (h *Handler) APIListSources(c *gin.Context) {
	configs := h.configCache.GetConfigs()

	sources := make([]SourceResponse, 0, len(configs))
	for _, sourceConfig := range configs {
		info := SourceResponse{
			Name:            sourceConfig.Name,
			Type:            sourceConfig.Type,
			URL:             sourceConfig.URL,
			Enabled:         sourceConfig.Settings.Enabled,
			MaxItems:        sourceConfig.Settings.MaxItems,
			RefreshInterval: sourceConfig.Settings.GetRefreshInterval().String(),
			Timeout:         sourceConfig.Settings.GetTimeout().String(),
			ExtractContent:  sourceConfig.Settings.ExtractContent,
		}

		if stored, err := h.sourceRepo.GetSource(sourceConfig.Name); err == nil {
			info.State = stored
		}

		sources = append(sources, info)
	}

	slices.SortFunc(sources, func(a, b SourceResponse) int {
		return cmp.Compare(a.Name, b.Name)
	})

	c.JSON(http.StatusOK, gin.H{
		"sources": sources,
		"total":   len(sources),
	})
}

// APIRefreshSource reloads the source file and queues an immediate sync.
func (h *Handler) APIRefreshSource(c *gin.Context) {
	name := c.Param("name")

	if _, err := h.configCache.GetConfig(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source configuration not found"})
		return
	}

	sourceConfig, err := h.configCache.LoadConfig(name)
	if err != nil {
		slog.Error("Error reloading configuration", "source", name, "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Failed to reload configuration",
			"details": err.Error(),
		})
		return
	}

	if !sourceConfig.Settings.Enabled {
		c.JSON(http.StatusConflict, gin.H{"error": "Source is disabled"})
		return
	}

	err = h.scheduler.RefreshSource(name)
	switch {
	case err == nil:
	case errors.Is(err, tasks.ErrTaskPending):
		c.JSON(http.StatusConflict, gin.H{"error": "Sync already queued"})
		return
	case errors.Is(err, tasks.ErrUnknownSource):
		c.JSON(http.StatusNotFound, gin.H{"error": "Source configuration not found"})
		return
	default:
		slog.Error("Error enqueueing sync task", "source", name, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue sync task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Configuration reloaded and sync enqueued",
		"source": gin.H{
			"name": name,
			"type": sourceConfig.Type,
			"url":  sourceConfig.URL,
		},
	})
}
