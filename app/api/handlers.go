package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seopilot/seopilot/app/campaign"
	"github.com/seopilot/seopilot/app/config"
	"github.com/seopilot/seopilot/app/content"
	"github.com/seopilot/seopilot/app/database"
	"github.com/seopilot/seopilot/app/errs"
	"github.com/seopilot/seopilot/app/keyword"
	"github.com/seopilot/seopilot/app/tasks"
)

func NewHandler(campaignRepo database.CampaignRepository, contentRepo database.ContentRepository,
	keywordRepo database.KeywordRepository, pool *keyword.Pool, lifecycle *content.Lifecycle,
	scheduler tasks.TaskSchedulerInterface, profiles map[string]*config.PlatformProfile,
	version string) *Handler {
	return &Handler{
		campaignRepo: campaignRepo,
		contentRepo:  contentRepo,
		keywordRepo:  keywordRepo,
		pool:         pool,
		lifecycle:    lifecycle,
		scheduler:    scheduler,
		profiles:     profiles,
		version:      version,
	}
}

// respondError maps domain errors to HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errs.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errs.IsInvalidTransition(err), errs.IsInvalidState(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errs.IsPermission(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		slog.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if campaignCount, err := h.campaignRepo.Count(c.Request.Context()); err == nil {
		health["campaigns"] = campaignCount
	}
	if keywordCount, err := h.keywordRepo.Count(c.Request.Context()); err == nil {
		health["keywords"] = keywordCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	byStatus := map[string]int{}
	for _, status := range []content.Status{content.StatusPending, content.StatusApproved,
		content.StatusPublishing, content.StatusPublished, content.StatusFailed} {
		if count, err := h.contentRepo.CountByStatus(ctx, "", status.String()); err == nil {
			byStatus[status.String()] = count
		}
	}

	keywords := map[string]int{}
	for _, status := range []string{keyword.StatusAvailable, keyword.StatusUsed, keyword.StatusDeprecated} {
		if count, err := h.keywordRepo.CountByStatus(ctx, status); err == nil {
			keywords[status] = count
		}
	}

	stats := gin.H{
		"content":  byStatus,
		"keywords": keywords,
	}
	if active, err := h.campaignRepo.GetActive(ctx); err == nil {
		stats["active_campaigns"] = len(active)
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APICreateCampaign(c *gin.Context) {
	var req createCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
		return
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
		return
	}

	publishTime := req.PublishTime
	if publishTime == "" {
		publishTime = defaultPublishTime
	}

	cmp := &database.Campaign{
		Name:        req.Name,
		StartDate:   startDate,
		EndDate:     endDate,
		Frequency:   req.Frequency,
		PublishTime: publishTime,
		WebsiteURL:  req.WebsiteURL,
		Channels:    req.Channels,
		AutoApprove: req.AutoApprove,
		IsActive:    true,
	}
	if err := campaign.Validate(cmp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if unknown := config.ValidateChannels(h.profiles, cmp.Channels); len(unknown) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown channels", "channels": unknown})
		return
	}

	id, err := h.campaignRepo.Create(c.Request.Context(), cmp)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":           id,
		"name":         cmp.Name,
		"publish_time": cmp.PublishTime,
		"is_active":    true,
	})
}

func (h *Handler) APIStopCampaign(c *gin.Context) {
	id := c.Param("id")

	err := h.campaignRepo.SetActive(c.Request.Context(), id, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "is_active": false})
}

func (h *Handler) APIGetReport(c *gin.Context) {
	ctx := c.Request.Context()

	report := gin.H{
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	}

	byStatus := map[string]int{}
	for _, status := range []content.Status{content.StatusPending, content.StatusApproved,
		content.StatusPublishing, content.StatusPublished, content.StatusFailed} {
		count, err := h.contentRepo.CountByStatus(ctx, "", status.String())
		if err != nil {
			respondError(c, err)
			return
		}
		byStatus[status.String()] = count
	}
	report["content"] = byStatus

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	if published, err := h.contentRepo.CountPublishedSince(ctx, weekAgo); err == nil {
		report["published_last_7_days"] = published
	}

	keywords := map[string]int{}
	for _, status := range []string{keyword.StatusAvailable, keyword.StatusUsed, keyword.StatusDeprecated} {
		if count, err := h.keywordRepo.CountByStatus(ctx, status); err == nil {
			keywords[status] = count
		}
	}
	report["keywords"] = keywords

	campaigns, err := h.campaignRepo.GetActive(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	active := make([]gin.H, 0, len(campaigns))
	for i := range campaigns {
		cmp := &campaigns[i]
		info := gin.H{
			"id":        cmp.ID,
			"name":      cmp.Name,
			"end_date":  cmp.EndDate.Format("2006-01-02"),
			"frequency": cmp.Frequency,
			"channels":  cmp.Channels,
		}
		if notPublished, err := h.contentRepo.CountNotPublished(ctx, cmp.ID); err == nil {
			info["not_published"] = notPublished
		}
		active = append(active, info)
	}
	report["active_campaigns"] = active

	c.JSON(http.StatusOK, report)
}

func (h *Handler) APIAddKeywords(c *gin.Context) {
	var req addKeywordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Keywords) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keywords list is empty"})
		return
	}

	added, err := h.pool.AddKeywords(c.Request.Context(), req.Keywords)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"added": len(added)})
}

func (h *Handler) APITriggerGeneration(c *gin.Context) {
	count, err := h.scheduler.TriggerGeneration(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"campaigns": count,
	})
}

func (h *Handler) APIApproveRecord(c *gin.Context) {
	id := c.Param("id")

	if err := h.lifecycle.Approve(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "status": content.StatusApproved.String()})
}

func (h *Handler) APIPostponeRecord(c *gin.Context) {
	id := c.Param("id")

	var req postponeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scheduled_at must be RFC3339"})
		return
	}

	if err := h.lifecycle.Postpone(c.Request.Context(), id, scheduledAt.UTC()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "scheduled_at": scheduledAt.UTC().Format(time.RFC3339)})
}

func (h *Handler) APIReconcileRecord(c *gin.Context) {
	id := c.Param("id")

	var req reconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var outcome content.Outcome
	if req.Published {
		if req.LiveURL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "live_url is required for a published outcome"})
			return
		}
		publishedAt := time.Now().UTC()
		if req.PublishedAt != "" {
			parsed, err := time.Parse(time.RFC3339, req.PublishedAt)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "published_at must be RFC3339"})
				return
			}
			publishedAt = parsed.UTC()
		}
		outcome = content.PublishedOutcome(req.LiveURL, publishedAt)
	} else {
		if req.ErrorDetail == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "error_detail is required for a failed outcome"})
			return
		}
		outcome = content.FailedOutcome(req.ErrorDetail)
	}

	if err := h.lifecycle.Reconcile(c.Request.Context(), id, outcome); err != nil {
		respondError(c, err)
		return
	}

	status := content.StatusFailed
	if req.Published {
		status = content.StatusPublished
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": status.String()})
}
