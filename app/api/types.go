package api

import (
	"github.com/seopilot/seopilot/app/campaign"
	"github.com/seopilot/seopilot/app/config"
	"github.com/seopilot/seopilot/app/content"
	"github.com/seopilot/seopilot/app/database"
	"github.com/seopilot/seopilot/app/keyword"
	"github.com/seopilot/seopilot/app/tasks"
)

type Handler struct {
	campaignRepo database.CampaignRepository
	contentRepo  database.ContentRepository
	keywordRepo  database.KeywordRepository
	pool         *keyword.Pool
	lifecycle    *content.Lifecycle
	scheduler    tasks.TaskSchedulerInterface
	profiles     map[string]*config.PlatformProfile
	version      string
}

type createCampaignRequest struct {
	Name        string   `json:"name" binding:"required"`
	StartDate   string   `json:"start_date" binding:"required"`
	EndDate     string   `json:"end_date" binding:"required"`
	Frequency   int      `json:"frequency" binding:"required"`
	PublishTime string   `json:"publish_time"`
	WebsiteURL  string   `json:"website_url"`
	Channels    []string `json:"channels"`
	AutoApprove bool     `json:"auto_approve"`
}

type addKeywordsRequest struct {
	Keywords []string `json:"keywords" binding:"required"`
}

type postponeRequest struct {
	ScheduledAt string `json:"scheduled_at" binding:"required"`
}

type reconcileRequest struct {
	Published   bool   `json:"published"`
	LiveURL     string `json:"live_url"`
	PublishedAt string `json:"published_at"`
	ErrorDetail string `json:"error_detail"`
}

var defaultPublishTime = campaign.DefaultPublishTime
