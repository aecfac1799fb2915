package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/seopilot/seopilot/app/campaign"
	"github.com/seopilot/seopilot/app/config"
	"github.com/seopilot/seopilot/app/content"
	"github.com/seopilot/seopilot/app/database"
	"github.com/seopilot/seopilot/app/engine"
	"github.com/seopilot/seopilot/app/keyword"
	"github.com/seopilot/seopilot/app/metrics"
)

// GenerateContentTask tops up one campaign's content inventory: while the
// count of not-yet-published records is below the threshold, it draws
// keywords from the pool, generates articles and schedules them into the
// campaign's free slots.
type GenerateContentTask struct {
	Task
	campaign    *database.Campaign
	contentRepo database.ContentRepository
	pool        *keyword.Pool
	engine      *engine.Engine
	images      *engine.ImageManager
	lifecycle   *content.Lifecycle
	profiles    map[string]*config.PlatformProfile
	threshold   int
}

func NewGenerateContentTask(c *database.Campaign, contentRepo database.ContentRepository,
	pool *keyword.Pool, eng *engine.Engine, images *engine.ImageManager,
	lifecycle *content.Lifecycle, profiles map[string]*config.PlatformProfile, threshold int) *GenerateContentTask {
	return &GenerateContentTask{
		Task:        NewTask(TaskTypeGenerateContent),
		campaign:    c,
		contentRepo: contentRepo,
		pool:        pool,
		engine:      eng,
		images:      images,
		lifecycle:   lifecycle,
		profiles:    profiles,
		threshold:   threshold,
	}
}

func (t *GenerateContentTask) Execute(ctx context.Context) error {
	notPublished, err := t.contentRepo.CountNotPublished(ctx, t.campaign.ID)
	if err != nil {
		return err
	}
	if !campaign.DueForGeneration(notPublished, t.threshold) {
		slog.Debug("Inventory sufficient, skipping generation",
			"campaign", t.campaign.Name, "not_published", notPublished, "threshold", t.threshold)
		return nil
	}

	need := t.threshold - notPublished
	keywords, err := t.pool.NextAvailable(ctx, need)
	if err != nil {
		return err
	}
	if len(keywords) == 0 {
		slog.Warn("Keyword pool is empty, cannot generate", "campaign", t.campaign.Name)
		return nil
	}

	taken, err := t.contentRepo.ScheduledTimes(ctx, t.campaign.ID)
	if err != nil {
		return err
	}
	slots := campaign.FreeSlots(t.campaign, time.Now().UTC(), len(keywords), taken)

	socialPlatforms := t.socialPlatforms()

	generated := 0
	for i, kw := range keywords {
		if i >= len(slots) {
			slog.Debug("Campaign window exhausted, stopping generation",
				"campaign", t.campaign.Name, "generated", generated)
			break
		}

		article, err := t.engine.Generate(ctx, kw.Text, t.campaign.Name)
		if err != nil {
			slog.Error("Article generation failed, keyword stays available",
				"campaign", t.campaign.Name, "keyword", kw.Text, "error", err)
			continue
		}

		images := t.images.Attach(ctx, article, kw.Text, socialPlatforms)

		var imageURLs []string
		for _, img := range images {
			if img.URL != "" {
				imageURLs = append(imageURLs, img.URL)
			}
		}
		schema, err := engine.SchemaMarkup(article, slots[i], imageURLs)
		if err != nil {
			slog.Warn("Schema markup failed, storing record without it",
				"campaign", t.campaign.Name, "keyword", kw.Text, "error", err)
			schema = ""
		}

		rec, err := t.lifecycle.Create(ctx, content.CreateParams{
			CampaignID:      t.campaign.ID,
			Keyword:         kw.Text,
			Title:           article.Title,
			Body:            article.HTMLBody,
			Slug:            article.Slug,
			MetaDescription: article.MetaDescription,
			SchemaMarkup:    schema,
			SocialSnippet:   t.clampSnippet(article.SocialSnippet),
			Images:          images,
			Platforms:       t.campaign.Channels,
			ScheduledAt:     slots[i],
			AutoApprove:     t.campaign.AutoApprove,
		})
		if err != nil {
			slog.Error("Failed to store generated record",
				"campaign", t.campaign.Name, "keyword", kw.Text, "error", err)
			continue
		}

		if err := t.pool.MarkUsed(ctx, kw.ID); err != nil {
			slog.Warn("Failed to mark keyword used",
				"keyword", kw.Text, "record", rec.ID, "error", err)
		}

		generated++
	}

	slog.Info("Task completed",
		"type", string(t.Type),
		"campaign", t.campaign.Name,
		"duration", t.GetDuration(),
		"generated", generated,
		"requested", need)
	metrics.CountTaskRun(string(t.Type), "ok")

	return nil
}

// socialPlatforms filters the campaign's channels down to the ones whose
// profile is a social network.
func (t *GenerateContentTask) socialPlatforms() []string {
	var social []string
	for _, ch := range t.campaign.Channels {
		if p, ok := t.profiles[ch]; ok && p.Social {
			social = append(social, ch)
		}
	}
	return social
}

// clampSnippet trims the snippet to the tightest limit among the
// campaign's social channels.
func (t *GenerateContentTask) clampSnippet(snippet string) string {
	clamped := snippet
	for _, ch := range t.campaign.Channels {
		if p, ok := t.profiles[ch]; ok && p.Social {
			clamped = config.ClampSnippet(p, clamped)
		}
	}
	return clamped
}
