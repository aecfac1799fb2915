package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/seopilot/seopilot/app/database"
	"github.com/seopilot/seopilot/app/metrics"
)

// CampaignSyncTask deactivates campaigns whose end date has passed.
type CampaignSyncTask struct {
	Task
	campaignRepo database.CampaignRepository
}

func NewCampaignSyncTask(campaignRepo database.CampaignRepository) *CampaignSyncTask {
	return &CampaignSyncTask{
		Task:         NewTask(TaskTypeCampaignSync),
		campaignRepo: campaignRepo,
	}
}

func (t *CampaignSyncTask) Execute(ctx context.Context) error {
	deactivated, err := t.campaignRepo.DeactivateExpired(ctx, time.Now().UTC())
	if err != nil {
		metrics.CountTaskRun(string(t.Type), "error")
		return err
	}

	if deactivated > 0 {
		slog.Info("Task completed",
			"type", string(t.Type),
			"duration", t.GetDuration(),
			"deactivated", deactivated)
	}
	metrics.CountTaskRun(string(t.Type), "ok")

	return nil
}
