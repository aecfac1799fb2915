package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/seopilot/seopilot/app/content"
	"github.com/seopilot/seopilot/app/metrics"
)

// PublishTriggerTask scans for approved records whose scheduled time has
// arrived and hands them to the coordinator.
type PublishTriggerTask struct {
	Task
	coordinator *content.Coordinator
}

func NewPublishTriggerTask(coordinator *content.Coordinator) *PublishTriggerTask {
	return &PublishTriggerTask{
		Task:        NewTask(TaskTypePublishTrigger),
		coordinator: coordinator,
	}
}

func (t *PublishTriggerTask) Execute(ctx context.Context) error {
	triggered, err := t.coordinator.CheckAndTrigger(ctx, time.Now().UTC())
	if err != nil {
		metrics.CountTaskRun(string(t.Type), "error")
		return err
	}

	if len(triggered) > 0 {
		slog.Info("Task completed",
			"type", string(t.Type),
			"duration", t.GetDuration(),
			"triggered", len(triggered))
		metrics.CountPublishTrigger()
	}
	metrics.CountTaskRun(string(t.Type), "ok")

	return nil
}
