package tasks

import (
	"context"
	"time"

	"github.com/seopilot/seopilot/app/content"
	"github.com/seopilot/seopilot/app/metrics"
)

// ReminderTask announces upcoming publish slots so an operator can approve
// pending records before they are due.
type ReminderTask struct {
	Task
	coordinator *content.Coordinator
}

func NewReminderTask(coordinator *content.Coordinator) *ReminderTask {
	return &ReminderTask{
		Task:        NewTask(TaskTypeReminder),
		coordinator: coordinator,
	}
}

func (t *ReminderTask) Execute(ctx context.Context) error {
	if err := t.coordinator.Remind(ctx, time.Now().UTC()); err != nil {
		metrics.CountTaskRun(string(t.Type), "error")
		return err
	}
	metrics.CountTaskRun(string(t.Type), "ok")
	return nil
}
