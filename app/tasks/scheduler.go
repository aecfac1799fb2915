package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/seopilot/seopilot/app/cfg"
	"github.com/seopilot/seopilot/app/config"
	"github.com/seopilot/seopilot/app/content"
	"github.com/seopilot/seopilot/app/database"
	"github.com/seopilot/seopilot/app/engine"
	"github.com/seopilot/seopilot/app/keyword"
)

type TaskSchedulerInterface interface {
	Start()
	Stop()
	// TriggerGeneration runs the content generation tasks for all active
	// campaigns immediately, outside the regular tick.
	TriggerGeneration(ctx context.Context) (int, error)
}

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduler drives the content pipeline on a fixed interval. Tasks run
// sequentially in a single goroutine: the store is the only shared state,
// and every pass re-derives its work from it.
type Scheduler struct {
	campaignRepo database.CampaignRepository
	contentRepo  database.ContentRepository
	pool         *keyword.Pool
	engine       *engine.Engine
	images       *engine.ImageManager
	lifecycle    *content.Lifecycle
	coordinator  *content.Coordinator
	profiles     map[string]*config.PlatformProfile
	threshold    int
	interval     time.Duration
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

func NewScheduler(campaignRepo database.CampaignRepository, contentRepo database.ContentRepository,
	pool *keyword.Pool, eng *engine.Engine, images *engine.ImageManager,
	lifecycle *content.Lifecycle, coordinator *content.Coordinator,
	profiles map[string]*config.PlatformProfile) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		campaignRepo: campaignRepo,
		contentRepo:  contentRepo,
		pool:         pool,
		engine:       eng,
		images:       images,
		lifecycle:    lifecycle,
		coordinator:  coordinator,
		profiles:     profiles,
		threshold:    cfg.InventoryThreshold,
		interval:     time.Duration(cfg.SchedulerInterval) * time.Second,
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runPass()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.runPass()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

// runPass executes one full pipeline pass. A failed task is logged and the
// pass moves on; the next tick rebuilds everything from the store.
func (s *Scheduler) runPass() {
	tasks := []TaskInterface{
		NewCampaignSyncTask(s.campaignRepo),
	}

	// engine is nil when no provider credential is configured; the rest of
	// the pipeline still runs.
	if s.engine != nil {
		campaigns, err := s.campaignRepo.GetActive(s.ctx)
		if err != nil {
			// Generation is skipped this tick, the trigger and reminder
			// tasks still run.
			slog.Error("Failed to load active campaigns, skipping generation", "error", err)
		}
		for i := range campaigns {
			tasks = append(tasks, NewGenerateContentTask(&campaigns[i], s.contentRepo,
				s.pool, s.engine, s.images, s.lifecycle, s.profiles, s.threshold))
		}
	}

	tasks = append(tasks,
		NewPublishTriggerTask(s.coordinator),
		NewReminderTask(s.coordinator),
	)

	for _, task := range tasks {
		s.executeTask(task)
	}
}

func (s *Scheduler) TriggerGeneration(ctx context.Context) (int, error) {
	if s.engine == nil {
		return 0, fmt.Errorf("no content provider configured")
	}

	campaigns, err := s.campaignRepo.GetActive(ctx)
	if err != nil {
		return 0, err
	}

	for i := range campaigns {
		task := NewGenerateContentTask(&campaigns[i], s.contentRepo,
			s.pool, s.engine, s.images, s.lifecycle, s.profiles, s.threshold)
		task.Start()
		if err := task.Execute(ctx); err != nil {
			return i, err
		}
	}

	return len(campaigns), nil
}

func (s *Scheduler) executeTask(task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	if err := task.Execute(taskCtx); err != nil {
		slog.Error("Task execution failed",
			"type", string(task.GetType()),
			"id", task.GetID(),
			"duration", task.GetDuration(),
			"error", err)
	}
}
