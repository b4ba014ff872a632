package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/vplan-io/vplan-core/internal/infrastructure/logging"
	"github.com/vplan-io/vplan-core/internal/plan"
	"github.com/vplan-io/vplan-core/internal/store"
)

// Scheduler runs each enabled plan's daily pass at its refresh time.
//
// One cron entry exists per enabled plan, pinned to the plan's refresh zone
// with CRON_TZ so that "00:30" means 00:30 where the house is, not where
// the engine runs. Entries are added when a plan is enabled or its document
// changes, and removed when it is disabled or deleted; disabling also runs
// an immediate pass so the plan's remote rules are torn down rather than
// left to fire.
type Scheduler struct {
	cron   *cron.Cron
	runner *Runner
	repo   store.Repository
	logger *logging.Logger

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

// NewScheduler creates a scheduler around the given runner.
func NewScheduler(runner *Runner, repo store.Repository, logger *logging.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		runner:  runner,
		repo:    repo,
		logger:  logger.With("component", "scheduler"),
		entries: make(map[string]cron.EntryID),
	}
}

// Start schedules every enabled plan and begins running entries.
func (s *Scheduler) Start(ctx context.Context) error {
	plans, err := s.repo.ListPlans(ctx)
	if err != nil {
		return fmt.Errorf("listing plans: %w", err)
	}

	for _, record := range plans {
		if !record.Enabled {
			continue
		}
		if err := s.SchedulePlan(record.Name, record.Document); err != nil {
			// A plan that cannot be scheduled should not stop the daemon;
			// it stays stored and can be fixed over the API.
			s.logger.Warn("skipping unschedulable plan", "plan", record.Name, "error", err)
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "plans", len(s.entries))
	return nil
}

// Stop halts the cron loop. Entries already running finish; Stop does not
// wait for them.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("scheduler stopped")
}

// SchedulePlan adds or replaces the daily entry for a plan, derived from
// the refresh time and zone in its YAML document.
func (s *Scheduler) SchedulePlan(planName, document string) error {
	doc, err := plan.Load([]byte(document))
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidDocument, planName, err)
	}

	hour, minute := doc.RefreshTime()
	spec := fmt.Sprintf("CRON_TZ=%s %d %d * * *", doc.RefreshZone(), minute, hour)

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.entries[planName]; ok {
		s.cron.Remove(id)
		delete(s.entries, planName)
	}

	id, err := s.cron.AddFunc(spec, func() {
		s.runScheduled(planName)
	})
	if err != nil {
		return fmt.Errorf("scheduling %q (%s): %w", planName, spec, err)
	}
	s.entries[planName] = id

	s.logger.Info("plan scheduled", "plan", planName, "spec", spec)
	return nil
}

// UnschedulePlan removes a plan's daily entry, if present.
func (s *Scheduler) UnschedulePlan(planName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.entries[planName]; ok {
		s.cron.Remove(id)
		delete(s.entries, planName)
		s.logger.Info("plan unscheduled", "plan", planName)
	}
}

// runScheduled executes one scheduled pass, logging rather than returning
// failures. The next day's entry runs regardless.
func (s *Scheduler) runScheduled(planName string) {
	report, err := s.runner.RunPass(context.Background(), planName, TriggerScheduled)
	if err != nil {
		if errors.Is(err, ErrBusy) {
			s.logger.Warn("scheduled pass skipped, plan busy", "plan", planName)
			return
		}
		s.logger.Error("scheduled pass failed", "plan", planName, "error", err)
		return
	}
	if !report.Clean() {
		s.logger.Warn("scheduled pass completed with failures",
			"plan", planName,
			"failed", report.Failed,
			"group_errors", len(report.GroupErrors),
		)
	}
}
