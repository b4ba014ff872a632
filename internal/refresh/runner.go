package refresh

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vplan-io/vplan-core/internal/infrastructure/config"
	"github.com/vplan-io/vplan-core/internal/infrastructure/influxdb"
	"github.com/vplan-io/vplan-core/internal/infrastructure/logging"
	"github.com/vplan-io/vplan-core/internal/infrastructure/mqtt"
	"github.com/vplan-io/vplan-core/internal/plan"
	"github.com/vplan-io/vplan-core/internal/reconcile"
	"github.com/vplan-io/vplan-core/internal/schedule"
	"github.com/vplan-io/vplan-core/internal/smartthings"
	"github.com/vplan-io/vplan-core/internal/store"
)

// Trigger sources for a pass.
const (
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
)

// Runner executes reconciliation passes.
//
// Each pass is self-contained: it snapshots the plan and account from the
// store, opens a fresh SmartThings session, synthesises today's desired
// rules and reconciles them against the remote account. Nothing is cached
// between passes, so credential rotation and plan edits take effect on the
// next pass without coordination.
//
// The MQTT and InfluxDB clients are optional; pass nil to disable event
// publication or telemetry.
type Runner struct {
	repo   store.Repository
	st     *smartthings.Client
	events *mqtt.Client
	tsdb   *influxdb.Client
	logger *logging.Logger

	retry       reconcile.RetryPolicy
	passTimeout time.Duration
	toggleDelay time.Duration

	locks *planLocks
}

// NewRunner creates a pass runner.
func NewRunner(
	repo store.Repository,
	st *smartthings.Client,
	events *mqtt.Client,
	tsdb *influxdb.Client,
	cfg *config.Config,
	logger *logging.Logger,
) *Runner {
	return &Runner{
		repo:   repo,
		st:     st,
		events: events,
		tsdb:   tsdb,
		logger: logger.With("component", "refresh"),
		retry: reconcile.RetryPolicy{
			MaxAttempts:    cfg.Scheduler.RetryMaxAttempts,
			InitialBackoff: cfg.Scheduler.GetRetryInitialBackoff(),
		},
		passTimeout: cfg.Scheduler.GetPassTimeout(),
		toggleDelay: cfg.SmartThings.GetToggleDelay(),
		locks:       newPlanLocks(),
	}
}

// RunPass reconciles one plan now.
//
// Disabled plans reconcile to an empty desired set, which deletes every
// rule the plan owns remotely. A plan with a pass already in flight is
// rejected with ErrBusy.
func (r *Runner) RunPass(ctx context.Context, planName, trigger string) (*PassReport, error) {
	if !r.locks.TryAcquire(planName) {
		return nil, fmt.Errorf("%w: %q", ErrBusy, planName)
	}
	defer r.locks.Release(planName)

	ctx, cancel := context.WithTimeout(ctx, r.passTimeout)
	defer cancel()

	report := &PassReport{
		ID:        uuid.NewString(),
		Plan:      planName,
		Trigger:   trigger,
		StartedAt: time.Now().UTC(),
	}

	account, err := r.repo.GetAccount(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading account: %w", err)
	}

	record, err := r.repo.GetPlan(ctx, planName)
	if err != nil {
		return nil, err
	}
	report.Enabled = record.Enabled

	doc, err := plan.Load([]byte(record.Document))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidDocument, planName, err)
	}

	session, err := r.st.Session(ctx, account.PatToken, doc.Location())
	if err != nil {
		return nil, fmt.Errorf("opening session for %q: %w", doc.Location(), err)
	}

	// The pass date is today in the plan's refresh zone, so a plan
	// refreshing at 00:30 in Chicago synthesises Chicago's date even when
	// the engine host runs in UTC.
	date := schedule.DateOf(time.Now().In(doc.RefreshLocation()))
	report.Date = date.String()

	var desired []schedule.DesiredRule
	if record.Enabled {
		synthesizer := schedule.NewSynthesizer(session)
		rules, groupErrs, err := synthesizer.Synthesize(ctx, doc, date)
		if err != nil {
			return nil, fmt.Errorf("synthesising %q for %s: %w", planName, date, err)
		}
		desired = rules
		if len(groupErrs) > 0 {
			report.GroupErrors = make(map[string]string, len(groupErrs))
			for group, groupErr := range groupErrs {
				report.GroupErrors[group] = groupErr.Error()
			}
		}
	}
	report.Desired = len(desired)

	engine := reconcile.NewEngine(session, r.retry, r.logger)
	result, err := engine.Reconcile(ctx, planName, desired)
	if err != nil {
		return nil, err
	}

	report.tally(result)
	report.FinishedAt = time.Now().UTC()

	r.logger.Info("pass complete",
		"pass_id", report.ID,
		"plan", planName,
		"trigger", trigger,
		"date", report.Date,
		"desired", report.Desired,
		"created", report.Created,
		"updated", report.Updated,
		"deleted", report.Deleted,
		"failed", report.Failed,
		"duration", report.Duration(),
	)

	r.publish(report)
	r.record(report)
	return report, nil
}

// publish sends the pass report over MQTT, when events are enabled.
func (r *Runner) publish(report *PassReport) {
	if r.events == nil {
		return
	}
	payload, err := json.Marshal(report)
	if err != nil {
		r.logger.Warn("encoding pass report", "plan", report.Plan, "error", err)
		return
	}
	topic := mqtt.Topics{}.PassReport(report.Plan)
	if err := r.events.Publish(topic, payload, 0, false); err != nil {
		r.logger.Warn("publishing pass report", "plan", report.Plan, "error", err)
	}
}

// record writes pass telemetry to InfluxDB, when telemetry is enabled.
func (r *Runner) record(report *PassReport) {
	if r.tsdb == nil {
		return
	}
	r.tsdb.WritePassMetric(influxdb.PassMetric{
		Plan:     report.Plan,
		Created:  report.Created,
		Updated:  report.Updated,
		Deleted:  report.Deleted,
		Failed:   report.Failed,
		Duration: report.Duration(),
	})
}

// Preview is the dry-run view of a plan's schedule for one date. Nothing
// is sent to the remote account.
type Preview struct {
	Plan        string            `json:"plan"`
	Date        string            `json:"date"`
	Rules       []PreviewRule     `json:"rules"`
	GroupErrors map[string]string `json:"group_errors,omitempty"`
}

// PreviewRule is one synthesised rule in a Preview.
type PreviewRule struct {
	Rule    string   `json:"rule"`
	Group   string   `json:"group"`
	State   string   `json:"state"`
	At      string   `json:"at"`
	Devices []string `json:"devices"`
}

// DryRun synthesises a plan's schedule for a date without touching remote
// rules. Works for disabled plans too, which is the point: it lets a plan
// be checked before enabling it. A zero date means today in the plan's
// refresh zone.
func (r *Runner) DryRun(ctx context.Context, planName string, date schedule.Date) (*Preview, error) {
	account, err := r.repo.GetAccount(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading account: %w", err)
	}
	record, err := r.repo.GetPlan(ctx, planName)
	if err != nil {
		return nil, err
	}
	doc, err := plan.Load([]byte(record.Document))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidDocument, planName, err)
	}
	if date == (schedule.Date{}) {
		date = schedule.DateOf(time.Now().In(doc.RefreshLocation()))
	}

	session, err := r.st.Session(ctx, account.PatToken, doc.Location())
	if err != nil {
		return nil, fmt.Errorf("opening session for %q: %w", doc.Location(), err)
	}

	synthesizer := schedule.NewSynthesizer(session)
	rules, groupErrs, err := synthesizer.Synthesize(ctx, doc, date)
	if err != nil {
		return nil, err
	}

	preview := &Preview{
		Plan:  planName,
		Date:  date.String(),
		Rules: make([]PreviewRule, 0, len(rules)),
	}
	for _, rule := range rules {
		devices := make([]string, 0, len(rule.Devices))
		for _, device := range rule.Devices {
			devices = append(devices, device.Room+"/"+device.Device)
		}
		preview.Rules = append(preview.Rules, PreviewRule{
			Rule:    rule.Key.RuleName(),
			Group:   rule.Key.Group,
			State:   string(rule.State),
			At:      rule.At.Format(time.RFC3339),
			Devices: devices,
		})
	}
	if len(groupErrs) > 0 {
		preview.GroupErrors = make(map[string]string, len(groupErrs))
		for group, groupErr := range groupErrs {
			preview.GroupErrors[group] = groupErr.Error()
		}
	}
	return preview, nil
}

// Toggle flips a device group on and off a few times so a user can confirm
// the plan is wired to the devices they expect. The group ends switched
// off.
func (r *Runner) Toggle(ctx context.Context, planName, groupName string, toggles int) error {
	if toggles <= 0 {
		toggles = 2
	}

	account, err := r.repo.GetAccount(ctx)
	if err != nil {
		return fmt.Errorf("loading account: %w", err)
	}
	record, err := r.repo.GetPlan(ctx, planName)
	if err != nil {
		return err
	}
	doc, err := plan.Load([]byte(record.Document))
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidDocument, planName, err)
	}

	group, ok := doc.Group(groupName)
	if !ok {
		return fmt.Errorf("%w: %q", schedule.ErrGroupNotFound, groupName)
	}

	session, err := r.st.Session(ctx, account.PatToken, doc.Location())
	if err != nil {
		return fmt.Errorf("opening session for %q: %w", doc.Location(), err)
	}
	return session.ToggleGroup(ctx, group.Devices, toggles, r.toggleDelay)
}
