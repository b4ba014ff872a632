package reconcile

import (
	"context"
	"fmt"

	"github.com/vplan-io/vplan-core/internal/schedule"
)

// Logger is the minimal logging interface the engine needs.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any) {}
func (noopLogger) Warn(string, ...any) {}

// Engine applies the minimal operation set for one plan against a remote
// client. Engines are cheap; the refresh runner builds one per pass around
// the pass's remote session.
type Engine struct {
	client RemoteClient
	retry  RetryPolicy
	logger Logger
}

// NewEngine creates an engine for the given remote client.
func NewEngine(client RemoteClient, retry RetryPolicy, logger Logger) *Engine {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Engine{client: client, retry: retry, logger: logger}
}

// Reconcile fetches the actual remote rule set for the plan, diffs it
// against desired, and applies the resulting operations.
//
// Each operation is attempted independently: one key's failure is recorded
// in its outcome and the remaining keys still run. Only the initial listing
// aborts the pass, because without it no diff exists. Passing an empty
// desired set deletes every rule the plan owns remotely.
func (e *Engine) Reconcile(ctx context.Context, planName string, desired []schedule.DesiredRule) (*Result, error) {
	var actual []RemoteRule
	attempts, err := e.retry.attempt(ctx, func(ctx context.Context) error {
		var listErr error
		actual, listErr = e.client.ListRules(ctx, planName)
		return listErr
	})
	if err != nil {
		return nil, fmt.Errorf("listing remote rules for %q (attempts %d): %w", planName, attempts, err)
	}

	ops := Diff(desired, actual)
	e.logger.Info("reconciliation diff computed",
		"plan", planName,
		"desired", len(desired),
		"actual", len(actual),
		"operations", len(ops),
	)

	result := &Result{Outcomes: make([]Outcome, 0, len(ops))}
	for _, op := range ops {
		result.Outcomes = append(result.Outcomes, e.apply(ctx, op))
	}
	return result, nil
}

// apply runs one operation under the retry policy and records its outcome.
func (e *Engine) apply(ctx context.Context, op Operation) Outcome {
	outcome := Outcome{
		Kind:   op.Kind,
		Key:    op.Key,
		Rule:   op.Key.RuleName(),
		RuleID: op.RuleID,
	}

	outcome.Attempts, outcome.Err = e.retry.attempt(ctx, func(ctx context.Context) error {
		switch op.Kind {
		case OpCreate:
			id, err := e.client.CreateRule(ctx, *op.Desired)
			if err != nil {
				return err
			}
			outcome.RuleID = id
			return nil
		case OpUpdate:
			return e.client.UpdateRule(ctx, op.RuleID, *op.Desired)
		case OpDelete:
			return e.client.DeleteRule(ctx, op.RuleID)
		default:
			return fmt.Errorf("%w: unknown operation %q", ErrRemoteHard, op.Kind)
		}
	})

	if outcome.Err != nil {
		outcome.Error = outcome.Err.Error()
		e.logger.Warn("reconciliation operation failed",
			"rule", outcome.Rule,
			"op", string(op.Kind),
			"attempts", outcome.Attempts,
			"error", outcome.Err,
		)
	}
	return outcome
}
