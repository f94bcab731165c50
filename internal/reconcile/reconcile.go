// Package reconcile drives an external system from its observed condition to
// a desired one by alternating a corrective action with a fresh query.
//
// The loop is bounded: a goal that is not reached within MaxAttempts fails
// with a ReconciliationTimeout that carries the last observed state. Errors
// from queries and actions are never retried; the only retried condition is
// "not there yet".
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/alexisbeaulieu97/gfctl/internal/logger"
	"github.com/alexisbeaulieu97/gfctl/internal/metrics"
	gferrors "github.com/alexisbeaulieu97/gfctl/pkg/errors"
)

const (
	// DefaultMaxAttempts bounds the corrective actions issued per goal.
	DefaultMaxAttempts = 30
	// DefaultRetryDelay matches the fixed one second pause asadmin users expect.
	DefaultRetryDelay = time.Second
	// DefaultMaxRetryDelay caps exponential delays.
	DefaultMaxRetryDelay = 30 * time.Second
)

// Condition names the primitive state a goal targets, e.g. "running".
type Condition string

// Conditions understood by the lifecycle packages.
const (
	ConditionRunning    Condition = "running"
	ConditionStopped    Condition = "stopped"
	ConditionDeployed   Condition = "deployed"
	ConditionUndeployed Condition = "undeployed"
	ConditionEnabled    Condition = "enabled"
	ConditionDisabled   Condition = "disabled"
	ConditionCleared    Condition = "cleared"
	ConditionDirty      Condition = "dirty"
)

// ObservedState is a snapshot derived from the external system.
type ObservedState struct {
	Subject   string
	Condition Condition
	// Detail carries a short diagnostic, usually the relevant output line.
	Detail string
}

func (s ObservedState) String() string {
	if s.Subject == "" {
		return string(s.Condition)
	}
	return fmt.Sprintf("%s %s", s.Subject, s.Condition)
}

// QueryFunc observes the current state. It must not mutate anything.
type QueryFunc func(ctx context.Context) (ObservedState, error)

// ActionFunc issues one corrective command.
type ActionFunc func(ctx context.Context) error

// Goal pairs a desired condition with the capabilities to observe and
// correct it.
type Goal struct {
	Name    string
	Desired Condition
	Query   QueryFunc
	Apply   ActionFunc
}

// Satisfied reports whether state meets the goal.
func (g Goal) Satisfied(state ObservedState) bool {
	return state.Condition == g.Desired
}

// Result is the outcome of reconciling one goal.
type Result struct {
	Goal     string
	Changed  bool
	Final    ObservedState
	Attempts int
}

// Options configures a Reconciler.
type Options struct {
	MaxAttempts int
	// NewBackOff returns a fresh delay policy for each goal. Defaults to a
	// constant DefaultRetryDelay.
	NewBackOff func() backoff.BackOff
	// Sleep waits between an action and the following query. Defaults to a
	// context-aware timer.
	Sleep   func(ctx context.Context, d time.Duration) error
	Logger  *logger.Logger
	Metrics *metrics.Metrics
}

// Reconciler runs goals one at a time. It holds no per-goal state and may be
// reused sequentially.
type Reconciler struct {
	maxAttempts int
	newBackOff  func() backoff.BackOff
	sleep       func(ctx context.Context, d time.Duration) error
	log         *logger.Logger
	metrics     *metrics.Metrics
}

// New creates a Reconciler, filling unset options with defaults.
func New(opts Options) *Reconciler {
	r := &Reconciler{
		maxAttempts: opts.MaxAttempts,
		newBackOff:  opts.NewBackOff,
		sleep:       opts.Sleep,
		log:         opts.Logger,
		metrics:     opts.Metrics,
	}
	if r.maxAttempts <= 0 {
		r.maxAttempts = DefaultMaxAttempts
	}
	if r.newBackOff == nil {
		r.newBackOff = ConstantPolicy(DefaultRetryDelay)
	}
	if r.sleep == nil {
		r.sleep = SleepWithContext
	}
	return r
}

// Reconcile drives goal to its desired condition.
//
// The returned Result is meaningful even when err is non-nil: Changed is true
// iff at least one action was issued and Final holds the last observation.
func (r *Reconciler) Reconcile(ctx context.Context, goal Goal) (Result, error) {
	if goal.Query == nil || goal.Apply == nil {
		return Result{Goal: goal.Name}, fmt.Errorf("goal %q is missing a query or action", goal.Name)
	}

	start := time.Now()
	log := r.log.WithFields(map[string]any{"goal": goal.Name, "desired": string(goal.Desired)})
	res := Result{Goal: goal.Name}

	current, err := goal.Query(ctx)
	if err != nil {
		r.finish(goal, metrics.ResultError, start)
		return res, err
	}
	res.Final = current

	if goal.Satisfied(current) {
		log.Debug("already in desired state")
		r.finish(goal, metrics.ResultNoop, start)
		return res, nil
	}

	policy := r.newBackOff()
	policy.Reset()
	delay := DefaultRetryDelay

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			r.finish(goal, metrics.ResultError, start)
			return res, err
		}

		log.With("attempt", attempt).With("observed", current.String()).Debug("applying corrective action")
		res.Attempts = attempt
		res.Changed = true
		r.metrics.ObserveAttempt(goal.Name, string(goal.Desired))
		if err := goal.Apply(ctx); err != nil {
			r.finish(goal, metrics.ResultError, start)
			return res, err
		}

		if next := policy.NextBackOff(); next != backoff.Stop {
			delay = next
		}
		if err := r.sleep(ctx, delay); err != nil {
			r.finish(goal, metrics.ResultError, start)
			return res, err
		}

		current, err = goal.Query(ctx)
		if err != nil {
			r.finish(goal, metrics.ResultError, start)
			return res, err
		}
		res.Final = current

		if goal.Satisfied(current) {
			log.With("attempts", attempt).Info("reached desired state")
			r.finish(goal, metrics.ResultChanged, start)
			return res, nil
		}
	}

	r.finish(goal, metrics.ResultTimeout, start)
	timeout := gferrors.NewReconciliationTimeout(goal.Name, string(goal.Desired), r.maxAttempts, current.String())
	log.Error(timeout, "giving up")
	return res, timeout
}

func (r *Reconciler) finish(goal Goal, result string, start time.Time) {
	r.metrics.ObserveReconciliation(string(goal.Desired), result, time.Since(start).Seconds())
}

// SleepWithContext sleeps for d, returning ctx.Err() if the context is
// cancelled first.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
