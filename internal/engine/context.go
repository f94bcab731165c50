package engine

import (
	"context"

	"github.com/alexisbeaulieu97/gfctl/internal/asadmin"
	"github.com/alexisbeaulieu97/gfctl/internal/lifecycle"
	"github.com/alexisbeaulieu97/gfctl/internal/logger"
	"github.com/alexisbeaulieu97/gfctl/internal/metrics"
	"github.com/alexisbeaulieu97/gfctl/internal/model"
	"github.com/alexisbeaulieu97/gfctl/internal/reconcile"
)

// Observer receives task progress. Either callback may be nil.
type Observer struct {
	OnTaskStart  func(task PlannedTask)
	OnTaskFinish func(result model.TaskResult)
}

// ExecutionContext contains runtime state shared across task executions.
type ExecutionContext struct {
	DryRun          bool
	ContinueOnError bool
	// Runner executes asadmin. Defaults to asadmin.ExecRunner.
	Runner     asadmin.Runner
	Reconciler *reconcile.Reconciler
	Results    map[string]*model.TaskResult
	Logger     *logger.Logger
	Metrics    *metrics.Metrics
	Observer   Observer
	Context    context.Context
}

func (c *ExecutionContext) ctx() context.Context {
	if c.Context == nil {
		return context.Background()
	}
	return c.Context
}

func (c *ExecutionContext) runner() asadmin.Runner {
	if c.Runner == nil {
		return asadmin.ExecRunner{}
	}
	return c.Runner
}

func (c *ExecutionContext) reconciler() *reconcile.Reconciler {
	if c.Reconciler == nil {
		c.Reconciler = reconcile.New(reconcile.Options{Logger: c.Logger, Metrics: c.Metrics})
	}
	return c.Reconciler
}

// manager builds the lifecycle manager for one task.
func (c *ExecutionContext) manager(task PlannedTask) *lifecycle.Manager {
	client := asadmin.NewClient(task.Asadmin,
		asadmin.WithRunner(c.runner()),
		asadmin.WithPort(task.Port),
		asadmin.WithGlobalArgs(task.AsadminArgs),
		asadmin.WithLogger(c.Logger.With("task", task.ID)),
	)
	return lifecycle.NewManager(client, c.reconciler(), c.Logger.With("task", task.ID))
}
