package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexisbeaulieu97/gfctl/internal/model"
	"github.com/alexisbeaulieu97/gfctl/internal/reconcile"
	"github.com/alexisbeaulieu97/gfctl/pkg/diff"
	gferrors "github.com/alexisbeaulieu97/gfctl/pkg/errors"
)

// Execute runs the plan strictly in order and returns task results in plan
// order. The first failure stops the run unless ContinueOnError is set, in
// which case the first error is returned after every task ran.
func Execute(execCtx *ExecutionContext, plan *ExecutionPlan) ([]model.TaskResult, error) {
	if execCtx == nil {
		return nil, gferrors.NewExecutionError("", fmt.Errorf("execution context is nil"))
	}
	if plan == nil {
		return nil, gferrors.NewExecutionError("", fmt.Errorf("execution plan is nil"))
	}
	if execCtx.Results == nil {
		execCtx.Results = make(map[string]*model.TaskResult)
	}

	ctx := execCtx.ctx()
	results := make([]model.TaskResult, 0, len(plan.Tasks))
	var firstErr error

	for _, task := range plan.Tasks {
		if err := ctx.Err(); err != nil {
			return results, gferrors.NewExecutionError(task.ID, err)
		}

		if execCtx.Observer.OnTaskStart != nil {
			execCtx.Observer.OnTaskStart(task)
		}

		res, err := executeTask(ctx, execCtx, task)
		results = append(results, res)
		execCtx.Results[task.ID] = &results[len(results)-1]
		execCtx.Metrics.ObserveTask(task.Type, res.Status)

		if execCtx.Observer.OnTaskFinish != nil {
			execCtx.Observer.OnTaskFinish(res)
		}

		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			if !execCtx.ContinueOnError {
				return results, err
			}
		}
	}

	return results, firstErr
}

func executeTask(ctx context.Context, execCtx *ExecutionContext, task PlannedTask) (model.TaskResult, error) {
	log := execCtx.Logger.WithFields(map[string]any{"task": task.ID, "type": task.Type})
	start := time.Now()

	if !task.Enabled {
		log.Debug("task disabled")
		return model.TaskResult{
			TaskID:    task.ID,
			Type:      task.Type,
			Status:    model.StatusSkipped,
			Message:   "disabled",
			Timestamp: time.Now(),
		}, nil
	}

	if execCtx.DryRun {
		eval, err := evaluateTask(ctx, execCtx, task)
		res := model.TaskResult{TaskID: task.ID, Type: task.Type, Duration: time.Since(start), Timestamp: time.Now()}
		if err != nil {
			return finalizeFailure(res, task.ID, err)
		}
		if eval.Satisfied {
			res.Status = model.StatusOK
			res.Message = fmt.Sprintf("%s already %s", task.Subject(), task.State())
		} else {
			res.Status = model.StatusWouldChange
			res.Changed = true
			res.Message = fmt.Sprintf("would reconcile %s: observed %s", eval.Pending, eval.Observed)
		}
		return res, nil
	}

	log.Info("reconciling")
	outcome, err := ensureTask(ctx, execCtx, task)
	res := model.TaskResult{
		TaskID:    task.ID,
		Type:      task.Type,
		Changed:   outcome.Changed,
		Attempts:  outcome.Attempts(),
		Duration:  time.Since(start),
		Timestamp: time.Now(),
	}
	if err != nil {
		log.Error(err, "task failed")
		return finalizeFailure(res, task.ID, err)
	}

	if outcome.Changed {
		res.Status = model.StatusChanged
		res.Message = fmt.Sprintf("%s %s", task.Subject(), task.State())
	} else {
		res.Status = model.StatusOK
		res.Message = fmt.Sprintf("%s already %s", task.Subject(), task.State())
	}
	log.With("status", res.Status).Info("task finished")
	return res, nil
}

func ensureTask(ctx context.Context, execCtx *ExecutionContext, task PlannedTask) (reconcile.Outcome, error) {
	m := execCtx.manager(task)
	switch {
	case task.Domain != nil:
		return m.EnsureDomain(ctx, *task.Domain)
	case task.Deployment != nil:
		return m.EnsureDeployment(ctx, *task.Deployment)
	}
	return reconcile.Outcome{Name: task.ID}, fmt.Errorf("task %s has no domain or deployment", task.ID)
}

func evaluateTask(ctx context.Context, execCtx *ExecutionContext, task PlannedTask) (reconcile.Evaluation, error) {
	m := execCtx.manager(task)
	switch {
	case task.Domain != nil:
		return m.EvaluateDomain(ctx, *task.Domain)
	case task.Deployment != nil:
		return m.EvaluateDeployment(ctx, *task.Deployment)
	}
	return reconcile.Evaluation{Name: task.ID}, fmt.Errorf("task %s has no domain or deployment", task.ID)
}

func finalizeFailure(result model.TaskResult, taskID string, err error) (model.TaskResult, error) {
	result.Status = model.StatusFailed
	result.Error = err
	result.Message = err.Error()

	var timeout *gferrors.ReconciliationTimeout
	if errors.As(err, &timeout) {
		result.Message = fmt.Sprintf("gave up after %d attempts: %s", timeout.Attempts, timeout.LastObserved)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		result.Message = "interrupted"
	}

	return result, gferrors.NewExecutionError(taskID, err)
}

// Verify evaluates every enabled task without acting. A task whose
// precondition fails is blocked; any other error aborts verification.
func Verify(execCtx *ExecutionContext, plan *ExecutionPlan) (*model.VerificationSummary, error) {
	if execCtx == nil || plan == nil {
		return nil, gferrors.NewExecutionError("", fmt.Errorf("execution context and plan are required"))
	}

	start := time.Now()
	ctx := execCtx.ctx()
	summary := &model.VerificationSummary{}

	for _, task := range plan.Tasks {
		if !task.Enabled {
			continue
		}
		summary.TotalTasks++

		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(start)
			return summary, err
		}

		taskStart := time.Now()
		eval, err := evaluateTask(ctx, execCtx, task)
		result := &model.VerificationResult{TaskID: task.ID, Timestamp: time.Now()}

		var pre *gferrors.PreconditionError
		switch {
		case errors.As(err, &pre):
			result.Status = model.StatusBlocked
			result.Message = pre.Error()
			result.Error = err
		case err != nil:
			summary.Duration = time.Since(start)
			return summary, gferrors.NewExecutionError(task.ID, err)
		case eval.Satisfied:
			result.Status = model.StatusSatisfied
			result.Message = fmt.Sprintf("%s is %s", task.Subject(), task.State())
		default:
			result.Status = model.StatusDrifted
			result.Pending = eval.Pending
			result.Observed = eval.Observed.String()
			result.Message = fmt.Sprintf("%s: observed %s, want %s", eval.Pending, eval.Observed, eval.Desired)
			result.Details = diff.Unified(
				diff.Lines("goal", eval.Pending, "subject", eval.Observed.Subject, "condition", string(eval.Desired)),
				diff.Lines("goal", eval.Pending, "subject", eval.Observed.Subject, "condition", string(eval.Observed.Condition), "detail", eval.Observed.Detail),
				"desired", "observed",
			)
		}
		result.Duration = time.Since(taskStart)
		summary.Add(result)
	}

	summary.Duration = time.Since(start)
	return summary, nil
}
