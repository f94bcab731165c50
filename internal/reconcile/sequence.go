package reconcile

import (
	"context"
)

// Outcome aggregates the reconciliation of an ordered list of goals.
type Outcome struct {
	Name    string
	Changed bool
	Steps   []Result
	Final   ObservedState
}

// Attempts sums the actions issued across steps.
func (o Outcome) Attempts() int {
	total := 0
	for _, step := range o.Steps {
		total += step.Attempts
	}
	return total
}

// Sequence reconciles goals in order. Each goal runs to completion before the
// next one starts; the first error stops the sequence. Changed is the OR of
// the individual steps, including the failing one.
func (r *Reconciler) Sequence(ctx context.Context, name string, goals ...Goal) (Outcome, error) {
	out := Outcome{Name: name, Steps: make([]Result, 0, len(goals))}

	for _, goal := range goals {
		res, err := r.Reconcile(ctx, goal)
		out.Steps = append(out.Steps, res)
		out.Changed = out.Changed || res.Changed
		out.Final = res.Final
		if err != nil {
			return out, err
		}
	}

	return out, nil
}

// Evaluation is the read-only assessment of a goal list.
type Evaluation struct {
	Name      string
	Satisfied bool
	// Pending names the first goal that is not satisfied.
	Pending  string
	Desired  Condition
	Observed ObservedState
}

// Evaluate queries goals in order without acting and stops at the first one
// that is not satisfied, since later goals may only be observable once the
// earlier ones hold.
func (r *Reconciler) Evaluate(ctx context.Context, name string, goals ...Goal) (Evaluation, error) {
	eval := Evaluation{Name: name, Satisfied: true}

	for _, goal := range goals {
		if err := ctx.Err(); err != nil {
			return eval, err
		}
		state, err := goal.Query(ctx)
		if err != nil {
			return eval, err
		}
		eval.Observed = state
		if !goal.Satisfied(state) {
			eval.Satisfied = false
			eval.Pending = goal.Name
			eval.Desired = goal.Desired
			return eval, nil
		}
	}

	return eval, nil
}
