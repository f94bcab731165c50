// Package lifecycle maps operator-level desired states of Glassfish domains
// and deployments onto ordered reconciliation goals.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/alexisbeaulieu97/gfctl/internal/asadmin"
	"github.com/alexisbeaulieu97/gfctl/internal/logger"
	"github.com/alexisbeaulieu97/gfctl/internal/reconcile"
	gferrors "github.com/alexisbeaulieu97/gfctl/pkg/errors"
)

// DesiredState is the operator's goal for a domain or a deployment.
type DesiredState string

// Domain states.
const (
	Started   DesiredState = "started"
	Stopped   DesiredState = "stopped"
	Restarted DesiredState = "restarted"
)

// DomainSpec describes one domain invocation.
type DomainSpec struct {
	Name       string
	Home       string
	State      DesiredState
	ClearCache bool
}

// Manager reconciles domains and deployments through one asadmin client.
type Manager struct {
	client     *asadmin.Client
	reconciler *reconcile.Reconciler
	log        *logger.Logger
}

// NewManager wires a Manager.
func NewManager(client *asadmin.Client, reconciler *reconcile.Reconciler, log *logger.Logger) *Manager {
	return &Manager{client: client, reconciler: reconciler, log: log}
}

// EnsureDomain drives the domain to spec.State. The asadmin binary is checked
// before anything is queried.
func (m *Manager) EnsureDomain(ctx context.Context, spec DomainSpec) (reconcile.Outcome, error) {
	if err := m.client.CheckBinary(); err != nil {
		return reconcile.Outcome{Name: domainSubject(spec)}, err
	}

	goals, err := m.DomainGoals(ctx, spec)
	if err != nil {
		return reconcile.Outcome{Name: domainSubject(spec)}, err
	}

	m.log.WithFields(map[string]any{"domain": spec.Name, "state": string(spec.State), "clear_cache": spec.ClearCache}).
		Debug("reconciling domain")
	return m.reconciler.Sequence(ctx, domainSubject(spec), goals...)
}

// EvaluateDomain reports, without acting, whether the domain already matches spec.
func (m *Manager) EvaluateDomain(ctx context.Context, spec DomainSpec) (reconcile.Evaluation, error) {
	if err := m.client.CheckBinary(); err != nil {
		return reconcile.Evaluation{Name: domainSubject(spec)}, err
	}

	goals, err := m.DomainGoals(ctx, spec)
	if err != nil {
		return reconcile.Evaluation{Name: domainSubject(spec)}, err
	}
	return m.reconciler.Evaluate(ctx, domainSubject(spec), goals...)
}

// DomainGoals returns the ordered goals for spec.
//
// A started domain with a cache clear only bounces when the cache is dirty;
// restarted always bounces. The cache clear always sits between the stop and
// the start.
func (m *Manager) DomainGoals(ctx context.Context, spec DomainSpec) ([]reconcile.Goal, error) {
	if spec.Name == "" {
		return nil, gferrors.NewValidationError("domain", "domain name is required", nil)
	}

	stop, start := m.stopGoal(spec.Name), m.startGoal(spec.Name)
	cleaner := NewWorkspaceCleaner(spec.Home, spec.Name)

	switch spec.State {
	case Started, "":
		if !spec.ClearCache {
			return []reconcile.Goal{start}, nil
		}
		cache, err := cleaner.Query(ctx)
		if err != nil {
			return nil, err
		}
		if cache.Condition == reconcile.ConditionCleared {
			return []reconcile.Goal{start}, nil
		}
		return []reconcile.Goal{stop, cleaner.Goal(), start}, nil
	case Stopped:
		if spec.ClearCache {
			return []reconcile.Goal{stop, cleaner.Goal()}, nil
		}
		return []reconcile.Goal{stop}, nil
	case Restarted:
		if spec.ClearCache {
			return []reconcile.Goal{stop, cleaner.Goal(), start}, nil
		}
		return []reconcile.Goal{stop, start}, nil
	default:
		return nil, gferrors.NewValidationError("state", fmt.Sprintf("unsupported domain state %q", spec.State), nil)
	}
}

func (m *Manager) domainQuery(name string) reconcile.QueryFunc {
	return func(ctx context.Context) (reconcile.ObservedState, error) {
		running, line, err := m.client.DomainRunning(ctx, name)
		if err != nil {
			return reconcile.ObservedState{}, err
		}
		state := reconcile.ObservedState{Subject: name, Condition: reconcile.ConditionStopped, Detail: line}
		if running {
			state.Condition = reconcile.ConditionRunning
		}
		return state, nil
	}
}

func (m *Manager) startGoal(name string) reconcile.Goal {
	return reconcile.Goal{
		Name:    "domain " + name + " running",
		Desired: reconcile.ConditionRunning,
		Query:   m.domainQuery(name),
		Apply:   func(ctx context.Context) error { return m.client.StartDomain(ctx, name) },
	}
}

func (m *Manager) stopGoal(name string) reconcile.Goal {
	return reconcile.Goal{
		Name:    "domain " + name + " stopped",
		Desired: reconcile.ConditionStopped,
		Query:   m.domainQuery(name),
		Apply:   func(ctx context.Context) error { return m.client.StopDomain(ctx, name) },
	}
}

func domainSubject(spec DomainSpec) string {
	return "domain " + spec.Name
}
