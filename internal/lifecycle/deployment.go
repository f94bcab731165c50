package lifecycle

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alexisbeaulieu97/gfctl/internal/asadmin"
	"github.com/alexisbeaulieu97/gfctl/internal/reconcile"
	gferrors "github.com/alexisbeaulieu97/gfctl/pkg/errors"
)

// Deployment states.
const (
	Present    DesiredState = "present"
	Absent     DesiredState = "absent"
	Redeployed DesiredState = "redeployed"
	Enabled    DesiredState = "enabled"
	Disabled   DesiredState = "disabled"
)

// Defaults for deployment specs.
const (
	DefaultServer = "server"
	DefaultTarget = "server"
)

// NormalizeDeploymentState maps accepted aliases onto canonical states.
func NormalizeDeploymentState(raw string) (DesiredState, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "present", "deployed":
		return Present, nil
	case "absent", "undeployed":
		return Absent, nil
	case "redeployed":
		return Redeployed, nil
	case "enabled":
		return Enabled, nil
	case "disabled":
		return Disabled, nil
	default:
		return "", gferrors.NewValidationError("state", fmt.Sprintf("unsupported deployment state %q", raw), nil)
	}
}

// DeploymentSpec describes one application invocation.
type DeploymentSpec struct {
	Name string
	// Artifact is the ear/war path handed to deploy.
	Artifact string
	// Server is the virtual server the application binds to.
	Server string
	// Target is the server instance holding the application reference.
	Target string
	State  DesiredState
	Enable bool
	// Context, when set, becomes the virtual server's default web module.
	Context string
}

func (s DeploymentSpec) withDefaults() DeploymentSpec {
	if s.Server == "" {
		s.Server = DefaultServer
	}
	if s.Target == "" {
		s.Target = DefaultTarget
	}
	if s.State == "" {
		s.State = Present
	}
	return s
}

// requiresArtifact reports whether the state may issue a deploy.
func (s DeploymentSpec) requiresArtifact() bool {
	return s.State == Present || s.State == Redeployed
}

// EnsureDeployment drives the application to spec.State. The asadmin binary
// and, when a deploy may be issued, the artifact are checked before anything
// is queried.
func (m *Manager) EnsureDeployment(ctx context.Context, spec DeploymentSpec) (reconcile.Outcome, error) {
	spec = spec.withDefaults()
	if err := m.deploymentPreconditions(spec); err != nil {
		return reconcile.Outcome{Name: deploymentSubject(spec)}, err
	}

	goals, err := m.DeploymentGoals(spec)
	if err != nil {
		return reconcile.Outcome{Name: deploymentSubject(spec)}, err
	}

	m.log.WithFields(map[string]any{"deployment": spec.Name, "state": string(spec.State), "enable": spec.Enable}).
		Debug("reconciling deployment")
	return m.reconciler.Sequence(ctx, deploymentSubject(spec), goals...)
}

// EvaluateDeployment reports, without acting, whether the application
// already matches spec.
func (m *Manager) EvaluateDeployment(ctx context.Context, spec DeploymentSpec) (reconcile.Evaluation, error) {
	spec = spec.withDefaults()
	if err := m.deploymentPreconditions(spec); err != nil {
		return reconcile.Evaluation{Name: deploymentSubject(spec)}, err
	}

	goals, err := m.DeploymentGoals(spec)
	if err != nil {
		return reconcile.Evaluation{Name: deploymentSubject(spec)}, err
	}
	return m.reconciler.Evaluate(ctx, deploymentSubject(spec), goals...)
}

// DeploymentGoals returns the ordered goals for spec.
func (m *Manager) DeploymentGoals(spec DeploymentSpec) ([]reconcile.Goal, error) {
	spec = spec.withDefaults()
	if spec.Name == "" {
		return nil, gferrors.NewValidationError("deployment", "deployment name is required", nil)
	}

	var goals []reconcile.Goal
	switch spec.State {
	case Present:
		goals = append(goals, m.deployedGoal(spec), m.enabledGoal(spec, spec.Enable))
	case Redeployed:
		goals = append(goals, m.undeployedGoal(spec), m.deployedGoal(spec), m.enabledGoal(spec, spec.Enable))
	case Absent:
		return []reconcile.Goal{m.undeployedGoal(spec)}, nil
	case Enabled:
		spec.Enable = true
		goals = append(goals, m.enabledGoal(spec, true))
	case Disabled:
		return []reconcile.Goal{m.enabledGoal(spec, false)}, nil
	default:
		return nil, gferrors.NewValidationError("state", fmt.Sprintf("unsupported deployment state %q", spec.State), nil)
	}

	if spec.Context != "" && spec.Enable {
		goals = append(goals, m.defaultContextGoal(spec))
	}
	return goals, nil
}

func (m *Manager) deploymentPreconditions(spec DeploymentSpec) error {
	if err := m.client.CheckBinary(); err != nil {
		return err
	}
	if !spec.requiresArtifact() {
		return nil
	}
	if spec.Artifact == "" {
		return gferrors.NewPreconditionError("", fmt.Sprintf("an artifact path is required for state %s", spec.State), nil)
	}
	if _, err := os.Stat(spec.Artifact); err != nil {
		return gferrors.NewPreconditionError(spec.Artifact, "deployment artifact does not exist", err)
	}
	return nil
}

func (m *Manager) deployedQuery(spec DeploymentSpec) reconcile.QueryFunc {
	return func(ctx context.Context) (reconcile.ObservedState, error) {
		deployed, line, err := m.client.ApplicationDeployed(ctx, spec.Name)
		if err != nil {
			return reconcile.ObservedState{}, err
		}
		state := reconcile.ObservedState{Subject: spec.Name, Condition: reconcile.ConditionUndeployed, Detail: line}
		if deployed {
			state.Condition = reconcile.ConditionDeployed
		}
		return state, nil
	}
}

func (m *Manager) deployedGoal(spec DeploymentSpec) reconcile.Goal {
	return reconcile.Goal{
		Name:    "deployment " + spec.Name + " deployed",
		Desired: reconcile.ConditionDeployed,
		Query:   m.deployedQuery(spec),
		Apply: func(ctx context.Context) error {
			return m.client.Deploy(ctx, asadmin.DeployOptions{
				Name:           spec.Name,
				Path:           spec.Artifact,
				VirtualServers: spec.Server,
				Enabled:        spec.Enable,
			})
		},
	}
}

func (m *Manager) undeployedGoal(spec DeploymentSpec) reconcile.Goal {
	return reconcile.Goal{
		Name:    "deployment " + spec.Name + " undeployed",
		Desired: reconcile.ConditionUndeployed,
		Query:   m.deployedQuery(spec),
		Apply:   func(ctx context.Context) error { return m.client.Undeploy(ctx, spec.Name) },
	}
}

func (m *Manager) enabledGoal(spec DeploymentSpec, enable bool) reconcile.Goal {
	desired := reconcile.ConditionDisabled
	if enable {
		desired = reconcile.ConditionEnabled
	}
	return reconcile.Goal{
		Name:    "deployment " + spec.Name + " " + string(desired),
		Desired: desired,
		Query: func(ctx context.Context) (reconcile.ObservedState, error) {
			enabled, err := m.client.ApplicationEnabled(ctx, spec.Target, spec.Name)
			if err != nil {
				return reconcile.ObservedState{}, err
			}
			state := reconcile.ObservedState{Subject: spec.Name, Condition: reconcile.ConditionDisabled}
			if enabled {
				state.Condition = reconcile.ConditionEnabled
			}
			return state, nil
		},
		Apply: func(ctx context.Context) error {
			return m.client.SetApplicationEnabled(ctx, spec.Target, spec.Name, enable)
		},
	}
}

// DefaultContextCondition is the condition of a virtual server whose default
// web module is module.
func DefaultContextCondition(module string) reconcile.Condition {
	return reconcile.Condition("default-web-module=" + module)
}

func (m *Manager) defaultContextGoal(spec DeploymentSpec) reconcile.Goal {
	return reconcile.Goal{
		Name:    "virtual server " + spec.Server + " default web module " + spec.Context,
		Desired: DefaultContextCondition(spec.Context),
		Query: func(ctx context.Context) (reconcile.ObservedState, error) {
			module, err := m.client.DefaultWebModule(ctx, spec.Server)
			if err != nil {
				return reconcile.ObservedState{}, err
			}
			return reconcile.ObservedState{Subject: spec.Server, Condition: DefaultContextCondition(module)}, nil
		},
		Apply: func(ctx context.Context) error {
			return m.client.SetDefaultWebModule(ctx, spec.Server, spec.Context)
		},
	}
}

func deploymentSubject(spec DeploymentSpec) string {
	return "deployment " + spec.Name
}
