package engine

import (
	"fmt"
	"strings"

	"github.com/alexisbeaulieu97/gfctl/internal/asadmin"
	"github.com/alexisbeaulieu97/gfctl/internal/config"
	"github.com/alexisbeaulieu97/gfctl/internal/lifecycle"
	gferrors "github.com/alexisbeaulieu97/gfctl/pkg/errors"
)

// ExecutionPlan is the ordered list of resolved tasks of a playbook.
type ExecutionPlan struct {
	Tasks []PlannedTask
}

// PlannedTask is a playbook task with every default resolved.
type PlannedTask struct {
	ID      string
	Name    string
	Type    string
	Enabled bool

	Asadmin     string
	AsadminArgs []string
	Port        string

	Domain     *lifecycle.DomainSpec
	Deployment *lifecycle.DeploymentSpec
}

// Subject names what the task acts on.
func (t PlannedTask) Subject() string {
	switch {
	case t.Domain != nil:
		return t.Domain.Name
	case t.Deployment != nil:
		return t.Deployment.Name
	}
	return ""
}

// State returns the resolved desired state.
func (t PlannedTask) State() lifecycle.DesiredState {
	switch {
	case t.Domain != nil:
		return t.Domain.State
	case t.Deployment != nil:
		return t.Deployment.State
	}
	return ""
}

// GeneratePlan resolves cfg into an execution plan. A task home overrides the
// playbook home and, unless an asadmin binary was configured explicitly, the
// binary beneath it.
func GeneratePlan(cfg *config.Config) (*ExecutionPlan, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	globalArgs, err := asadmin.SplitArgs(cfg.Defaults.AsadminArgs)
	if err != nil {
		return nil, gferrors.NewValidationError("defaults.asadmin_args", err.Error(), err)
	}

	// An asadmin outside the playbook home was set by flag or defaults.asadmin.
	explicitAsadmin := cfg.Defaults.Asadmin != "" && cfg.Defaults.Asadmin != config.AsadminPath(cfg.Defaults.Home)

	plan := &ExecutionPlan{Tasks: make([]PlannedTask, 0, len(cfg.Tasks))}
	for _, task := range cfg.Tasks {
		planned := PlannedTask{
			ID:          task.ID,
			Name:        task.DisplayName(),
			Type:        task.Type,
			Enabled:     task.Enabled,
			Asadmin:     cfg.Defaults.Asadmin,
			AsadminArgs: globalArgs,
			Port:        cfg.Defaults.Port,
		}

		switch {
		case task.Domain != nil:
			home := pick(task.Domain.Home, cfg.Defaults.Home)
			if task.Domain.Home != "" && !explicitAsadmin {
				planned.Asadmin = config.AsadminPath(home)
			}
			planned.Domain = &lifecycle.DomainSpec{
				Name:       task.Domain.Domain,
				Home:       home,
				State:      lifecycle.DesiredState(pick(task.Domain.State, string(lifecycle.Started))),
				ClearCache: task.Domain.ClearCache,
			}
		case task.Deployment != nil:
			d := task.Deployment
			state, err := lifecycle.NormalizeDeploymentState(d.State)
			if err != nil {
				return nil, gferrors.NewExecutionError(task.ID, err)
			}
			if d.Home != "" && !explicitAsadmin {
				planned.Asadmin = config.AsadminPath(d.Home)
			}
			planned.Port = pick(d.Port, cfg.Defaults.Port)
			planned.Deployment = &lifecycle.DeploymentSpec{
				Name:     d.Deployment,
				Artifact: d.Path,
				Server:   pick(d.Server, cfg.Defaults.Server),
				Target:   pick(d.Target, cfg.Defaults.Target),
				State:    state,
				Enable:   d.Enable,
				Context:  d.Context,
			}
		default:
			return nil, gferrors.NewExecutionError(task.ID, fmt.Errorf("task type %q has no configuration", task.Type))
		}

		plan.Tasks = append(plan.Tasks, planned)
	}

	return plan, nil
}

// String renders a human readable summary of the plan.
func (p *ExecutionPlan) String() string {
	if p == nil {
		return ""
	}

	var b strings.Builder
	for i, task := range p.Tasks {
		marker := ""
		if !task.Enabled {
			marker = " (disabled)"
		}
		fmt.Fprintf(&b, "%d. %s: %s %s -> %s%s\n", i+1, task.ID, task.Type, task.Subject(), task.State(), marker)
	}
	return b.String()
}

func pick(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
