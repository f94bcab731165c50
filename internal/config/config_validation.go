package config

import (
	"fmt"

	"github.com/alexisbeaulieu97/gfctl/internal/asadmin"
	gferrors "github.com/alexisbeaulieu97/gfctl/pkg/errors"
)

// ValidateConfig performs structural and cross-field validation on a playbook.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return gferrors.NewValidationError("config", "configuration is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	if cfg.Settings.RetryDelay < 0 || cfg.Settings.MaxRetryDelay < 0 {
		return gferrors.NewValidationError("settings", "retry delays must not be negative", nil)
	}
	if cfg.Settings.MaxRetryDelay != 0 && cfg.Settings.MaxRetryDelay < cfg.Settings.RetryDelay {
		return gferrors.NewValidationError("settings.max_retry_delay", "max_retry_delay must not be shorter than retry_delay", nil)
	}
	if _, err := asadmin.SplitArgs(cfg.Defaults.AsadminArgs); err != nil {
		return gferrors.NewValidationError("defaults.asadmin_args", err.Error(), err)
	}

	seen := make(map[string]int, len(cfg.Tasks))
	for i, task := range cfg.Tasks {
		if first, exists := seen[task.ID]; exists {
			return gferrors.NewValidationError(fieldForTask(i, "id"), fmt.Sprintf("duplicate task id %q (first used by tasks[%d])", task.ID, first), nil)
		}
		if err := ValidateTask(task, i); err != nil {
			return err
		}
		seen[task.ID] = i
	}

	return nil
}

// ValidateTask inspects a single task independent of the others.
func ValidateTask(task Task, index int) error {
	v := validatorInstance()
	if err := v.Struct(task); err != nil {
		return convertValidationError(err)
	}

	switch task.Type {
	case TaskTypeDomain:
		if task.Domain == nil {
			return gferrors.NewValidationError(fieldForTask(index, "domain"), "domain configuration is required", nil)
		}
		if err := v.Struct(task.Domain); err != nil {
			return convertValidationError(err)
		}
	case TaskTypeDeployment:
		d := task.Deployment
		if d == nil {
			return gferrors.NewValidationError(fieldForTask(index, "deployment"), "deployment configuration is required", nil)
		}
		if err := v.Struct(d); err != nil {
			return convertValidationError(err)
		}
		if d.NeedsArtifact() && d.Path == "" {
			state := d.State
			if state == "" {
				state = "present"
			}
			return gferrors.NewValidationError(fieldForTask(index, "path"), fmt.Sprintf("path is required when state is %s", state), nil)
		}
	default:
		return gferrors.NewValidationError(fieldForTask(index, "type"), fmt.Sprintf("unknown task type %q", task.Type), nil)
	}

	return nil
}
