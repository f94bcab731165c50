package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when a playbook leaves a value unset.
const (
	DefaultHome          = "/APP/glassfish3/glassfish"
	DefaultPort          = "4848"
	DefaultServer        = "server"
	DefaultTarget        = "server"
	DefaultMaxAttempts   = 30
	DefaultRetryDelay    = time.Second
	DefaultMaxRetryDelay = 30 * time.Second
	DefaultBackoff       = "constant"
)

// Task types.
const (
	TaskTypeDomain     = "domain"
	TaskTypeDeployment = "deployment"
)

// Config represents a gfctl playbook.
type Config struct {
	Version     string   `yaml:"version" validate:"required,semver"`
	Name        string   `yaml:"name" validate:"required,min=1,max=100"`
	Description string   `yaml:"description,omitempty"`
	Settings    Settings `yaml:"settings,omitempty"`
	Defaults    Defaults `yaml:"defaults,omitempty"`
	Tasks       []Task   `yaml:"tasks" validate:"required,min=1,dive"`
}

// Settings holds global execution parameters.
type Settings struct {
	MaxAttempts     int      `yaml:"max_attempts,omitempty" validate:"omitempty,min=1,max=1000"`
	RetryDelay      Duration `yaml:"retry_delay,omitempty"`
	MaxRetryDelay   Duration `yaml:"max_retry_delay,omitempty"`
	Backoff         string   `yaml:"backoff,omitempty" validate:"omitempty,oneof=constant exponential"`
	ContinueOnError bool     `yaml:"continue_on_error,omitempty"`
	DryRun          bool     `yaml:"dry_run,omitempty"`
	Verbose         bool     `yaml:"verbose,omitempty"`
}

// Defaults are inherited by every task that does not override them.
type Defaults struct {
	Home        string `yaml:"home,omitempty"`
	Asadmin     string `yaml:"asadmin,omitempty"`
	AsadminArgs string `yaml:"asadmin_args,omitempty"`
	Port        string `yaml:"port,omitempty" validate:"omitempty,port"`
	Server      string `yaml:"server,omitempty"`
	Target      string `yaml:"target,omitempty"`
}

// Task is one entry of the playbook.
type Task struct {
	ID      string `yaml:"id" validate:"required,task_id"`
	Name    string `yaml:"name,omitempty"`
	Type    string `yaml:"type" validate:"required,oneof=domain deployment"`
	Enabled bool   `yaml:"enabled,omitempty"`

	Domain     *DomainTask     `yaml:"-"`
	Deployment *DeploymentTask `yaml:"-"`
}

// UnmarshalYAML decodes the common fields and then the structure matching type.
func (t *Task) UnmarshalYAML(value *yaml.Node) error {
	type baseTask struct {
		ID      string `yaml:"id"`
		Name    string `yaml:"name"`
		Type    string `yaml:"type"`
		Enabled *bool  `yaml:"enabled"`
	}

	var base baseTask
	if err := value.Decode(&base); err != nil {
		return err
	}

	t.ID = base.ID
	t.Name = base.Name
	t.Type = base.Type
	if base.Enabled != nil {
		t.Enabled = *base.Enabled
	} else {
		t.Enabled = true
	}

	t.Domain = nil
	t.Deployment = nil

	switch base.Type {
	case TaskTypeDomain:
		var d DomainTask
		if err := value.Decode(&d); err != nil {
			return err
		}
		t.Domain = &d
	case TaskTypeDeployment:
		var d DeploymentTask
		if err := value.Decode(&d); err != nil {
			return err
		}
		t.Deployment = &d
	}

	return nil
}

// DisplayName returns the task name, falling back to its id.
func (t Task) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}

// DomainTask drives a domain to a state.
type DomainTask struct {
	Domain     string `yaml:"domain" validate:"required,domain_name"`
	State      string `yaml:"state,omitempty" validate:"omitempty,oneof=started stopped restarted"`
	ClearCache bool   `yaml:"clear_cache,omitempty"`
	Home       string `yaml:"home,omitempty"`
}

// DeploymentTask drives an application to a state.
type DeploymentTask struct {
	Deployment string `yaml:"deployment" validate:"required,deployment_name"`
	State      string `yaml:"state,omitempty" validate:"omitempty,oneof=present deployed absent undeployed redeployed enabled disabled"`
	Path       string `yaml:"path,omitempty"`
	Server     string `yaml:"server,omitempty"`
	Target     string `yaml:"target,omitempty"`
	Port       string `yaml:"port,omitempty" validate:"omitempty,port"`
	Home       string `yaml:"home,omitempty"`
	Enable     bool   `yaml:"enable,omitempty"`
	EnableSet  bool   `yaml:"-"`
	Context    string `yaml:"context,omitempty"`
}

// UnmarshalYAML applies the enable default.
func (d *DeploymentTask) UnmarshalYAML(value *yaml.Node) error {
	type rawDeployment DeploymentTask
	var temp rawDeployment
	if err := value.Decode(&temp); err != nil {
		return err
	}
	*d = DeploymentTask(temp)
	d.EnableSet = hasYAMLKey(value, "enable")
	if !d.EnableSet {
		d.Enable = true
	}
	return nil
}

// NeedsArtifact reports whether the state may deploy the artifact.
func (d DeploymentTask) NeedsArtifact() bool {
	switch d.State {
	case "", "present", "deployed", "redeployed":
		return true
	}
	return false
}

// Duration is a time.Duration that decodes from "1s"-style strings or from
// a bare number of seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*d = 0
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil || seconds < 0 {
		return fmt.Errorf("line %d: invalid duration %q", value.Line, raw)
	}
	*d = Duration(time.Duration(seconds * float64(time.Second)))
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// ApplyDefaults fills unset settings and defaults in place.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Settings.MaxAttempts == 0 {
		cfg.Settings.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Settings.RetryDelay == 0 {
		cfg.Settings.RetryDelay = Duration(DefaultRetryDelay)
	}
	if cfg.Settings.MaxRetryDelay == 0 {
		cfg.Settings.MaxRetryDelay = Duration(DefaultMaxRetryDelay)
	}
	if cfg.Settings.Backoff == "" {
		cfg.Settings.Backoff = DefaultBackoff
	}

	d := &cfg.Defaults
	if d.Home == "" {
		d.Home = DefaultHome
	}
	if d.Asadmin == "" {
		d.Asadmin = AsadminPath(d.Home)
	}
	if d.Port == "" {
		d.Port = DefaultPort
	}
	if d.Server == "" {
		d.Server = DefaultServer
	}
	if d.Target == "" {
		d.Target = DefaultTarget
	}
}

// AsadminPath returns the asadmin binary inside a Glassfish home.
func AsadminPath(home string) string {
	return strings.TrimRight(home, "/") + "/bin/asadmin"
}

func hasYAMLKey(node *yaml.Node, key string) bool {
	if node == nil || node.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}
