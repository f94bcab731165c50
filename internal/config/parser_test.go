package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	gferrors "github.com/alexisbeaulieu97/gfctl/pkg/errors"
)

const samplePlaybook = `version: "1.0"
name: "Release hello"
description: "Bounce domain1 and roll out hello"
settings:
  max_attempts: 10
  retry_delay: 2s
  max_retry_delay: 20
  backoff: exponential
defaults:
  home: /opt/glassfish4/glassfish
  asadmin_args: --user admin --passwordfile "/etc/gf/pass word"
  port: "14848"
tasks:
  - id: bounce
    type: domain
    domain: domain1
    state: restarted
    clear_cache: true
  - id: hello
    name: Deploy hello
    type: deployment
    deployment: hello
    path: /srv/releases/hello.war
    context: hello
  - id: legacy
    type: deployment
    deployment: legacy
    state: undeployed
    enabled: false
`

func TestParseConfig(t *testing.T) {
	t.Parallel()

	invalidYAML := `version: [1, 0]
name: "Broken"
tasks:
  - id: missing_type
`

	missingRequired := `version: "1.0"
name: "No Tasks"
`

	badVersion := `version: "beta"
name: "Bad Version"
tasks:
  - id: start
    type: domain
    domain: domain1
`

	cases := []struct {
		name     string
		contents string
		assert   func(t *testing.T, cfg *Config, err error)
	}{
		{
			name:     "valid playbook is parsed",
			contents: samplePlaybook,
			assert: func(t *testing.T, cfg *Config, err error) {
				require.NoError(t, err)
				require.NotNil(t, cfg)
				require.Equal(t, "Release hello", cfg.Name)
				require.Len(t, cfg.Tasks, 3)

				require.Equal(t, 10, cfg.Settings.MaxAttempts)
				require.Equal(t, 2*time.Second, cfg.Settings.RetryDelay.Std())
				require.Equal(t, 20*time.Second, cfg.Settings.MaxRetryDelay.Std())
				require.Equal(t, "exponential", cfg.Settings.Backoff)

				require.Equal(t, "/opt/glassfish4/glassfish/bin/asadmin", cfg.Defaults.Asadmin)
				require.Equal(t, "14848", cfg.Defaults.Port)
				require.Equal(t, DefaultServer, cfg.Defaults.Server)

				bounce := cfg.Tasks[0]
				require.True(t, bounce.Enabled)
				require.NotNil(t, bounce.Domain)
				require.Nil(t, bounce.Deployment)
				require.Equal(t, "domain1", bounce.Domain.Domain)
				require.True(t, bounce.Domain.ClearCache)
				require.Equal(t, "bounce", bounce.DisplayName())

				hello := cfg.Tasks[1]
				require.NotNil(t, hello.Deployment)
				require.True(t, hello.Deployment.Enable)
				require.False(t, hello.Deployment.EnableSet)
				require.Equal(t, "hello", hello.Deployment.Context)
				require.Equal(t, "Deploy hello", hello.DisplayName())

				require.False(t, cfg.Tasks[2].Enabled)
			},
		},
		{
			name:     "invalid yaml returns parse error",
			contents: invalidYAML,
			assert: func(t *testing.T, cfg *Config, err error) {
				var parseErr *gferrors.ParseError
				require.ErrorAs(t, err, &parseErr)
				require.Contains(t, parseErr.Message, "cannot unmarshal")
				require.Equal(t, 1, parseErr.Line)
				require.Nil(t, cfg)
			},
		},
		{
			name:     "missing required fields returns validation error",
			contents: missingRequired,
			assert: func(t *testing.T, cfg *Config, err error) {
				var validationErr *gferrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				require.Contains(t, validationErr.Message, "tasks")
			},
		},
		{
			name:     "schema version must follow major.minor",
			contents: badVersion,
			assert: func(t *testing.T, cfg *Config, err error) {
				var validationErr *gferrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				require.Contains(t, validationErr.Message, "version")
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := ParseConfig(writeTempConfig(t, tc.contents))
			tc.assert(t, cfg, err)
		})
	}
}

func TestParseDeploymentEnableKeyIsCaseSensitive(t *testing.T) {
	t.Parallel()

	cfg, err := Parse("enable.yaml", []byte(`version: "1.0"
name: enable
tasks:
  - id: upper
    type: deployment
    deployment: hello
    path: /srv/hello.war
    Enable: false
  - id: lower
    type: deployment
    deployment: legacy
    path: /srv/legacy.war
    enable: false
`))
	require.NoError(t, err)

	upper := cfg.Tasks[0].Deployment
	require.False(t, upper.EnableSet)
	require.True(t, upper.Enable)

	lower := cfg.Tasks[1].Deployment
	require.True(t, lower.EnableSet)
	require.False(t, lower.Enable)
}

func TestParseConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := ParseConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorAs(t, err, new(*gferrors.ParseError))
}

func TestParseAppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Parse("inline", []byte(`version: "1.0"
name: minimal
tasks:
  - id: start
    type: domain
    domain: domain1
`))
	require.NoError(t, err)
	require.Equal(t, DefaultMaxAttempts, cfg.Settings.MaxAttempts)
	require.Equal(t, DefaultRetryDelay, cfg.Settings.RetryDelay.Std())
	require.Equal(t, DefaultMaxRetryDelay, cfg.Settings.MaxRetryDelay.Std())
	require.Equal(t, DefaultBackoff, cfg.Settings.Backoff)
	require.Equal(t, DefaultHome, cfg.Defaults.Home)
	require.Equal(t, DefaultHome+"/bin/asadmin", cfg.Defaults.Asadmin)
	require.Equal(t, DefaultPort, cfg.Defaults.Port)
	require.Equal(t, DefaultTarget, cfg.Defaults.Target)
}

func TestDurationRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Parse("inline", []byte(`version: "1.0"
name: bad
settings:
  retry_delay: soon
tasks:
  - id: start
    type: domain
    domain: domain1
`))
	require.ErrorAs(t, err, new(*gferrors.ParseError))
}

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "playbook.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestParseConfigExamplePlaybook(t *testing.T) {
	t.Parallel()

	cfg, err := ParseConfig(filepath.Join("..", "..", "examples", "release.yaml"))
	require.NoError(t, err)
	require.Equal(t, "release", cfg.Name)
	require.Equal(t, "exponential", cfg.Settings.Backoff)
	require.Equal(t, "/APP/glassfish3/glassfish/bin/asadmin", cfg.Defaults.Asadmin)
	require.Len(t, cfg.Tasks, 4)

	require.True(t, cfg.Tasks[0].Domain.ClearCache)
	require.Equal(t, "redeployed", cfg.Tasks[1].Deployment.State)
	require.True(t, cfg.Tasks[1].Deployment.Enable)
	require.Equal(t, "hello", cfg.Tasks[1].Deployment.Context)
	require.Empty(t, cfg.Tasks[2].Deployment.Path)
	require.False(t, cfg.Tasks[3].Enabled)
}
