package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/gfctl/internal/config"
	"github.com/alexisbeaulieu97/gfctl/internal/lifecycle"
)

type deploymentOptions struct {
	state   string
	path    string
	server  string
	port    string
	target  string
	enable  bool
	context string
	home    string
}

func newDeploymentCmd(root *rootFlags) *cobra.Command {
	opts := deploymentOptions{}

	cmd := &cobra.Command{
		Use:     "deployment <name>",
		Aliases: []string{"deploy"},
		Short:   "Deploy, undeploy, enable or disable an application",
		Long: `Drive an application to present, absent, redeployed, enabled or disabled.

present and redeployed require --path. With --context the application also
becomes the default web module of --server; this only applies while the
application is enabled.`,
		Example: `  gfctl deployment hello --path /srv/hello.war
  gfctl deployment hello --state redeployed --path /srv/hello.war --context hello
  gfctl deployment hello --state disabled --port 4948`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTask(cmd, root, deploymentConfig(args[0], opts))
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.state, "state", string(lifecycle.Present), "Desired state: present, absent, redeployed, enabled or disabled")
	f.StringVar(&opts.path, "path", "", "Artifact to deploy")
	f.StringVar(&opts.server, "server", config.DefaultServer, "Virtual server the application is bound to")
	f.StringVarP(&opts.port, "port", "p", config.DefaultPort, "Admin listener port")
	f.StringVar(&opts.target, "target", config.DefaultTarget, "Target holding the application reference")
	f.BoolVar(&opts.enable, "enable", true, "Leave the application enabled after deploying")
	f.StringVar(&opts.context, "context", "", "Make the application the default web module under this context")
	f.StringVar(&opts.home, "home", config.DefaultHome, "Glassfish installation directory")

	return cmd
}

func deploymentConfig(name string, opts deploymentOptions) *config.Config {
	return &config.Config{
		Version: commandVersion,
		Name:    "deployment",
		Defaults: config.Defaults{
			Home:   opts.home,
			Server: opts.server,
			Target: opts.target,
		},
		Tasks: []config.Task{{
			ID:      "deployment",
			Name:    fmt.Sprintf("deployment %s %s", name, opts.state),
			Type:    config.TaskTypeDeployment,
			Enabled: true,
			Deployment: &config.DeploymentTask{
				Deployment: name,
				State:      opts.state,
				Path:       opts.path,
				Port:       opts.port,
				Enable:     opts.enable,
				EnableSet:  true,
				Context:    opts.context,
			},
		}},
	}
}
