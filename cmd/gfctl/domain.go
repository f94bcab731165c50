package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/gfctl/internal/config"
	"github.com/alexisbeaulieu97/gfctl/internal/lifecycle"
)

type domainOptions struct {
	state      string
	clearCache bool
	home       string
}

func newDomainCmd(root *rootFlags) *cobra.Command {
	opts := domainOptions{}

	cmd := &cobra.Command{
		Use:   "domain <name>",
		Short: "Start, stop or restart a Glassfish domain",
		Long: `Drive a domain to started, stopped or restarted.

With --clear-cache the domain's generated, osgi-cache and applications
directories are emptied while the domain is down. A started domain with a
clean workspace is left alone.`,
		Example: `  gfctl domain domain1 --state started
  gfctl domain domain1 --state restarted --clear-cache --home /opt/glassfish3/glassfish`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTask(cmd, root, domainConfig(args[0], opts))
		},
	}

	cmd.Flags().StringVar(&opts.state, "state", string(lifecycle.Started), "Desired state: started, stopped or restarted")
	cmd.Flags().BoolVar(&opts.clearCache, "clear-cache", false, "Clear the domain workspace caches")
	cmd.Flags().StringVar(&opts.home, "home", config.DefaultHome, "Glassfish installation directory")

	return cmd
}

func domainConfig(name string, opts domainOptions) *config.Config {
	return &config.Config{
		Version:  commandVersion,
		Name:     "domain",
		Defaults: config.Defaults{Home: opts.home},
		Tasks: []config.Task{{
			ID:      "domain",
			Name:    fmt.Sprintf("domain %s %s", name, opts.state),
			Type:    config.TaskTypeDomain,
			Enabled: true,
			Domain: &config.DomainTask{
				Domain:     name,
				State:      opts.state,
				ClearCache: opts.clearCache,
			},
		}},
	}
}
