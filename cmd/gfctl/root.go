package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/gfctl/internal/config"
)

type rootFlags struct {
	verbose     bool
	dryRun      bool
	json        bool
	maxAttempts int
	retryDelay  time.Duration
	backoff     string
	asadmin     string
	asadminArgs string
	metricsFile string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "gfctl",
		Short: "gfctl drives Glassfish domains and deployments to a desired state",
		Long: `gfctl reconciles Glassfish domains and application deployments through
asadmin. Every command queries the current state first and only acts when
the target differs, retrying a bounded number of times until the change
is observed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging and stream asadmin output")
	pf.BoolVar(&flags.dryRun, "dry-run", false, "Report what would change without issuing any action")
	pf.BoolVar(&flags.json, "json", false, "Print results as JSON")
	pf.IntVar(&flags.maxAttempts, "max-attempts", config.DefaultMaxAttempts, "Maximum actions issued per goal")
	pf.DurationVar(&flags.retryDelay, "retry-delay", config.DefaultRetryDelay, "Delay between an action and the next query")
	pf.StringVar(&flags.backoff, "backoff", config.DefaultBackoff, "Retry delay policy: constant or exponential")
	pf.StringVar(&flags.asadmin, "asadmin", "", "Path to the asadmin binary; takes precedence over task homes (default <home>/bin/asadmin)")
	pf.StringVar(&flags.asadminArgs, "asadmin-args", "", "Extra asadmin utility options, e.g. \"--user admin --passwordfile /secure/pw\"")
	pf.StringVar(&flags.metricsFile, "metrics-file", "", "Write reconciliation metrics in textfile format to this path")

	cmd.AddCommand(newDomainCmd(flags))
	cmd.AddCommand(newDeploymentCmd(flags))
	cmd.AddCommand(newApplyCmd(flags))
	cmd.AddCommand(newVerifyCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// applyOverrides lets explicitly set flags win over playbook settings.
func applyOverrides(cmd *cobra.Command, flags *rootFlags, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("max-attempts") {
		cfg.Settings.MaxAttempts = flags.maxAttempts
	}
	if changed("retry-delay") {
		cfg.Settings.RetryDelay = config.Duration(flags.retryDelay)
		if cfg.Settings.MaxRetryDelay < cfg.Settings.RetryDelay {
			cfg.Settings.MaxRetryDelay = cfg.Settings.RetryDelay
		}
	}
	if changed("backoff") {
		cfg.Settings.Backoff = flags.backoff
	}
	if changed("asadmin") {
		cfg.Defaults.Asadmin = flags.asadmin
	}
	if changed("asadmin-args") {
		cfg.Defaults.AsadminArgs = flags.asadminArgs
	}
	cfg.Settings.DryRun = cfg.Settings.DryRun || flags.dryRun
	cfg.Settings.Verbose = cfg.Settings.Verbose || flags.verbose
}
