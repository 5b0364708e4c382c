package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"labdoctor/internal/collector"
	"labdoctor/internal/config"
	"labdoctor/internal/engine"
	"labdoctor/pkg/logging"
	"labdoctor/ui/tui"
)

type rootOptions struct {
	configPath  string
	interval    time.Duration
	timeout     time.Duration
	projectRoot string
	logFile     string
	logLevel    string
}

var opts rootOptions

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "labdoctor",
	Short: "Live health dashboard for the mobile lab toolchain",
	Long: `labdoctor checks the tools, SDKs, devices, ports and project checkouts
the lab depends on and shows them as a dashboard that refreshes every two
seconds. Rows in WARN or FAIL state offer a fix that can be started with
enter; the dashboard keeps refreshing while it runs.

Configuration is read from ~/.config/labdoctor/config.yaml and then from
.labdoctor/config.yaml in the current directory. Flags override both.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// such as a missing config file or a terminal that cannot be used.
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runDashboard,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "labdoctor version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newProbesCmd())

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: ~/.config/labdoctor/config.yaml, then .labdoctor/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.projectRoot, "project-root", "", "directory the project checks and actions run from")
	rootCmd.Flags().DurationVar(&opts.interval, "interval", 0, "time between refreshes (default 2s)")
	rootCmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "per-probe timeout (default 3s)")
	rootCmd.Flags().StringVar(&opts.logFile, "log-file", "", "append logs to this file; logs are discarded when empty. Action output is written next to it")
	rootCmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
}

// loadSettings resolves the file layers and the flags into the settings
// the collector and the action runner use.
func loadSettings(o rootOptions) (collector.CollectorConfig, engine.Remediations, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return collector.CollectorConfig{}, nil, err
	}

	cc := cfg.CollectorConfig()
	if o.interval > 0 {
		cc = cc.WithRefreshInterval(o.interval)
	}
	if o.timeout > 0 {
		cc = cc.WithProbeTimeout(o.timeout)
	}
	if o.projectRoot != "" {
		cc = cc.WithProjectRoot(o.projectRoot)
	}
	if err := cc.Validate(); err != nil {
		return collector.CollectorConfig{}, nil, err
	}

	overrides, err := cfg.RemediationOverrides()
	if err != nil {
		return collector.CollectorConfig{}, nil, err
	}
	// The registry reports CollectionError itself when this fails; fixes
	// then fall back to sdkmanager on PATH.
	androidHome, err := collector.ResolveAndroidHome(cc, collector.OSEnv())
	if err != nil {
		logging.Warn("CLI", "Android SDK location unknown: %v", err)
		androidHome = ""
	}
	return cc, engine.DefaultRemediations(cc, androidHome).Merge(overrides), nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	level, err := logging.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	closer, err := logging.InitForTUI(level, opts.logFile)
	if err != nil {
		return err
	}
	defer closer.Close()

	cc, rems, err := loadSettings(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	executor := engine.NewExecutor(cc.ProjectRoot)
	if opts.logFile != "" {
		executor.LogDir = filepath.Dir(opts.logFile)
	}

	logging.Info("CLI", "Starting dashboard (interval=%s timeout=%s root=%s)", cc.RefreshInterval, cc.ProbeTimeout, cc.ProjectRoot)
	err = tui.Start(ctx, tui.Options{
		Collector:    collector.NewDefault(cc),
		Remediations: rems,
		Launch:       tui.ExecutorLauncher(executor),
		Interval:     cc.RefreshInterval,
	})
	if err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
