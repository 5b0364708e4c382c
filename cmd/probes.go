package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"labdoctor/internal/collector"
	"labdoctor/internal/output"
	"labdoctor/pkg/logging"
	"labdoctor/ui/console"
)

func newProbesCmd() *cobra.Command {
	var noColor bool
	c := &cobra.Command{
		Use:   "probes",
		Short: "List the checks the dashboard runs and the fix offered for each",
		Long: `Lists every row the dashboard shows, grouped by section, with the
remediation bound to its label. Nothing is executed, so the listing is a
quick way to review config overrides before opening the dashboard.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.InitForCLI(logging.LevelWarn, cmd.ErrOrStderr())

			cc, rems, err := loadSettings(opts)
			if err != nil {
				return err
			}
			reg, err := collector.NewDefault(cc).Registry()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			color := !noColor
			if f, ok := out.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
				color = false
			}
			console.Print(out, output.BuildRegistryView(reg, rems), color)
			return nil
		},
	}
	c.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return c
}
