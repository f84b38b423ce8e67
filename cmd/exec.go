package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/macpilot/internal/shell"
)

var execCmd = &cobra.Command{
	Use:   "exec <command> [args...]",
	Short: "Run a command through /usr/bin/env",
	Long: `Run a command through /usr/bin/env and print its exit status, stdout and
stderr. A non-zero exit status is reported, not treated as a failure.

Examples:
  macpilot exec -- ls -la /Applications
  macpilot exec --format json uname -a`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

func init() {
	rootCmd.AddCommand(execCmd)
	execCmd.Flags().SetInterspersed(false)
	execCmd.Flags().Bool("pretty", false, "Pretty-print output (no-op for YAML)")
}

func runExec(cmd *cobra.Command, args []string) error {
	res, err := shell.NewRunner(cfg.Shell.Enabled).Run(cmd.Context(), args[0], args[1:]...)
	if err != nil {
		return err
	}
	return printer.Print(res)
}
