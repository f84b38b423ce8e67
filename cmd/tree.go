package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/macpilot/internal/axtree"
	"github.com/mj1618/macpilot/internal/logging"
	"github.com/mj1618/macpilot/internal/platform"
	"github.com/mj1618/macpilot/internal/query"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the accessibility tree of a window",
	Long: `Print the full accessibility tree of the focused window, or of the first
window of --pid. Every attribute the element reports is included; element
references are summarized by role and arrays of elements by count.

Examples:
  macpilot tree
  macpilot tree --pid 412 --format json
  macpilot tree --query '.children | length'`,
	RunE: runTree,
}

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List on-screen windows of user applications",
	Long:  "List on-screen windows as reported by the window server, keeping owners with a pid of at least 1500.",
	RunE:  runWindows,
}

var focusedCmd = &cobra.Command{
	Use:   "focused",
	Short: "Show the pid, app name and window id of the focused window",
	RunE:  runFocused,
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().Int("pid", 0, "Read the first window of this process instead of the focused window")
	treeCmd.Flags().Int("window-number", 0, "Window number (accepted for compatibility, the first window is used)")
	treeCmd.Flags().String("query", "", "jq expression applied to the tree")

	rootCmd.AddCommand(windowsCmd)
	windowsCmd.Flags().String("query", "", "jq expression applied to the window list")

	rootCmd.AddCommand(focusedCmd)
	focusedCmd.Flags().Bool("pretty", false, "Pretty-print output (no-op for YAML)")
}

// accessibilityService builds a tree service over the platform provider,
// reporting walker diagnostics through the command logger.
func accessibilityService() (*axtree.Service, error) {
	provider, err := platform.NewProvider()
	if err != nil {
		return nil, err
	}
	if err := requireBackend(provider.Accessibility != nil, "accessibility"); err != nil {
		return nil, err
	}
	return axtree.NewService(provider.Accessibility,
		axtree.WithObserver(logging.NewObserver(logger)),
		axtree.WithCycleGuard(cfg.Walker.CycleGuard),
	), nil
}

func runTree(cmd *cobra.Command, args []string) error {
	pid, _ := cmd.Flags().GetInt("pid")
	windowNumber, _ := cmd.Flags().GetInt("window-number")
	expr, _ := cmd.Flags().GetString("query")

	svc, err := accessibilityService()
	if err != nil {
		return err
	}

	var doc string
	if pid != 0 {
		doc, err = svc.WindowDocument(pid, windowNumber)
	} else {
		doc, err = svc.FocusedWindowDocument()
	}
	if err != nil {
		return err
	}
	return printDocument(cmd, doc, expr)
}

func runWindows(cmd *cobra.Command, args []string) error {
	expr, _ := cmd.Flags().GetString("query")
	svc, err := accessibilityService()
	if err != nil {
		return err
	}
	doc, err := svc.WindowListDocument()
	if err != nil {
		return err
	}
	return printDocument(cmd, doc, expr)
}

func runFocused(cmd *cobra.Command, args []string) error {
	svc, err := accessibilityService()
	if err != nil {
		return err
	}
	return printer.Print(svc.Resolver().FocusedWindowInfo())
}

func printDocument(cmd *cobra.Command, doc, expr string) error {
	out, err := query.Apply(cmd.Context(), expr, doc)
	if err != nil {
		return err
	}
	return printer.PrintDocument(out)
}
