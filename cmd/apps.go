package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/macpilot/internal/apps"
)

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List installed applications",
	Long:  "List application bundles found in the configured search paths, sorted by name.",
	RunE:  runApps,
}

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Launch an application",
	Long: `Launch an application by bundle identifier, or by name as listed by
"macpilot apps" (matched ignoring case). --bundle-id wins when both are given.

Examples:
  macpilot launch --bundle-id com.apple.TextEdit
  macpilot launch --name safari`,
	RunE: runLaunch,
}

func init() {
	rootCmd.AddCommand(appsCmd)
	appsCmd.Flags().Bool("paths", false, "Include bundle paths")
	appsCmd.Flags().Bool("pretty", false, "Pretty-print output (no-op for YAML)")

	rootCmd.AddCommand(launchCmd)
	launchCmd.Flags().String("bundle-id", "", "Bundle identifier")
	launchCmd.Flags().String("name", "", "Application name")
}

// appEntry is the output row with --paths.
type appEntry struct {
	Name     string `yaml:"appName"  json:"appName"`
	BundleID string `yaml:"bundleId" json:"bundleId"`
	Path     string `yaml:"path"     json:"path"`
}

func runApps(cmd *cobra.Command, args []string) error {
	list := apps.NewCatalog(cfg.AppSearchPaths()).List()
	if withPaths, _ := cmd.Flags().GetBool("paths"); withPaths {
		entries := make([]appEntry, 0, len(list))
		for _, a := range list {
			entries = append(entries, appEntry{Name: a.Name, BundleID: a.BundleID, Path: a.Path})
		}
		return printer.Print(entries)
	}
	return printer.Print(list)
}

func runLaunch(cmd *cobra.Command, args []string) error {
	bundleID, _ := cmd.Flags().GetString("bundle-id")
	name, _ := cmd.Flags().GetString("name")

	if bundleID == "" {
		if name == "" {
			return fmt.Errorf("specify --bundle-id or --name")
		}
		app, err := apps.NewCatalog(cfg.AppSearchPaths()).Find(name)
		if err != nil {
			return err
		}
		bundleID = app.BundleID
	}

	if err := apps.NewOpener(nil).Launch(cmd.Context(), bundleID); err != nil {
		return err
	}
	logger.Info("launched", "bundle_id", bundleID)
	return nil
}
