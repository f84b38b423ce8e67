package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/macpilot/internal/config"
	"github.com/mj1618/macpilot/internal/logging"
	"github.com/mj1618/macpilot/internal/output"
	"github.com/mj1618/macpilot/internal/platform"
	"github.com/mj1618/macpilot/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "macpilot",
	Short: "Read macOS accessibility trees and drive mouse, keyboard and apps",
	Long: `macpilot serializes the accessibility tree of macOS windows to JSON and
exposes it, together with input control, app launching and screen capture,
as MCP tools or as one-shot commands.`,
	SilenceUsage: true,
}

// Set up by the root command before any subcommand runs.
var (
	cfg     config.Config
	logger  = logging.Discard()
	printer *output.Printer
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version.String()
	rootCmd.PersistentFlags().String("format", "", "Output format: yaml, json (default yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/macpilot/config.toml)")
	rootCmd.PersistentPreRunE = setup
}

func setup(cmd *cobra.Command, args []string) error {
	path, _ := rootCmd.PersistentFlags().GetString("config")
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	if lvl, _ := rootCmd.PersistentFlags().GetString("log-level"); lvl != "" {
		loaded.Log.Level = lvl
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	l, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level)
	if err != nil {
		return err
	}
	logger = l

	// Use the root persistent flag directly to avoid conflicts with
	// subcommand local flags (capture --format png/jpg).
	f, _ := rootCmd.PersistentFlags().GetString("format")
	format, err := output.ParseFormat(f)
	if err != nil {
		return err
	}
	printer = output.NewPrinter(cmd.OutOrStdout(), format)
	if prettyFlag := cmd.Flags().Lookup("pretty"); prettyFlag != nil {
		if pretty, err := cmd.Flags().GetBool("pretty"); err == nil && pretty {
			printer.Pretty(true)
		}
	}

	platform.RequestPermissions()
	logger.Debug("ready", "command", cmd.Name(), "transport", cfg.Server.Transport)
	return nil
}

// requireBackend reports a nil backend as unsupported.
func requireBackend(ok bool, what string) error {
	if !ok {
		return fmt.Errorf("%s not available on this platform", what)
	}
	return nil
}
