package cmd

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mj1618/macpilot/internal/platform"
)

var cursorCmd = &cobra.Command{
	Use:   "cursor",
	Short: "Print the cursor position and main screen size",
	RunE:  runCursor,
}

var moveCmd = &cobra.Command{
	Use:   "move <x,y>",
	Short: "Move the mouse cursor",
	Long: `Move the mouse cursor to screen coordinates in points.

Examples:
  macpilot move 400,300
  macpilot move --x 400 --y 300`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMove,
}

var pasteCmd = &cobra.Command{
	Use:   "paste <text>",
	Short: "Paste text through the clipboard",
	Long:  "Put text on the clipboard and press cmd+v in the frontmost application. Multiple arguments are joined with spaces.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPaste,
}

func init() {
	rootCmd.AddCommand(cursorCmd)
	cursorCmd.Flags().Bool("pretty", false, "Pretty-print output (no-op for YAML)")

	rootCmd.AddCommand(moveCmd)
	moveCmd.Flags().Float64("x", 0, "X coordinate")
	moveCmd.Flags().Float64("y", 0, "Y coordinate")

	rootCmd.AddCommand(pasteCmd)
}

func runCursor(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	if err := requireBackend(provider.Inputter != nil && provider.Screen != nil, "input"); err != nil {
		return err
	}
	pos, err := provider.Inputter.CursorPosition()
	if err != nil {
		return err
	}
	screen, err := provider.Screen.MainScreen()
	if err != nil {
		return err
	}
	return printer.Print(platform.CursorInfo{X: pos.X, Y: pos.Y, Screen: screen})
}

func movePoint(cmd *cobra.Command, args []string) (platform.Point, error) {
	if len(args) == 1 {
		return platform.ParsePoint(args[0])
	}
	if !cmd.Flags().Changed("x") || !cmd.Flags().Changed("y") {
		return platform.Point{}, fmt.Errorf("specify x,y or --x and --y")
	}
	x, _ := cmd.Flags().GetFloat64("x")
	y, _ := cmd.Flags().GetFloat64("y")
	return platform.Point{X: x, Y: y}, nil
}

func runMove(cmd *cobra.Command, args []string) error {
	p, err := movePoint(cmd, args)
	if err != nil {
		return err
	}
	inputter, err := inputBackend()
	if err != nil {
		return err
	}
	return inputter.MoveMouse(int(math.Round(p.X)), int(math.Round(p.Y)))
}

func runPaste(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	if err := requireBackend(provider.Clipboard != nil && provider.Inputter != nil, "clipboard"); err != nil {
		return err
	}
	if err := provider.Clipboard.SetText(strings.Join(args, " ")); err != nil {
		return err
	}
	return provider.Inputter.KeyCombo([]string{"cmd", "v"})
}
