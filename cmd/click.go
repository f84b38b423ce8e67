package cmd

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/mj1618/macpilot/internal/platform"
)

var clickCmd = &cobra.Command{
	Use:   "click",
	Short: "Click at the cursor or at coordinates",
	Long:  "Click at the current cursor position, or at absolute screen coordinates given with --x and --y.",
	RunE:  runClick,
}

func init() {
	rootCmd.AddCommand(clickCmd)
	clickCmd.Flags().Int("x", 0, "Click at absolute X screen coordinate")
	clickCmd.Flags().Int("y", 0, "Click at absolute Y screen coordinate")
	clickCmd.Flags().String("button", "left", "Mouse button: left, right, middle")
	clickCmd.Flags().Bool("double", false, "Double-click")
}

func runClick(cmd *cobra.Command, args []string) error {
	buttonName, _ := cmd.Flags().GetString("button")
	button, err := platform.ParseMouseButton(buttonName)
	if err != nil {
		return err
	}
	count := 1
	if double, _ := cmd.Flags().GetBool("double"); double {
		count = 2
	}

	inputter, err := inputBackend()
	if err != nil {
		return err
	}

	x, _ := cmd.Flags().GetInt("x")
	y, _ := cmd.Flags().GetInt("y")
	if !cmd.Flags().Changed("x") && !cmd.Flags().Changed("y") {
		pos, err := inputter.CursorPosition()
		if err != nil {
			return err
		}
		x, y = int(math.Round(pos.X)), int(math.Round(pos.Y))
	} else if cmd.Flags().Changed("x") != cmd.Flags().Changed("y") {
		return fmt.Errorf("--x and --y must be given together")
	}

	if err := inputter.Click(x, y, button, count); err != nil {
		return err
	}
	logger.Debug("clicked", "x", x, "y", y, "button", button, "count", count)
	return nil
}

func inputBackend() (platform.Inputter, error) {
	provider, err := platform.NewProvider()
	if err != nil {
		return nil, err
	}
	if err := requireBackend(provider.Inputter != nil, "input"); err != nil {
		return nil, err
	}
	return provider.Inputter, nil
}
