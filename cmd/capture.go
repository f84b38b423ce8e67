package cmd

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/macpilot/internal/capture"
	"github.com/mj1618/macpilot/internal/platform"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture the main screen",
	Long: `Capture the main screen, scale it and write it as png or jpg. Without
--output the image is written to stdout as base64.

Examples:
  macpilot capture --output screen.png
  macpilot capture --format jpg --scale 0.25 --mark-cursor`,
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)
	captureCmd.Flags().String("output", "", "Output file path (default: stdout as base64)")
	captureCmd.Flags().String("format", "", "Image format: png, jpg (default from config)")
	captureCmd.Flags().Int("quality", capture.DefaultQuality, "JPEG quality 1-100")
	captureCmd.Flags().Float64("scale", 0, "Scale factor 0.1-1.0 (default from config)")
	captureCmd.Flags().Bool("mark-cursor", false, "Draw the cursor position on the image")
}

func runCapture(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("output")
	opts := capture.Options{
		Scale:  cfg.Capture.Scale,
		Format: cfg.Capture.Format,
	}
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		opts.Format = f
	}
	if s, _ := cmd.Flags().GetFloat64("scale"); s != 0 {
		opts.Scale = s
	}
	opts.Quality, _ = cmd.Flags().GetInt("quality")

	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	if err := requireBackend(provider.Screen != nil, "screen capture"); err != nil {
		return err
	}
	data, err := provider.Screen.Capture()
	if err != nil {
		return err
	}
	if mark, _ := cmd.Flags().GetBool("mark-cursor"); mark && provider.Inputter != nil {
		pos, err := provider.Inputter.CursorPosition()
		if err != nil {
			return fmt.Errorf("cursor position: %w", err)
		}
		opts.Cursor = &capture.Point{X: pos.X, Y: pos.Y}
		if screen, err := provider.Screen.MainScreen(); err == nil {
			opts.ScreenWidth = screen.Width
		}
	}

	img, err := capture.Process(data, opts)
	if err != nil {
		return err
	}
	logger.Debug("captured", "width", img.Width, "height", img.Height, "mime", img.MIMEType)

	if out != "" {
		return os.WriteFile(out, img.Data, 0644)
	}

	// Default: write to stdout as base64 for easy agent consumption
	w := cmd.OutOrStdout()
	encoder := base64.NewEncoder(base64.StdEncoding, w)
	if _, err := encoder.Write(img.Data); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}
