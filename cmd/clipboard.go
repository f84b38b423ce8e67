package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/macpilot/internal/platform"
)

// clipboardResult is the output of the clipboard subcommands.
type clipboardResult struct {
	Action string `yaml:"action"         json:"action"`
	Text   string `yaml:"text,omitempty" json:"text,omitempty"`
}

var clipboardCmd = &cobra.Command{
	Use:   "clipboard",
	Short: "Read, write, or clear the system clipboard",
}

var clipboardReadCmd = &cobra.Command{
	Use:   "read",
	Short: "Read the current clipboard text",
	RunE:  runClipboardRead,
}

var clipboardWriteCmd = &cobra.Command{
	Use:   "write [text]",
	Short: "Write text to the clipboard",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClipboardWrite,
}

var clipboardClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the clipboard",
	RunE:  runClipboardClear,
}

func init() {
	rootCmd.AddCommand(clipboardCmd)
	clipboardCmd.AddCommand(clipboardReadCmd)
	clipboardCmd.AddCommand(clipboardWriteCmd)
	clipboardCmd.AddCommand(clipboardClearCmd)

	clipboardWriteCmd.Flags().String("text", "", "Text to write to the clipboard")
}

func clipboardBackend() (platform.Clipboard, error) {
	provider, err := platform.NewProvider()
	if err != nil {
		return nil, err
	}
	if err := requireBackend(provider.Clipboard != nil, "clipboard"); err != nil {
		return nil, err
	}
	return provider.Clipboard, nil
}

func runClipboardRead(cmd *cobra.Command, args []string) error {
	cb, err := clipboardBackend()
	if err != nil {
		return err
	}
	text, err := cb.GetText()
	if err != nil {
		return fmt.Errorf("read clipboard: %w", err)
	}
	return printer.Print(clipboardResult{Action: "read", Text: text})
}

func runClipboardWrite(cmd *cobra.Command, args []string) error {
	text, _ := cmd.Flags().GetString("text")
	if len(args) == 1 {
		text = args[0]
	}
	if len(args) == 0 && !cmd.Flags().Changed("text") {
		return fmt.Errorf("specify text as an argument or with --text")
	}
	cb, err := clipboardBackend()
	if err != nil {
		return err
	}
	if err := cb.SetText(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return printer.Print(clipboardResult{Action: "write"})
}

func runClipboardClear(cmd *cobra.Command, args []string) error {
	cb, err := clipboardBackend()
	if err != nil {
		return err
	}
	if err := cb.SetText(""); err != nil {
		return fmt.Errorf("clear clipboard: %w", err)
	}
	return printer.Print(clipboardResult{Action: "clear"})
}
