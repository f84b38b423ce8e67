//go:build darwin

package darwin

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// pbTimeout bounds a pbcopy/pbpaste run; both hang when the pasteboard
// server is wedged.
const pbTimeout = 5 * time.Second

// Pasteboard implements platform.Clipboard with pbcopy and pbpaste. Both run
// under a UTF-8 locale: without one, non-ASCII text is transcoded lossily.
type Pasteboard struct {
	env []string
}

// NewPasteboard returns a Pasteboard for the general pasteboard.
func NewPasteboard() *Pasteboard {
	return &Pasteboard{env: append(os.Environ(), "LANG=en_US.UTF-8", "LC_CTYPE=UTF-8")}
}

func (p *Pasteboard) run(name string, stdin []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), pbTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name)
	cmd.Env = p.env
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return out, nil
}

func (p *Pasteboard) GetText() (string, error) {
	out, err := p.run("pbpaste", nil)
	return string(out), err
}

func (p *Pasteboard) SetText(text string) error {
	_, err := p.run("pbcopy", []byte(text))
	return err
}
