// Package apps discovers installed application bundles and launches them.
package apps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"howett.net/plist"
)

// ErrNotFound is returned when no application matches.
var ErrNotFound = errors.New("application not found")

// App is one installed application bundle.
type App struct {
	Name     string `json:"appName"  yaml:"appName"`
	BundleID string `json:"bundleId" yaml:"bundleId"`
	Path     string `json:"-"        yaml:"path"`
}

// Catalog scans a fixed list of directories for *.app bundles. It keeps no
// state between calls: every List rescans.
type Catalog struct {
	paths []string
}

// NewCatalog returns a Catalog over the given search paths.
func NewCatalog(paths []string) *Catalog {
	return &Catalog{paths: paths}
}

// List returns every readable bundle in the search paths, sorted by name.
// Unreadable directories and bundles without an identifier are skipped.
func (c *Catalog) List() []App {
	apps := []App{}
	for _, dir := range c.paths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !strings.HasSuffix(entry.Name(), ".app") {
				continue
			}
			app, err := ReadBundle(filepath.Join(dir, entry.Name()))
			if err != nil {
				continue
			}
			apps = append(apps, app)
		}
	}
	sort.SliceStable(apps, func(i, j int) bool { return apps[i].Name < apps[j].Name })
	return apps
}

// Find returns the first listed app whose name matches, ignoring case.
func (c *Catalog) Find(name string) (App, error) {
	for _, app := range c.List() {
		if strings.EqualFold(app.Name, name) {
			return app, nil
		}
	}
	return App{}, fmt.Errorf("%q: %w", name, ErrNotFound)
}

// ReadBundle reads Contents/Info.plist of the bundle at path. The name is
// CFBundleName, falling back to CFBundleExecutable.
func ReadBundle(path string) (App, error) {
	data, err := os.ReadFile(filepath.Join(path, "Contents", "Info.plist"))
	if err != nil {
		return App{}, err
	}
	var info map[string]any
	if _, err := plist.Unmarshal(data, &info); err != nil {
		return App{}, fmt.Errorf("parse Info.plist of %s: %w", path, err)
	}
	id, _ := info["CFBundleIdentifier"].(string)
	if id == "" {
		return App{}, fmt.Errorf("%s: no CFBundleIdentifier", path)
	}
	name, ok := info["CFBundleName"].(string)
	if !ok {
		name, ok = info["CFBundleExecutable"].(string)
	}
	if !ok {
		return App{}, fmt.Errorf("%s: no CFBundleName or CFBundleExecutable", path)
	}
	return App{Name: name, BundleID: id, Path: path}, nil
}

// Launcher starts applications by bundle identifier.
type Launcher interface {
	Launch(ctx context.Context, bundleID string) error
}

// RunFunc runs a command and returns its combined output.
type RunFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Opener launches applications with open(1), which resolves the bundle
// identifier through Launch Services.
type Opener struct {
	run RunFunc
}

// NewOpener returns an Opener. A nil run uses os/exec.
func NewOpener(run RunFunc) *Opener {
	if run == nil {
		run = runCommand
	}
	return &Opener{run: run}
}

func (o *Opener) Launch(ctx context.Context, bundleID string) error {
	out, err := o.run(ctx, "open", "-b", bundleID)
	if err == nil {
		return nil
	}
	if bytes.Contains(out, []byte("Unable to find application")) {
		return fmt.Errorf("bundle %q: %w", bundleID, ErrNotFound)
	}
	return fmt.Errorf("open -b %s: %w: %s", bundleID, err, bytes.TrimSpace(out))
}
