package commands_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kilnbuild/kiln/cmd/kiln/commands"
	"github.com/kilnbuild/kiln/internal/adapters/telemetry/noop"
	"github.com/kilnbuild/kiln/internal/app"
	"github.com/kilnbuild/kiln/internal/core/domain"
	"github.com/kilnbuild/kiln/internal/core/ports"
	"github.com/kilnbuild/kiln/internal/depdb"
	"github.com/kilnbuild/kiln/internal/engine"
)

type fakeConfigLoader struct{}

func (fakeConfigLoader) Load(string) (ports.EngineConfig, error) {
	return ports.EngineConfig{MaxThreads: 1, HeaderExtensions: []string{".h"}, DepDBPath: "depdb.json"}, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any) {}
func (noopLogger) Warn(string, ...any) {}
func (noopLogger) Error(error)         {}

type fakeRunner struct{ calls int }

func (r *fakeRunner) Run(_ context.Context, _ string, _ []string, _, _ io.Writer, _ string, args ...string) error {
	r.calls++
	// The compile stage passes -o <obj>; create it so Prepare sees a
	// fresh object next time around. The link/objcopy stages pass their
	// output path last.
	for i, a := range args {
		if a == "-o" && i+1 < len(args) {
			_ = os.WriteFile(args[i+1], []byte("x"), 0o644)
		}
	}
	if len(args) > 0 {
		_ = os.WriteFile(args[len(args)-1], []byte("x"), 0o644)
	}
	return nil
}

type fakeDiscoverer struct{ sources []string }

func (d *fakeDiscoverer) Discover(_ string, patterns []string) ([]string, error) {
	var out []string
	for _, s := range d.sources {
		for _, p := range patterns {
			if filepath.Ext(s) == filepath.Ext(filepath.Join("x", p)) {
				out = append(out, s)
			}
		}
	}
	if len(out) == 0 {
		return nil, domain.ErrSourceNotFound
	}
	return out, nil
}

type fakeInspector struct{}

func (fakeInspector) Size(string) (int64, error) { return 0, nil }

func newComponents(t *testing.T, dir string) *app.Components {
	t.Helper()

	src := filepath.Join(dir, "s.c")
	require.NoError(t, os.WriteFile(src, []byte("int main(){return 0;}"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "build"), 0o750))

	db, err := depdb.New(filepath.Join(dir, "depdb.json"))
	require.NoError(t, err)

	a := app.New(fakeConfigLoader{}, engine.New(1), noop.New())

	return &app.Components{
		App:        a,
		Logger:     noopLogger{},
		DB:         db,
		Discoverer: &fakeDiscoverer{sources: []string{src}},
		Runner:     &fakeRunner{},
		Inspector:  fakeInspector{},
	}
}

func TestVersionCommand(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(cwd) }()

	c := commands.New(newComponents(t, dir))
	buf := new(bytes.Buffer)
	c.SetOutput(buf, buf)
	c.SetArgs([]string{"version"})
	require.NoError(t, c.Execute(context.Background()))
	require.Contains(t, buf.String(), "kiln version")
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(cwd) }()

	c := commands.New(newComponents(t, dir))
	buf := new(bytes.Buffer)
	c.SetOutput(buf, buf)
	c.SetArgs([]string{"build"})
	require.NoError(t, c.Execute(context.Background()))
	require.FileExists(t, filepath.Join(dir, "build", "firmware.bin"))
}

func TestRootHelp(t *testing.T) {
	dir := t.TempDir()
	c := commands.New(newComponents(t, dir))
	buf := new(bytes.Buffer)
	c.SetOutput(buf, buf)
	c.SetArgs([]string{"--help"})
	require.NoError(t, c.Execute(context.Background()))
}
