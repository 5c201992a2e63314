package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kilnbuild/kiln/internal/adapters/discovery"
	"github.com/kilnbuild/kiln/internal/adapters/telemetry/noop"
	"github.com/kilnbuild/kiln/internal/app"
	"github.com/kilnbuild/kiln/internal/core/ports"
	"github.com/kilnbuild/kiln/internal/engine"
)

type fakeLoader struct{}

func (fakeLoader) Load(string) (ports.EngineConfig, error) {
	return ports.EngineConfig{MaxThreads: 1}, nil
}

type fakeLogger struct{ errs []error }

func (*fakeLogger) Info(string, ...any) {}
func (*fakeLogger) Warn(string, ...any) {}
func (l *fakeLogger) Error(err error)   { l.errs = append(l.errs, err) }

func TestRun_Success(t *testing.T) {
	application := app.New(fakeLoader{}, engine.New(1), noop.New())
	logger := &fakeLogger{}

	provider := func(context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: logger}, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
}

func TestRun_InitializationError(t *testing.T) {
	provider := func(context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "init failed")
}

func TestRun_DiscoveryFailureIsLogged(t *testing.T) {
	application := app.New(fakeLoader{}, engine.New(1), noop.New())
	logger := &fakeLogger{}

	provider := func(context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: logger, Discoverer: discovery.New()}, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	// No src/ directory exists in the test's working directory, so the
	// build command's source discovery fails before any target runs;
	// that is a configuration error, not domain.ErrBuildExecutionFailed,
	// so it must still be logged.
	exitCode := run(context.Background(), []string{"build"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Len(t, logger.errs, 1)
}
