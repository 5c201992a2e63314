package targets

import (
	"fmt"
	"os"
	"time"

	"github.com/kilnbuild/kiln/internal/core/domain"
	"github.com/kilnbuild/kiln/internal/core/ports"
)

// VersionTouchTarget has no predecessors of its own; it generates a
// small C source stamping a build identifier so the link step always
// has a fresh translation unit to embed it from.
type VersionTouchTarget struct {
	domain.BaseTarget

	OutPath string
	BuildID string

	logger ports.Logger
}

// NewVersionTouchTarget constructs a VersionTouchTarget.
func NewVersionTouchTarget(name, outPath, buildID string, logger ports.Logger) *VersionTouchTarget {
	t := &VersionTouchTarget{OutPath: outPath, BuildID: buildID, logger: logger}
	t.BaseTarget = domain.NewBaseTarget(name)
	return t
}

// Prepare is stale whenever the generated file is missing.
func (t *VersionTouchTarget) Prepare() bool {
	_, err := os.Stat(t.OutPath)
	return err != nil
}

// Execute writes the version stamp.
func (t *VersionTouchTarget) Execute() bool {
	contents := fmt.Sprintf(
		"// generated by kiln at %s\nconst char *kiln_build_id = \"%s\";\n",
		time.Now().UTC().Format(time.RFC3339),
		t.BuildID,
	)
	if err := os.WriteFile(t.OutPath, []byte(contents), 0o644); err != nil {
		t.logger.Error(fmt.Errorf("writing version stamp %s: %w", t.OutPath, err))
		return false
	}
	return true
}

// Executed reports the outcome.
func (t *VersionTouchTarget) Executed() {
	if t.Outdated() {
		t.logger.Error(fmt.Errorf("version stamp failed: %s", t.Name()))
		return
	}
	t.logger.Info("stamped version", "target", t.Name(), "path", t.OutPath)
}
