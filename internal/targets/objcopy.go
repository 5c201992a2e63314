package targets

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kilnbuild/kiln/internal/core/domain"
	"github.com/kilnbuild/kiln/internal/core/ports"
)

// ObjCopyTarget converts the linked ELF image into a raw binary,
// mirroring the `objcopy -O binary` step of a typical embedded build.
type ObjCopyTarget struct {
	domain.BaseTarget

	ELFPath string
	BinPath string
	Tool    string
	Flags   []string

	runner  ports.ProcessRunner
	inspect ports.ELFInspector
	logger  ports.Logger

	stdout, stderr io.Writer
}

// NewObjCopyTarget constructs an ObjCopyTarget depending on the target
// that produces elfPath.
func NewObjCopyTarget(name string, link domain.Target, elfPath, binPath, tool string, flags []string, runner ports.ProcessRunner, inspect ports.ELFInspector, logger ports.Logger) *ObjCopyTarget {
	t := &ObjCopyTarget{
		ELFPath: elfPath,
		BinPath: binPath,
		Tool:    tool,
		Flags:   flags,
		runner:  runner,
		inspect: inspect,
		logger:  logger,
	}
	t.BaseTarget = domain.NewBaseTarget(name, link)
	return t
}

// Prepare is stale when the binary is missing or older than the ELF
// image it is derived from.
func (t *ObjCopyTarget) Prepare() bool {
	binInfo, err := os.Stat(t.BinPath)
	if err != nil {
		return true
	}
	elfInfo, err := os.Stat(t.ELFPath)
	if err != nil {
		return true
	}
	return elfInfo.ModTime().After(binInfo.ModTime())
}

// SetOutput implements ports.Vertexed, routing the objcopy tool's output
// into a telemetry vertex instead of the process's own stdout/stderr.
func (t *ObjCopyTarget) SetOutput(stdout, stderr io.Writer) {
	t.stdout, t.stderr = stdout, stderr
}

// Execute invokes the configured objcopy-equivalent tool.
func (t *ObjCopyTarget) Execute() bool {
	args := append([]string{}, t.Flags...)
	args = append(args, t.ELFPath, t.BinPath)

	stdout, stderr := outputOrDefault(t.stdout, t.stderr)
	if err := t.runner.Run(context.Background(), "", nil, stdout, stderr, t.Tool, args...); err != nil {
		t.logger.Error(fmt.Errorf("converting %s: %w", t.ELFPath, err))
		return false
	}
	return true
}

// Executed logs the final image size once the binary exists.
func (t *ObjCopyTarget) Executed() {
	if t.Outdated() {
		t.logger.Error(fmt.Errorf("objcopy failed: %s", t.Name()))
		return
	}

	size, err := t.inspect.Size(t.BinPath)
	if err != nil {
		t.logger.Warn("failed to inspect image size", "path", t.BinPath, "error", err)
		return
	}
	t.logger.Info("image ready", "target", t.Name(), "bytes", size)
}
