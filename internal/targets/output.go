package targets

import (
	"io"
	"os"
)

// outputOrDefault falls back to the process's own stdout/stderr when no
// telemetry vertex has wired output in through SetOutput.
func outputOrDefault(stdout, stderr io.Writer) (io.Writer, io.Writer) {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return stdout, stderr
}
