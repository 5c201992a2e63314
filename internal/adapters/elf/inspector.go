// Package elf implements a minimal image-size inspector for the
// reference objcopy target. Full ELF section parsing is explicitly out
// of scope for this engine; this adapter only reports the size of the
// raw binary objcopy produced.
package elf

import (
	"os"

	"go.trai.ch/zerr"

	"github.com/kilnbuild/kiln/internal/core/domain"
)

// Inspector implements ports.ELFInspector using os.Stat.
type Inspector struct{}

// New creates a new Inspector.
func New() *Inspector { return &Inspector{} }

// Size returns the size in bytes of the file at path.
func (i *Inspector) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", path)
	}
	return info.Size(), nil
}
