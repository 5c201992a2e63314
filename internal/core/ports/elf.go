package ports

//go:generate mockgen -source=elf.go -destination=../../adapters/elf/mock_elf.go -package=elf

// ELFInspector reports the size of a firmware image produced by the
// objcopy target. Full ELF section parsing is explicitly out of this
// engine's scope; this interface exists only to let the objcopy target
// log the resulting binary's size.
type ELFInspector interface {
	Size(path string) (int64, error)
}
