package peimage

import (
	"unsafe"

	"github.com/pkg/errors"
)

type ImageImportDirectory struct {
	OriginalFirstThunk uint32
	TimeDateStamp      uint32
	ForwarderChain     uint32
	Name               uint32
	FirstThunk         uint32
}

// ImportTable holds the raw import descriptor records, excluding the all-zero
// terminator. Resolving DLL names or thunk targets against other modules is
// the consumer's concern.
type ImportTable struct {
	Descriptors []ImageImportDirectory
}

// ImportTable locates the import descriptor array of the image. It fails with
// ErrMissingImportTable when the directory entry is absent or zero-sized.
func (h *Headers) ImportTable() (*ImportTable, error) {
	dir, ok := h.dataDirectory(ImageDirectoryEntryImport)
	if !ok || dir.VirtualAddress == 0 || dir.Size == 0 {
		return nil, ErrMissingImportTable
	}

	descriptorSize := uint32(unsafe.Sizeof(ImageImportDirectory{}))
	count := dir.Size / descriptorSize
	if count == 0 {
		return nil, errors.Wrapf(ErrDamagedImportTable,
			"directory size %d is smaller than one descriptor", dir.Size)
	}

	descriptors, err := viewSlice[ImageImportDirectory](h.region,
		h.region.base+uintptr(dir.VirtualAddress), count-1)
	if err != nil {
		return nil, err
	}
	return &ImportTable{Descriptors: descriptors}, nil
}
