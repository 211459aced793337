package peimage

import (
	"unsafe"

	"github.com/pkg/errors"
)

type ImageDebugDirectory struct {
	Characteristics  uint32
	TimeDateStamp    uint32
	MajorVersion     uint16
	MinorVersion     uint16
	Type             uint32
	SizeOfData       uint32
	AddressOfRawData uint32
	PointerToRawData uint32
}

// DebugTable holds the raw debug descriptor records, excluding the all-zero
// terminator. Interpreting record payloads (CodeView data, symbol paths) is
// the consumer's concern.
type DebugTable struct {
	Descriptors []ImageDebugDirectory
}

// DebugTable locates the debug descriptor array of the image. It fails with
// ErrMissingDebugTable when the directory entry is absent or zero-sized.
func (h *Headers) DebugTable() (*DebugTable, error) {
	dir, ok := h.dataDirectory(ImageDirectoryEntryDebug)
	if !ok || dir.VirtualAddress == 0 || dir.Size == 0 {
		return nil, ErrMissingDebugTable
	}

	descriptorSize := uint32(unsafe.Sizeof(ImageDebugDirectory{}))
	count := dir.Size / descriptorSize
	if count == 0 {
		return nil, errors.Wrapf(ErrDamagedDebugTable,
			"directory size %d is smaller than one descriptor", dir.Size)
	}

	descriptors, err := viewSlice[ImageDebugDirectory](h.region,
		h.region.base+uintptr(dir.VirtualAddress), count-1)
	if err != nil {
		return nil, err
	}
	return &DebugTable{Descriptors: descriptors}, nil
}
