package peimage

import (
	"unsafe"

	"github.com/pkg/errors"
)

// region is the mapped extent every view is checked against before it is
// handed out. The base address is borrowed from the caller; the memory must
// stay valid and unmodified for as long as any derived view is in use.
type region struct {
	base  uintptr
	limit uintptr
}

func newRegion(base, size uintptr) region {
	return region{base: base, limit: base + size}
}

func (r region) checkRange(addr, length uintptr) error {
	if addr < r.base || addr+length < addr || addr+length > r.limit {
		return errors.Wrapf(ErrOutsideBoundary,
			"0x%x+0x%x not within [0x%x, 0x%x)", addr, length, r.base, r.limit)
	}
	return nil
}

// viewStruct reinterprets the memory at addr as a *T without copying.
func viewStruct[T any](r region, addr uintptr) (*T, error) {
	if err := r.checkRange(addr, unsafe.Sizeof(*(*T)(nil))); err != nil {
		return nil, err
	}
	return (*T)(unsafe.Pointer(addr)), nil
}

// viewSlice reinterprets count consecutive records of T starting at addr as
// a []T without copying.
func viewSlice[T any](r region, addr uintptr, count uint32) ([]T, error) {
	size := unsafe.Sizeof(*(*T)(nil))
	if uintptr(count) > (r.limit-r.base)/size {
		return nil, errors.Wrapf(ErrOutsideBoundary,
			"%d records of %d bytes exceed the mapped region", count, size)
	}
	if err := r.checkRange(addr, size*uintptr(count)); err != nil {
		return nil, err
	}
	return unsafe.Slice((*T)(unsafe.Pointer(addr)), count), nil
}
