package peimage

import "github.com/pkg/errors"

// ImageTLSDirectory64 mirrors IMAGE_TLS_DIRECTORY64. The address fields hold
// virtual addresses rather than RVAs; the loader relocates them together with
// the rest of the image.
type ImageTLSDirectory64 struct {
	StartAddressOfRawData uint64
	EndAddressOfRawData   uint64
	AddressOfIndex        uint64
	AddressOfCallBacks    uint64
	SizeOfZeroFill        uint32
	Characteristics       uint32
}

type ImageTLSDirectory32 struct {
	StartAddressOfRawData uint32
	EndAddressOfRawData   uint32
	AddressOfIndex        uint32
	AddressOfCallBacks    uint32
	SizeOfZeroFill        uint32
	Characteristics       uint32
}

// TLSTable is the parsed TLS directory of one architecture variant.
type TLSTable struct {
	Directory any // of type *ImageTLSDirectory32 or *ImageTLSDirectory64

	is64   bool
	region region
}

// TLSTable locates the TLS directory of the image. A nil table with a nil
// error means the image simply has no TLS directory; ErrMissingTLSTable is
// reserved for a data-directory array too short to contain the TLS entry
// at all.
func (h *Headers) TLSTable() (*TLSTable, error) {
	dir, ok := h.dataDirectory(ImageDirectoryEntryTls)
	if !ok {
		return nil, ErrMissingTLSTable
	}
	if dir.VirtualAddress == 0 {
		return nil, nil
	}

	addr := h.region.base + uintptr(dir.VirtualAddress)
	t := &TLSTable{is64: h.Is64, region: h.region}
	if h.Is64 {
		directory, err := viewStruct[ImageTLSDirectory64](h.region, addr)
		if err != nil {
			return nil, err
		}
		t.Directory = directory
	} else {
		directory, err := viewStruct[ImageTLSDirectory32](h.region, addr)
		if err != nil {
			return nil, err
		}
		t.Directory = directory
	}
	return t, nil
}

// AddressOfCallBacks returns the virtual address of the null-terminated
// callback pointer array of either variant.
func (t *TLSTable) AddressOfCallBacks() uint64 {
	if t.is64 {
		return t.Directory.(*ImageTLSDirectory64).AddressOfCallBacks
	}
	return uint64(t.Directory.(*ImageTLSDirectory32).AddressOfCallBacks)
}

// TLSCallbackIterator walks the callback array lazily, one pointer-sized slot
// at a time, until the null terminator. It is not restartable.
type TLSCallbackIterator struct {
	region region
	addr   uintptr
	is64   bool
	seen   int
	err    error
}

// Callbacks returns a lazy iterator over the initializer/terminator callback
// addresses of the image.
func (t *TLSTable) Callbacks() *TLSCallbackIterator {
	return &TLSCallbackIterator{
		region: t.region,
		addr:   uintptr(t.AddressOfCallBacks()),
		is64:   t.is64,
	}
}

// Next returns the next callback address. ok is false once the terminator is
// reached or the scan is abandoned; check Err to tell the two apart.
func (it *TLSCallbackIterator) Next() (callback uintptr, ok bool) {
	if it.err != nil || it.addr == 0 {
		return 0, false
	}
	// The array's true length is not recorded anywhere, so the scan is
	// capped in case the terminator was corrupted away.
	if it.seen >= maxTLSCallbacks {
		it.err = errors.Wrapf(ErrDamagedTLSTable,
			"no terminator within %d callbacks", maxTLSCallbacks)
		return 0, false
	}

	if it.is64 {
		slot, err := viewStruct[uint64](it.region, it.addr)
		if err != nil {
			it.err = err
			return 0, false
		}
		callback = uintptr(*slot)
		it.addr += 8
	} else {
		slot, err := viewStruct[uint32](it.region, it.addr)
		if err != nil {
			it.err = err
			return 0, false
		}
		callback = uintptr(*slot)
		it.addr += 4
	}

	if callback == 0 {
		return 0, false
	}
	it.seen++
	return callback, true
}

// Err reports why the iteration stopped early, if it did.
func (it *TLSCallbackIterator) Err() error {
	return it.err
}

// CallbackAddresses drains a fresh iterator into a slice.
func (t *TLSTable) CallbackAddresses() ([]uintptr, error) {
	var callbacks []uintptr
	it := t.Callbacks()
	for callback, ok := it.Next(); ok; callback, ok = it.Next() {
		callbacks = append(callbacks, callback)
	}
	return callbacks, it.Err()
}
