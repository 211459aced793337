package peimage

// Headers aggregates the parsed header views of an image that is already
// mapped into the current process. Every field is a zero-copy view over the
// caller's memory; nothing is read from disk and no RVA-to-file-offset
// translation happens.
type Headers struct {
	DOSHeader *DOSHeader
	NtHeader
	DataDirectories []DataDirectory
	Sections        []SectionHeader32

	Is64 bool
	Is32 bool

	region            region
	dataDirectoryAddr uintptr
}

// Parse validates the DOS and NT headers of the image mapped at base and
// returns views over its header structures. size is the total extent of the
// mapped region; every offset derived from the image is checked against it
// before a view is constructed. The backing memory must remain valid and
// unmodified for as long as the returned Headers, or any table derived from
// it, is in use.
func Parse(base, size uintptr) (*Headers, error) {
	h := &Headers{region: newRegion(base, size)}

	if err := h.readDOSHeader(); err != nil {
		return nil, err
	}
	if err := h.readNTHeader(); err != nil {
		return nil, err
	}
	if err := h.readDataDirectories(); err != nil {
		return nil, err
	}
	if err := h.readSectionHeaders(); err != nil {
		return nil, err
	}
	return h, nil
}

// dataDirectory returns the directory entry at idx, reporting whether idx is
// inside the parsed directory array.
func (h *Headers) dataDirectory(idx int) (DataDirectory, bool) {
	if idx >= len(h.DataDirectories) {
		return DataDirectory{}, false
	}
	return h.DataDirectories[idx], true
}
