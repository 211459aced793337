package peimage

import "unsafe"

type SectionHeader32 struct {
	Name                 [8]uint8
	VirtualSize          uint32
	VirtualAddress       uint32
	SizeOfRawData        uint32
	PointerToRawData     uint32
	PointerToRelocations uint32
	PointerToLineNumbers uint32
	NumberOfRelocations  uint16
	NumberOfLineNumbers  uint16
	Characteristics      uint32
}

// NameString returns the section name with trailing NULs stripped.
func (sh *SectionHeader32) NameString() string {
	return cString(sh.Name[:])
}

// Contains reports whether rva falls inside the section's virtual extent.
func (sh *SectionHeader32) Contains(rva uint32) bool {
	return sh.VirtualAddress <= rva && rva < sh.VirtualAddress+sh.VirtualSize
}

// The section-header array immediately follows the data directories.
func (h *Headers) readSectionHeaders() error {
	addr := h.dataDirectoryAddr +
		uintptr(len(h.DataDirectories))*unsafe.Sizeof(DataDirectory{})

	sections, err := viewSlice[SectionHeader32](h.region, addr, uint32(h.FileHeader.NumberOfSections))
	if err != nil {
		return err
	}
	h.Sections = sections
	return nil
}

// Section returns the section header named name, or nil.
func (h *Headers) Section(name string) *SectionHeader32 {
	for i := range h.Sections {
		if h.Sections[i].NameString() == name {
			return &h.Sections[i]
		}
	}
	return nil
}

// SectionByRVA returns the section whose virtual extent contains rva, or nil.
func (h *Headers) SectionByRVA(rva uint32) *SectionHeader32 {
	for i := range h.Sections {
		if h.Sections[i].Contains(rva) {
			return &h.Sections[i]
		}
	}
	return nil
}
