package peimage

import "github.com/pkg/errors"

type ExportDirectory struct {
	Characteristics       uint32
	TimeDateStamp         uint32
	MajorVersion          uint16
	MinorVersion          uint16
	Name                  uint32
	Base                  uint32
	NumberOfFunctions     uint32
	NumberOfNames         uint32
	AddressOfFunctions    uint32
	AddressOfNames        uint32
	AddressOfNameOrdinals uint32
}

// ExportTable exposes the export directory and its three parallel arrays as
// zero-copy views. NameTable and OrdinalTable always have equal length;
// OrdinalTable entries index into AddressTable.
type ExportTable struct {
	Directory    *ExportDirectory
	AddressTable []uint32
	NameTable    []uint32
	OrdinalTable []uint16

	region region
}

// ExportTable locates the export directory of the image. It fails with
// ErrMissingExportTable when the directory entry is absent or zero-sized.
func (h *Headers) ExportTable() (*ExportTable, error) {
	dir, ok := h.dataDirectory(ImageDirectoryEntryExport)
	if !ok || dir.VirtualAddress == 0 || dir.Size == 0 {
		return nil, ErrMissingExportTable
	}

	r := h.region
	directory, err := viewStruct[ExportDirectory](r, r.base+uintptr(dir.VirtualAddress))
	if err != nil {
		return nil, err
	}

	t := &ExportTable{Directory: directory, region: r}
	// All three table fields are RVAs, so each array sits at base + rva.
	if t.AddressTable, err = viewSlice[uint32](r,
		r.base+uintptr(directory.AddressOfFunctions), directory.NumberOfFunctions); err != nil {
		return nil, err
	}
	if t.NameTable, err = viewSlice[uint32](r,
		r.base+uintptr(directory.AddressOfNames), directory.NumberOfNames); err != nil {
		return nil, err
	}
	if t.OrdinalTable, err = viewSlice[uint16](r,
		r.base+uintptr(directory.AddressOfNameOrdinals), directory.NumberOfNames); err != nil {
		return nil, err
	}
	return t, nil
}

// NameOrdinal pairs an export-name RVA with its ordinal, an index into the
// address table.
type NameOrdinal struct {
	NameRVA uint32
	Ordinal uint16
}

// NameOrdinals pairs the name table and ordinal table positionally, in
// table order.
func (t *ExportTable) NameOrdinals() []NameOrdinal {
	pairs := make([]NameOrdinal, len(t.NameTable))
	for i, nameRVA := range t.NameTable {
		pairs[i] = NameOrdinal{NameRVA: nameRVA, Ordinal: t.OrdinalTable[i]}
	}
	return pairs
}

// Export is one named export resolved to its address in the mapped image.
type Export struct {
	Name    string
	Ordinal uint16
	Address uintptr
}

// Exports resolves every named export to its address. It fails with
// ErrDamagedExportTable when an ordinal points outside the address table.
func (t *ExportTable) Exports() ([]Export, error) {
	exports := make([]Export, 0, len(t.NameTable))
	for i, nameRVA := range t.NameTable {
		ordinal := t.OrdinalTable[i]
		if int(ordinal) >= len(t.AddressTable) {
			return nil, errors.Wrapf(ErrDamagedExportTable,
				"ordinal %d at name index %d, address table holds %d entries",
				ordinal, i, len(t.AddressTable))
		}
		exports = append(exports, Export{
			Name:    cstringAt(t.region, t.region.base+uintptr(nameRVA), maxExportNameLength),
			Ordinal: ordinal,
			Address: t.region.base + uintptr(t.AddressTable[ordinal]),
		})
	}
	return exports, nil
}

// Lookup resolves an exported name to its address in the mapped image.
func (t *ExportTable) Lookup(name string) (uintptr, error) {
	for i, nameRVA := range t.NameTable {
		if cstringAt(t.region, t.region.base+uintptr(nameRVA), maxExportNameLength) != name {
			continue
		}
		ordinal := t.OrdinalTable[i]
		if int(ordinal) >= len(t.AddressTable) {
			return 0, errors.Wrapf(ErrDamagedExportTable,
				"ordinal %d for %q, address table holds %d entries",
				ordinal, name, len(t.AddressTable))
		}
		return t.region.base + uintptr(t.AddressTable[ordinal]), nil
	}
	return 0, errors.Wrap(ErrExportNotFound, name)
}
