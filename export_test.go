package peimage

import (
	"encoding/binary"
	"errors"
	"runtime"
	"testing"
)

func TestExportTable(t *testing.T) {
	buf := newTestImage64(t)
	headers := parseTestImage(t, buf)

	table, err := headers.ExportTable()
	if err != nil {
		t.Fatalf("ExportTable() error = %v", err)
	}
	if got := len(table.AddressTable); got != len(testAddressTable) {
		t.Errorf("len(AddressTable) = %d, want %d", got, len(testAddressTable))
	}
	if got := len(table.NameTable); got != len(table.OrdinalTable) {
		t.Errorf("name table has %d entries, ordinal table %d, want equal",
			got, len(table.OrdinalTable))
	}
	if got := table.Directory.Base; got != 1 {
		t.Errorf("Directory.Base = %d, want 1", got)
	}
	runtime.KeepAlive(buf)
}

func TestExportNameOrdinals(t *testing.T) {
	buf := newTestImage64(t)
	headers := parseTestImage(t, buf)

	table, err := headers.ExportTable()
	if err != nil {
		t.Fatalf("ExportTable() error = %v", err)
	}

	pairs := table.NameOrdinals()
	if len(pairs) != len(testNameTable) {
		t.Fatalf("NameOrdinals() yielded %d pairs, want %d", len(pairs), len(testNameTable))
	}
	for i, pair := range pairs {
		if pair.NameRVA != testNameTable[i] || pair.Ordinal != testOrdinalTable[i] {
			t.Errorf("pair %d = {0x%x, %d}, want {0x%x, %d}",
				i, pair.NameRVA, pair.Ordinal, testNameTable[i], testOrdinalTable[i])
		}
	}
	runtime.KeepAlive(buf)
}

func TestExports(t *testing.T) {
	buf := newTestImage64(t)
	headers := parseTestImage(t, buf)
	base := imageBase(buf)

	table, err := headers.ExportTable()
	if err != nil {
		t.Fatalf("ExportTable() error = %v", err)
	}
	exports, err := table.Exports()
	if err != nil {
		t.Fatalf("Exports() error = %v", err)
	}
	if len(exports) != len(testExportNames) {
		t.Fatalf("Exports() yielded %d entries, want %d", len(exports), len(testExportNames))
	}
	for i, export := range exports {
		if export.Name != testExportNames[i] {
			t.Errorf("export %d name = %q, want %q", i, export.Name, testExportNames[i])
		}
		want := base + uintptr(testAddressTable[testOrdinalTable[i]])
		if export.Address != want {
			t.Errorf("export %q address = 0x%x, want 0x%x", export.Name, export.Address, want)
		}
	}
	runtime.KeepAlive(buf)
}

func TestExportLookup(t *testing.T) {
	buf := newTestImage64(t)
	headers := parseTestImage(t, buf)
	base := imageBase(buf)

	table, err := headers.ExportTable()
	if err != nil {
		t.Fatalf("ExportTable() error = %v", err)
	}

	// "beta" is name index 1, ordinal 0, address table entry 0x1111.
	addr, err := table.Lookup("beta")
	if err != nil {
		t.Fatalf("Lookup(beta) error = %v", err)
	}
	if want := base + 0x1111; addr != want {
		t.Errorf("Lookup(beta) = 0x%x, want 0x%x", addr, want)
	}

	if _, err := table.Lookup("nonexistent"); !errors.Is(err, ErrExportNotFound) {
		t.Errorf("Lookup(nonexistent) error = %v, want ErrExportNotFound", err)
	}
	runtime.KeepAlive(buf)
}

func TestExportsDamagedOrdinal(t *testing.T) {
	buf := newTestImage64(t)
	// Point the second ordinal past the end of the address table.
	binary.LittleEndian.PutUint16(buf[testOrdinalTableRVA+2:], 9)
	headers := parseTestImage(t, buf)

	table, err := headers.ExportTable()
	if err != nil {
		t.Fatalf("ExportTable() error = %v", err)
	}
	if _, err := table.Exports(); !errors.Is(err, ErrDamagedExportTable) {
		t.Errorf("Exports() error = %v, want ErrDamagedExportTable", err)
	}
	if _, err := table.Lookup("beta"); !errors.Is(err, ErrDamagedExportTable) {
		t.Errorf("Lookup(beta) error = %v, want ErrDamagedExportTable", err)
	}
	runtime.KeepAlive(buf)
}

func TestExportTableMissing(t *testing.T) {
	buf := newTestImage64(t)
	headers := parseTestImage(t, buf)
	// Zero out the export directory entry in place.
	headers.DataDirectories[ImageDirectoryEntryExport] = DataDirectory{}

	if _, err := headers.ExportTable(); !errors.Is(err, ErrMissingExportTable) {
		t.Errorf("ExportTable() error = %v, want ErrMissingExportTable", err)
	}
	runtime.KeepAlive(buf)
}
