package peimage

import (
	"bytes"
	"encoding/binary"
	"testing"
	"unsafe"
)

// Layout of the synthetic 64-bit test image, offsets from the image base.
const (
	testNTHeaderOffset  = 0x80
	testExportDirRVA    = 0x400
	testAddressTableRVA = 0x500
	testNameTableRVA    = 0x540
	testOrdinalTableRVA = 0x580
	testNamePoolRVA     = 0x5C0
	testImportDirRVA    = 0x600
	testDebugDirRVA     = 0x700
	testTLSDirRVA       = 0x800
	testTLSCallbacksRVA = 0x900
	testImageSize       = 0x1000
)

var (
	testAddressTable = [4]uint32{0x1111, 0x2222, 0x3333, 0x4444}
	testNameTable    = [3]uint32{testNamePoolRVA, testNamePoolRVA + 6, testNamePoolRVA + 11}
	testOrdinalTable = [3]uint16{2, 0, 3}
	testExportNames  = [3]string{"alpha", "beta", "gamma"}
)

func writeAt(tb testing.TB, buf []byte, off uint32, v any) {
	tb.Helper()
	var w bytes.Buffer
	if err := binary.Write(&w, binary.LittleEndian, v); err != nil {
		tb.Fatal(err)
	}
	copy(buf[off:], w.Bytes())
}

// newTestImage64 builds a well-formed PE32+ image in a flat buffer. RVAs are
// direct offsets into the buffer, exactly as in a loaded image.
func newTestImage64(tb testing.TB) []byte {
	tb.Helper()
	buf := make([]byte, testImageSize)

	writeAt(tb, buf, 0, DOSHeader{
		Magic:                 ImageDOSSignature,
		AddressOfNewEXEHeader: testNTHeaderOffset,
	})

	writeAt(tb, buf, testNTHeaderOffset, uint32(ImageNTHeaderSignature))
	writeAt(tb, buf, testNTHeaderOffset+4, FileHeader{
		Machine:              ImageFileMachineAMD64,
		NumberOfSections:     2,
		SizeOfOptionalHeader: uint16(unsafe.Sizeof(OptionalHeader64{})) + 16*8,
	})

	optionalHeaderOffset := uint32(testNTHeaderOffset + 4 + unsafe.Sizeof(FileHeader{}))
	writeAt(tb, buf, optionalHeaderOffset, OptionalHeader64{
		Magic:               OptionalHeaderMagic64,
		AddressOfEntryPoint: 0x4A0,
		ImageBase:           0x140000000,
		SizeOfImage:         testImageSize,
		SizeOfHeaders:       0x200,
		NumberOfRvaAndSizes: 16,
	})

	ddOffset := optionalHeaderOffset + uint32(unsafe.Sizeof(OptionalHeader64{}))
	writeAt(tb, buf, ddOffset+8*ImageDirectoryEntryExport,
		DataDirectory{VirtualAddress: testExportDirRVA, Size: 0x200})
	writeAt(tb, buf, ddOffset+8*ImageDirectoryEntryImport,
		DataDirectory{VirtualAddress: testImportDirRVA, Size: 3 * 20})
	writeAt(tb, buf, ddOffset+8*ImageDirectoryEntryDebug,
		DataDirectory{VirtualAddress: testDebugDirRVA, Size: 3 * 28})
	writeAt(tb, buf, ddOffset+8*ImageDirectoryEntryTls,
		DataDirectory{VirtualAddress: testTLSDirRVA, Size: 40})

	sectionOffset := ddOffset + 16*8
	text := SectionHeader32{VirtualSize: 0x200, VirtualAddress: 0x400,
		Characteristics: ImageScnMemRead | ImageScnMemExecute}
	copy(text.Name[:], ".text")
	writeAt(tb, buf, sectionOffset, text)
	rdata := SectionHeader32{VirtualSize: 0x400, VirtualAddress: 0x600,
		Characteristics: ImageScnMemRead}
	copy(rdata.Name[:], ".rdata")
	writeAt(tb, buf, sectionOffset+uint32(unsafe.Sizeof(SectionHeader32{})), rdata)

	writeAt(tb, buf, testExportDirRVA, ExportDirectory{
		Base:                  1,
		NumberOfFunctions:     uint32(len(testAddressTable)),
		NumberOfNames:         uint32(len(testNameTable)),
		AddressOfFunctions:    testAddressTableRVA,
		AddressOfNames:        testNameTableRVA,
		AddressOfNameOrdinals: testOrdinalTableRVA,
	})
	writeAt(tb, buf, testAddressTableRVA, testAddressTable)
	writeAt(tb, buf, testNameTableRVA, testNameTable)
	writeAt(tb, buf, testOrdinalTableRVA, testOrdinalTable)
	copy(buf[testNamePoolRVA:], "alpha\x00beta\x00gamma\x00")

	writeAt(tb, buf, testImportDirRVA, [2]ImageImportDirectory{
		{OriginalFirstThunk: 0x9A0, Name: 0x9C0, FirstThunk: 0x9E0},
		{OriginalFirstThunk: 0xA20, Name: 0xA40, FirstThunk: 0xA60},
	})

	writeAt(tb, buf, testDebugDirRVA, [2]ImageDebugDirectory{
		{TimeDateStamp: 0x5F000000, Type: 2, SizeOfData: 0x25,
			AddressOfRawData: 0x750, PointerToRawData: 0x750},
		{TimeDateStamp: 0x5F000001, Type: 13, SizeOfData: 0x10,
			AddressOfRawData: 0x780, PointerToRawData: 0x780},
	})

	// The TLS directory's AddressOfCallBacks is a virtual address, so tests
	// fill it in once the buffer's base address is known.
	writeAt(tb, buf, testTLSDirRVA, ImageTLSDirectory64{})

	return buf
}

func imageBase(buf []byte) uintptr {
	return uintptr(unsafe.Pointer(&buf[0]))
}

func parseTestImage(tb testing.TB, buf []byte) *Headers {
	tb.Helper()
	headers, err := Parse(imageBase(buf), uintptr(len(buf)))
	if err != nil {
		tb.Fatalf("Parse() error = %v", err)
	}
	return headers
}
