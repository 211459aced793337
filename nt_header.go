package peimage

import (
	"unsafe"

	"github.com/pkg/errors"
)

type NtHeader struct {
	Signature      uint32
	FileHeader     *FileHeader
	OptionalHeader any // of type *OptionalHeader32 or *OptionalHeader64
}

type FileHeader struct {
	Machine              uint16
	NumberOfSections     uint16
	TimeDateStamp        uint32
	PointerToSymbolTable uint32
	NumberOfSymbols      uint32
	SizeOfOptionalHeader uint16
	Characteristics      uint16
}

type DataDirectory struct {
	VirtualAddress uint32
	Size           uint32
}

// OptionalHeader32 is the fixed part of the PE32 optional header. The data
// directories that follow it in memory are exposed separately as
// Headers.DataDirectories, since their count varies per image.
type OptionalHeader32 struct {
	Magic                       uint16
	MajorLinkerVersion          uint8
	MinorLinkerVersion          uint8
	SizeOfCode                  uint32
	SizeOfInitializedData       uint32
	SizeOfUninitializedData     uint32
	AddressOfEntryPoint         uint32
	BaseOfCode                  uint32
	BaseOfData                  uint32
	ImageBase                   uint32
	SectionAlignment            uint32
	FileAlignment               uint32
	MajorOperatingSystemVersion uint16
	MinorOperatingSystemVersion uint16
	MajorImageVersion           uint16
	MinorImageVersion           uint16
	MajorSubsystemVersion       uint16
	MinorSubsystemVersion       uint16
	Win32VersionValue           uint32
	SizeOfImage                 uint32
	SizeOfHeaders               uint32
	CheckSum                    uint32
	Subsystem                   uint16
	DllCharacteristics          uint16
	SizeOfStackReserve          uint32
	SizeOfStackCommit           uint32
	SizeOfHeapReserve           uint32
	SizeOfHeapCommit            uint32
	LoaderFlags                 uint32
	NumberOfRvaAndSizes         uint32
}

// OptionalHeader64 is the fixed part of the PE32+ optional header.
type OptionalHeader64 struct {
	Magic                       uint16
	MajorLinkerVersion          uint8
	MinorLinkerVersion          uint8
	SizeOfCode                  uint32
	SizeOfInitializedData       uint32
	SizeOfUninitializedData     uint32
	AddressOfEntryPoint         uint32
	BaseOfCode                  uint32
	ImageBase                   uint64
	SectionAlignment            uint32
	FileAlignment               uint32
	MajorOperatingSystemVersion uint16
	MinorOperatingSystemVersion uint16
	MajorImageVersion           uint16
	MinorImageVersion           uint16
	MajorSubsystemVersion       uint16
	MinorSubsystemVersion       uint16
	Win32VersionValue           uint32
	SizeOfImage                 uint32
	SizeOfHeaders               uint32
	CheckSum                    uint32
	Subsystem                   uint16
	DllCharacteristics          uint16
	SizeOfStackReserve          uint64
	SizeOfStackCommit           uint64
	SizeOfHeapReserve           uint64
	SizeOfHeapCommit            uint64
	LoaderFlags                 uint32
	NumberOfRvaAndSizes         uint32
}

func (h *Headers) readNTHeader() error {
	ntAddr := h.region.base + uintptr(h.DOSHeader.AddressOfNewEXEHeader)

	signature, err := viewStruct[uint32](h.region, ntAddr)
	if err != nil {
		return err
	}
	if *signature != ImageNTHeaderSignature {
		return errors.Wrap(ErrInvalidHeaders, "NT signature not found")
	}
	h.Signature = *signature

	fileHeader, err := viewStruct[FileHeader](h.region, ntAddr+unsafe.Sizeof(h.Signature))
	if err != nil {
		return err
	}
	h.FileHeader = fileHeader

	optionalHeaderAddr := ntAddr + unsafe.Sizeof(h.Signature) + unsafe.Sizeof(FileHeader{})
	return h.readOptionalHeader(optionalHeaderAddr)
}

// readOptionalHeader selects the 32- or 64-bit variant from the magic value
// embedded in the image, not from the build architecture.
func (h *Headers) readOptionalHeader(addr uintptr) error {
	magic, err := viewStruct[uint16](h.region, addr)
	if err != nil {
		return err
	}

	switch *magic {
	case OptionalHeaderMagic32:
		oh32, err := viewStruct[OptionalHeader32](h.region, addr)
		if err != nil {
			return err
		}
		h.OptionalHeader = oh32
		h.Is32 = true
		h.dataDirectoryAddr = addr + unsafe.Sizeof(OptionalHeader32{})
	case OptionalHeaderMagic64:
		oh64, err := viewStruct[OptionalHeader64](h.region, addr)
		if err != nil {
			return err
		}
		h.OptionalHeader = oh64
		h.Is64 = true
		h.dataDirectoryAddr = addr + unsafe.Sizeof(OptionalHeader64{})
	default:
		return errors.Wrapf(ErrInvalidHeaders,
			"optional header has unexpected Magic of 0x%x", *magic)
	}
	return nil
}

func (h *Headers) readDataDirectories() error {
	dd, err := viewSlice[DataDirectory](h.region, h.dataDirectoryAddr, h.NumberOfRvaAndSizes())
	if err != nil {
		return err
	}
	h.DataDirectories = dd
	return nil
}

// NumberOfRvaAndSizes returns the data-directory count of either variant.
func (h *Headers) NumberOfRvaAndSizes() uint32 {
	if h.Is64 {
		return h.OptionalHeader.(*OptionalHeader64).NumberOfRvaAndSizes
	}
	return h.OptionalHeader.(*OptionalHeader32).NumberOfRvaAndSizes
}

// ImageBase returns the preferred load address of either variant.
func (h *Headers) ImageBase() uint64 {
	if h.Is64 {
		return h.OptionalHeader.(*OptionalHeader64).ImageBase
	}
	return uint64(h.OptionalHeader.(*OptionalHeader32).ImageBase)
}

// AddressOfEntryPoint returns the entry-point RVA of either variant.
func (h *Headers) AddressOfEntryPoint() uint32 {
	if h.Is64 {
		return h.OptionalHeader.(*OptionalHeader64).AddressOfEntryPoint
	}
	return h.OptionalHeader.(*OptionalHeader32).AddressOfEntryPoint
}

// SizeOfImage returns the mapped image size recorded in either variant.
func (h *Headers) SizeOfImage() uint32 {
	if h.Is64 {
		return h.OptionalHeader.(*OptionalHeader64).SizeOfImage
	}
	return h.OptionalHeader.(*OptionalHeader32).SizeOfImage
}
