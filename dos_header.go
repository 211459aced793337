package peimage

import "github.com/pkg/errors"

type DOSHeader struct {
	Magic                    uint16
	BytesOnLastPageOfFile    uint16
	PagesInFile              uint16
	Relocations              uint16
	SizeOfHeader             uint16
	MinExtraParagraphsNeeded uint16
	MaxExtraParagraphsNeeded uint16
	InitialSS                uint16
	InitialSP                uint16
	Checksum                 uint16
	InitialIP                uint16
	InitialCS                uint16
	AddressOfRelocationTable uint16
	OverlayNumber            uint16
	ReservedWords1           [4]uint16
	OEMIdentifier            uint16
	OEMInformation           uint16
	ReservedWords2           [10]uint16
	AddressOfNewEXEHeader    uint32
}

func (h *Headers) readDOSHeader() error {
	dosHeader, err := viewStruct[DOSHeader](h.region, h.region.base)
	if err != nil {
		return err
	}

	if dosHeader.Magic != ImageDOSSignature {
		return errors.Wrap(ErrInvalidHeaders, "DOS signature not found")
	}

	// e_lfanew is read from the image itself; reject implausible values
	// before they are used to compute a far pointer.
	if dosHeader.AddressOfNewEXEHeader > MaxNTHeaderOffset {
		return errors.Wrapf(ErrInvalidHeaders,
			"implausible e_lfanew value 0x%x", dosHeader.AddressOfNewEXEHeader)
	}

	h.DOSHeader = dosHeader
	return nil
}
