// Package memmap lays a PE file out in memory the way the OS loader would,
// so that its headers can be examined through the in-memory parser without
// loading the image for real.
package memmap

import (
	"bytes"
	"debug/pe"

	"github.com/pkg/errors"
)

// MapImage copies the headers and sections of the on-disk image in data into
// a fresh buffer of SizeOfImage bytes, each section placed at its virtual
// address. Relocations and import thunks are left untouched; the result is
// meant for header inspection, not execution.
func MapImage(data []byte) ([]byte, error) {
	f, err := pe.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, errors.WithMessage(err, "parsing PE file")
	}
	defer f.Close()

	if f.OptionalHeader == nil {
		return nil, errors.New("optional header is empty")
	}

	var sizeOfImage, sizeOfHeaders uint32
	switch oh := f.OptionalHeader.(type) {
	case *pe.OptionalHeader64:
		sizeOfImage = oh.SizeOfImage
		sizeOfHeaders = oh.SizeOfHeaders
	case *pe.OptionalHeader32:
		sizeOfImage = oh.SizeOfImage
		sizeOfHeaders = oh.SizeOfHeaders
	}

	if sizeOfImage == 0 || sizeOfHeaders > sizeOfImage || int(sizeOfHeaders) > len(data) {
		return nil, errors.Errorf("corrupt optional header sizes: image %d, headers %d",
			sizeOfImage, sizeOfHeaders)
	}

	image := make([]byte, sizeOfImage)
	copy(image, data[:sizeOfHeaders])

	for _, section := range f.Sections {
		sectionData, err := section.Data()
		if err != nil || len(sectionData) == 0 {
			continue
		}
		if section.VirtualSize != 0 && uint32(len(sectionData)) > section.VirtualSize {
			sectionData = sectionData[:section.VirtualSize]
		}
		if int(section.VirtualAddress) >= len(image) {
			return nil, errors.Errorf("section %s starts past the image extent", section.Name)
		}
		copy(image[section.VirtualAddress:], sectionData)
	}

	return image, nil
}
