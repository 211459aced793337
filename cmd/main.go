package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"unsafe"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"github.com/rs/zerolog"

	peimage "github.com/inmemlab/peimage"
	"github.com/inmemlab/peimage/pkg/memmap"
)

var filename string

var log zerolog.Logger

func init() {
	flag.StringVar(&filename, "filename", "", "Please enter the file path")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

type Info struct {
	MachineType       uint16
	Is64              bool
	EntryPoint        uint32
	ImageBase         uint64
	SizeOfImage       uint32
	Sections          []*Section
	Exports           []*Export
	ImportDescriptors int
	DebugDescriptors  int
	TLSCallbacks      int
}

type Section struct {
	Name           string
	VirtualAddress uint32
	VirtualSize    uint32
}

type Export struct {
	Name    string
	Ordinal uint16
	RVA     uint32
}

func getSections(headers *peimage.Headers) []*Section {
	sections := make([]*Section, 0, len(headers.Sections))
	for i := range headers.Sections {
		s := &headers.Sections[i]
		sections = append(sections, &Section{
			Name:           s.NameString(),
			VirtualAddress: s.VirtualAddress,
			VirtualSize:    s.VirtualSize,
		})
	}
	return sections
}

func getExports(headers *peimage.Headers, base uintptr) []*Export {
	table, err := headers.ExportTable()
	if err != nil {
		if !errors.Is(err, peimage.ErrMissingExportTable) {
			log.Warn().Err(err).Msg("reading export table")
		}
		return nil
	}

	resolved, err := table.Exports()
	if err != nil {
		log.Warn().Err(err).Msg("resolving exports")
		return nil
	}

	exports := make([]*Export, 0, len(resolved))
	for _, e := range resolved {
		exports = append(exports, &Export{
			Name:    e.Name,
			Ordinal: e.Ordinal,
			RVA:     uint32(e.Address - base),
		})
	}
	return exports
}

func main() {
	data, err := os.ReadFile(filename)
	if err != nil {
		log.Fatal().Err(err).Msg("reading input file")
	}

	if kind, _ := filetype.Match(data); kind != matchers.TypeExe {
		log.Fatal().Str("type", kind.MIME.Value).Msg("input is not a PE executable")
	}

	image, err := memmap.MapImage(data)
	if err != nil {
		log.Fatal().Err(err).Msg("mapping image")
	}

	base := uintptr(unsafe.Pointer(&image[0]))
	headers, err := peimage.Parse(base, uintptr(len(image)))
	if err != nil {
		log.Fatal().Err(err).Msg("parsing headers")
	}

	info := Info{
		MachineType: headers.FileHeader.Machine,
		Is64:        headers.Is64,
		EntryPoint:  headers.AddressOfEntryPoint(),
		ImageBase:   headers.ImageBase(),
		SizeOfImage: headers.SizeOfImage(),
		Sections:    getSections(headers),
		Exports:     getExports(headers, base),
	}

	if imports, err := headers.ImportTable(); err == nil {
		info.ImportDescriptors = len(imports.Descriptors)
	} else if !errors.Is(err, peimage.ErrMissingImportTable) {
		log.Warn().Err(err).Msg("reading import table")
	}

	if debugTable, err := headers.DebugTable(); err == nil {
		info.DebugDescriptors = len(debugTable.Descriptors)
	} else if !errors.Is(err, peimage.ErrMissingDebugTable) {
		log.Warn().Err(err).Msg("reading debug table")
	}

	if tls, err := headers.TLSTable(); err != nil {
		log.Warn().Err(err).Msg("reading TLS directory")
	} else if tls != nil {
		callbacks, err := tls.CallbackAddresses()
		if err != nil {
			log.Warn().Err(err).Msg("walking TLS callbacks")
		}
		info.TLSCallbacks = len(callbacks)
	}

	out, _ := json.MarshalIndent(&info, "", "    ")
	fmt.Printf("%s\n", out)

	runtime.KeepAlive(image)
}
