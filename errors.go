package peimage

import "github.com/pkg/errors"

var (
	// ErrInvalidHeaders covers a bad DOS or NT signature, an unexpected
	// optional-header magic, or an implausible NT-header offset.
	ErrInvalidHeaders = errors.New("invalid DOS or NT headers")

	ErrMissingExportTable = errors.New("image has no export table")
	ErrMissingImportTable = errors.New("image has no import table")
	ErrMissingDebugTable  = errors.New("image has no debug table")

	// ErrMissingTLSTable means the data-directory array is too short to
	// contain the TLS entry at all. An image without TLS is not an error.
	ErrMissingTLSTable = errors.New("TLS directory entry is out of range")
)

var (
	ErrOutsideBoundary = errors.New("reading data outside mapped region")

	ErrDamagedExportTable = errors.New(
		"damaged Export Table information. Ordinal points outside the address table")
	ErrDamagedImportTable = errors.New(
		"damaged Import Table information. Descriptor array is smaller than its terminator")
	ErrDamagedDebugTable = errors.New(
		"damaged Debug Table information. Descriptor array is smaller than its terminator")
	ErrDamagedTLSTable = errors.New(
		"damaged TLS directory. Callback array has no terminator")

	ErrExportNotFound = errors.New("export name not found")
)
