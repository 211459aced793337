//go:build windows

package peimage

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// ParseModule parses a module already loaded in the current process,
// obtaining its base address and mapped size from the module handle.
func ParseModule(hmodule windows.Handle) (*Headers, error) {
	var modInfo windows.ModuleInfo
	if err := windows.GetModuleInformation(
		windows.CurrentProcess(),
		hmodule,
		&modInfo,
		uint32(unsafe.Sizeof(modInfo)),
	); err != nil {
		return nil, errors.WithMessage(err, "querying module information")
	}
	return Parse(modInfo.BaseOfDll, uintptr(modInfo.SizeOfImage))
}

// ParseModuleByName is like ParseModule for a module identified by name,
// e.g. "ntdll.dll".
func ParseModuleByName(name string) (*Headers, error) {
	hmodule, err := windows.GetModuleHandle(windows.StringToUTF16Ptr(name))
	if err != nil {
		return nil, errors.WithMessagef(err, "resolving module %q", name)
	}
	return ParseModule(hmodule)
}
