package peimage

const (
	ImageDOSSignature = 0x5A4D // MZ
)

const ImageNTHeaderSignature = 0x00004550

// MaxNTHeaderOffset bounds e_lfanew before it is used to compute the NT
// header address. Larger values are treated as corruption.
const MaxNTHeaderOffset = 1024

const (
	OptionalHeaderMagic32 = 0x10B // PE32
	OptionalHeaderMagic64 = 0x20B // PE32+
)

const (
	ImageFileMachineI386  = 0x14C
	ImageFileMachineAMD64 = 0x8664
)

// IMAGE_DIRECTORY_ENTRY constants
const (
	ImageDirectoryEntryExport        = 0
	ImageDirectoryEntryImport        = 1
	ImageDirectoryEntryResource      = 2
	ImageDirectoryEntryException     = 3
	ImageDirectoryEntrySecurity      = 4
	ImageDirectoryEntryBaseReLoc     = 5
	ImageDirectoryEntryDebug         = 6
	ImageDirectoryEntryArchitecture  = 7
	ImageDirectoryEntryGlobalPtr     = 8
	ImageDirectoryEntryTls           = 9
	ImageDirectoryEntryLoadConfig    = 10
	ImageDirectoryEntryBoundImport   = 11
	ImageDirectoryEntryIat           = 12
	ImageDirectoryEntryDelayImport   = 13
	ImageDirectoryEntryComDescriptor = 14
)

const (
	ImageScnMemExecute = 0x20000000
	ImageScnMemRead    = 0x40000000
	ImageScnMemWrite   = 0x80000000
)

const maxExportNameLength = 0x200

// maxTLSCallbacks bounds the sentinel scan over the callback array so a
// missing terminator cannot send it across the whole mapped region.
const maxTLSCallbacks = 128
