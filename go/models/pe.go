package models

import (
	"bytes"
	"fmt"
	"time"
)

const (
	IMAGE_DOS_SIGNATURE = 0x5A4D     // MZ
	IMAGE_NT_SIGNATURE  = 0x00004550 // PE\0\0

	IMAGE_NT_OPTIONAL_HDR32_MAGIC = 0x10b
	IMAGE_NT_OPTIONAL_HDR64_MAGIC = 0x20b

	IMAGE_NUMBEROF_DIRECTORY_ENTRIES = 16
	IMAGE_SIZEOF_SHORT_NAME          = 8

	DosHeaderSize        = 64
	FileHeaderSize       = 20
	OptionalHeader64Size = 240
	SectionHeaderSize    = 40

	// Signature plus FileHeader: the optional header starts this far past e_lfanew.
	NtOptionalHeaderOffset = 4 + FileHeaderSize
)

// Section characteristics.
const (
	IMAGE_SCN_CNT_CODE               = 0x00000020
	IMAGE_SCN_CNT_INITIALIZED_DATA   = 0x00000040
	IMAGE_SCN_CNT_UNINITIALIZED_DATA = 0x00000080
	IMAGE_SCN_LNK_NRELOC_OVFL        = 0x01000000
	IMAGE_SCN_MEM_DISCARDABLE        = 0x02000000
	IMAGE_SCN_MEM_NOT_CACHED         = 0x04000000
	IMAGE_SCN_MEM_NOT_PAGED          = 0x08000000
	IMAGE_SCN_MEM_SHARED             = 0x10000000
	IMAGE_SCN_MEM_EXECUTE            = 0x20000000
	IMAGE_SCN_MEM_READ               = 0x40000000
	IMAGE_SCN_MEM_WRITE              = 0x80000000
)

// File header characteristics.
const (
	IMAGE_FILE_RELOCS_STRIPPED         = 0x0001
	IMAGE_FILE_EXECUTABLE_IMAGE        = 0x0002
	IMAGE_FILE_LINE_NUMS_STRIPPED      = 0x0004
	IMAGE_FILE_LOCAL_SYMS_STRIPPED     = 0x0008
	IMAGE_FILE_LARGE_ADDRESS_AWARE     = 0x0020
	IMAGE_FILE_32BIT_MACHINE           = 0x0100
	IMAGE_FILE_DEBUG_STRIPPED          = 0x0200
	IMAGE_FILE_REMOVABLE_RUN_FROM_SWAP = 0x0400
	IMAGE_FILE_NET_RUN_FROM_SWAP       = 0x0800
	IMAGE_FILE_SYSTEM                  = 0x1000
	IMAGE_FILE_DLL                     = 0x2000
	IMAGE_FILE_UP_SYSTEM_ONLY          = 0x4000
)

type flagName struct {
	Flag uint32
	Name string
}

var sectionFlagNames = []flagName{
	{IMAGE_SCN_CNT_CODE, "CODE"},
	{IMAGE_SCN_CNT_INITIALIZED_DATA, "INITIALIZED_DATA"},
	{IMAGE_SCN_CNT_UNINITIALIZED_DATA, "UNINITIALIZED_DATA"},
	{IMAGE_SCN_LNK_NRELOC_OVFL, "NRELOC_OVFL"},
	{IMAGE_SCN_MEM_DISCARDABLE, "DISCARDABLE"},
	{IMAGE_SCN_MEM_NOT_CACHED, "NOT_CACHED"},
	{IMAGE_SCN_MEM_NOT_PAGED, "NOT_PAGED"},
	{IMAGE_SCN_MEM_SHARED, "SHARED"},
	{IMAGE_SCN_MEM_EXECUTE, "EXECUTE"},
	{IMAGE_SCN_MEM_READ, "READ"},
	{IMAGE_SCN_MEM_WRITE, "WRITE"},
}

var fileFlagNames = []flagName{
	{IMAGE_FILE_RELOCS_STRIPPED, "RELOCS_STRIPPED"},
	{IMAGE_FILE_EXECUTABLE_IMAGE, "EXECUTABLE_IMAGE"},
	{IMAGE_FILE_LINE_NUMS_STRIPPED, "LINE_NUMS_STRIPPED"},
	{IMAGE_FILE_LOCAL_SYMS_STRIPPED, "LOCAL_SYMS_STRIPPED"},
	{IMAGE_FILE_LARGE_ADDRESS_AWARE, "LARGE_ADDRESS_AWARE"},
	{IMAGE_FILE_32BIT_MACHINE, "32BIT_MACHINE"},
	{IMAGE_FILE_DEBUG_STRIPPED, "DEBUG_STRIPPED"},
	{IMAGE_FILE_REMOVABLE_RUN_FROM_SWAP, "REMOVABLE_RUN_FROM_SWAP"},
	{IMAGE_FILE_NET_RUN_FROM_SWAP, "NET_RUN_FROM_SWAP"},
	{IMAGE_FILE_SYSTEM, "SYSTEM"},
	{IMAGE_FILE_DLL, "DLL"},
	{IMAGE_FILE_UP_SYSTEM_ONLY, "UP_SYSTEM_ONLY"},
}

func flagList(table []flagName, v uint32) []string {
	var out []string
	for _, f := range table {
		if v&f.Flag != 0 {
			out = append(out, f.Name)
		}
	}
	return out
}

// DosHeader is IMAGE_DOS_HEADER. Only Magic and Lfanew matter to a modern loader.
type DosHeader struct {
	Magic    uint16     `struc:"uint16,little"`
	Cblp     uint16     `struc:"uint16,little"`
	Cp       uint16     `struc:"uint16,little"`
	Crlc     uint16     `struc:"uint16,little"`
	Cparhdr  uint16     `struc:"uint16,little"`
	Minalloc uint16     `struc:"uint16,little"`
	Maxalloc uint16     `struc:"uint16,little"`
	Ss       uint16     `struc:"uint16,little"`
	Sp       uint16     `struc:"uint16,little"`
	Csum     uint16     `struc:"uint16,little"`
	Ip       uint16     `struc:"uint16,little"`
	Cs       uint16     `struc:"uint16,little"`
	Lfarlc   uint16     `struc:"uint16,little"`
	Ovno     uint16     `struc:"uint16,little"`
	Res      [4]uint16  `struc:"[4]uint16,little"`
	Oemid    uint16     `struc:"uint16,little"`
	Oeminfo  uint16     `struc:"uint16,little"`
	Res2     [10]uint16 `struc:"[10]uint16,little"`
	Lfanew   uint32     `struc:"uint32,little"`
}

func (d *DosHeader) Valid() bool {
	return d.Magic == IMAGE_DOS_SIGNATURE
}

type FileHeader struct {
	Machine              uint16 `struc:"uint16,little"`
	NumberOfSections     uint16 `struc:"uint16,little"`
	TimeDateStamp        uint32 `struc:"uint32,little"`
	PointerToSymbolTable uint32 `struc:"uint32,little"`
	NumberOfSymbols      uint32 `struc:"uint32,little"`
	SizeOfOptionalHeader uint16 `struc:"uint16,little"`
	Characteristics      uint16 `struc:"uint16,little"`
}

func (f *FileHeader) Arch() Machine {
	return Machine(f.Machine)
}

func (f *FileHeader) Timestamp() time.Time {
	return time.Unix(int64(f.TimeDateStamp), 0).UTC()
}

func (f *FileHeader) FlagNames() []string {
	return flagList(fileFlagNames, uint32(f.Characteristics))
}

type DataDirectory struct {
	VirtualAddress uint32 `struc:"uint32,little"`
	Size           uint32 `struc:"uint32,little"`
}

// OptionalHeader64 is the fixed part of IMAGE_OPTIONAL_HEADER64. The data
// directory array that follows it is kept on NtHeader.
type OptionalHeader64 struct {
	Magic                       uint16 `struc:"uint16,little"`
	MajorLinkerVersion          uint8  `struc:"uint8"`
	MinorLinkerVersion          uint8  `struc:"uint8"`
	SizeOfCode                  uint32 `struc:"uint32,little"`
	SizeOfInitializedData       uint32 `struc:"uint32,little"`
	SizeOfUninitializedData     uint32 `struc:"uint32,little"`
	AddressOfEntryPoint         uint32 `struc:"uint32,little"`
	BaseOfCode                  uint32 `struc:"uint32,little"`
	ImageBase                   uint64 `struc:"uint64,little"`
	SectionAlignment            uint32 `struc:"uint32,little"`
	FileAlignment               uint32 `struc:"uint32,little"`
	MajorOperatingSystemVersion uint16 `struc:"uint16,little"`
	MinorOperatingSystemVersion uint16 `struc:"uint16,little"`
	MajorImageVersion           uint16 `struc:"uint16,little"`
	MinorImageVersion           uint16 `struc:"uint16,little"`
	MajorSubsystemVersion       uint16 `struc:"uint16,little"`
	MinorSubsystemVersion       uint16 `struc:"uint16,little"`
	Win32VersionValue           uint32 `struc:"uint32,little"`
	SizeOfImage                 uint32 `struc:"uint32,little"`
	SizeOfHeaders               uint32 `struc:"uint32,little"`
	CheckSum                    uint32 `struc:"uint32,little"`
	Subsystem                   uint16 `struc:"uint16,little"`
	DllCharacteristics          uint16 `struc:"uint16,little"`
	SizeOfStackReserve          uint64 `struc:"uint64,little"`
	SizeOfStackCommit           uint64 `struc:"uint64,little"`
	SizeOfHeapReserve           uint64 `struc:"uint64,little"`
	SizeOfHeapCommit            uint64 `struc:"uint64,little"`
	LoaderFlags                 uint32 `struc:"uint32,little"`
	NumberOfRvaAndSizes         uint32 `struc:"uint32,little"`
}

// Is64 reports whether the header carries the PE32+ magic. A PE32 image is
// still decoded with the PE32+ layout; its fields past BaseOfCode are skewed.
func (o *OptionalHeader64) Is64() bool {
	return o.Magic == IMAGE_NT_OPTIONAL_HDR64_MAGIC
}

func (o *OptionalHeader64) Flavor() string {
	switch o.Magic {
	case IMAGE_NT_OPTIONAL_HDR64_MAGIC:
		return "PE32+"
	case IMAGE_NT_OPTIONAL_HDR32_MAGIC:
		return "PE32"
	default:
		return fmt.Sprintf("unknown (%#x)", o.Magic)
	}
}

type NtHeader struct {
	Signature      uint32
	FileHeader     FileHeader
	OptionalHeader OptionalHeader64
	DataDirectory  [IMAGE_NUMBEROF_DIRECTORY_ENTRIES]DataDirectory
}

func (n *NtHeader) Valid() bool {
	return n.Signature == IMAGE_NT_SIGNATURE
}

var dataDirectoryNames = [IMAGE_NUMBEROF_DIRECTORY_ENTRIES]string{
	"Export", "Import", "Resource", "Exception", "Security", "BaseReloc",
	"Debug", "Architecture", "GlobalPtr", "TLS", "LoadConfig", "BoundImport",
	"IAT", "DelayImport", "COMDescriptor", "Reserved",
}

func DataDirectoryName(i int) string {
	if i < 0 || i >= len(dataDirectoryNames) {
		return fmt.Sprintf("#%d", i)
	}
	return dataDirectoryNames[i]
}

type SectionHeader struct {
	Name [IMAGE_SIZEOF_SHORT_NAME]byte `struc:"[8]byte"`
	// VirtualSize shares its storage with PhysicalAddress (Misc union).
	VirtualSize          uint32 `struc:"uint32,little"`
	VirtualAddress       uint32 `struc:"uint32,little"`
	SizeOfRawData        uint32 `struc:"uint32,little"`
	PointerToRawData     uint32 `struc:"uint32,little"`
	PointerToRelocations uint32 `struc:"uint32,little"`
	PointerToLinenumbers uint32 `struc:"uint32,little"`
	NumberOfRelocations  uint16 `struc:"uint16,little"`
	NumberOfLinenumbers  uint16 `struc:"uint16,little"`
	Characteristics      uint32 `struc:"uint32,little"`
}

// NameString returns the section name without its NUL or space padding.
// All eight bytes may be used, so the name is not necessarily terminated.
func (s *SectionHeader) NameString() string {
	name := s.Name[:]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	return string(bytes.TrimRight(name, " "))
}

// NameIs compares against a padded name. Names longer than 8 bytes never match.
func (s *SectionHeader) NameIs(name string) bool {
	if len(name) > IMAGE_SIZEOF_SHORT_NAME {
		return false
	}
	return s.NameString() == name
}

func (s *SectionHeader) PhysicalAddress() uint32 {
	return s.VirtualSize
}

func (s *SectionHeader) Has(flag uint32) bool {
	return s.Characteristics&flag == flag
}

func (s *SectionHeader) IsReadonly() bool {
	return s.Has(IMAGE_SCN_MEM_READ) && !s.Has(IMAGE_SCN_MEM_WRITE)
}

func (s *SectionHeader) FlagNames() []string {
	return flagList(sectionFlagNames, s.Characteristics)
}

// RawEnd is the file offset one past the section's raw data.
func (s *SectionHeader) RawEnd() uint64 {
	return uint64(s.PointerToRawData) + uint64(s.SizeOfRawData)
}
