package models

import (
	"sort"

	"github.com/lunixbochs/fvbommel-util/sortorder"
)

type Machine uint16

const (
	IMAGE_FILE_MACHINE_UNKNOWN     Machine = 0x0000
	IMAGE_FILE_MACHINE_ALPHA       Machine = 0x0184
	IMAGE_FILE_MACHINE_ALPHA64     Machine = 0x0284
	IMAGE_FILE_MACHINE_AM33        Machine = 0x01d3
	IMAGE_FILE_MACHINE_AMD64       Machine = 0x8664
	IMAGE_FILE_MACHINE_ARM         Machine = 0x01c0
	IMAGE_FILE_MACHINE_ARM64       Machine = 0xaa64
	IMAGE_FILE_MACHINE_ARMNT       Machine = 0x01c4
	IMAGE_FILE_MACHINE_AXP64       Machine = IMAGE_FILE_MACHINE_ALPHA64
	IMAGE_FILE_MACHINE_EBC         Machine = 0x0ebc
	IMAGE_FILE_MACHINE_I386        Machine = 0x014c
	IMAGE_FILE_MACHINE_IA64        Machine = 0x0200
	IMAGE_FILE_MACHINE_LOONGARCH32 Machine = 0x6232
	IMAGE_FILE_MACHINE_LOONGARCH64 Machine = 0x6264
	IMAGE_FILE_MACHINE_M32R        Machine = 0x9041
	IMAGE_FILE_MACHINE_MIPS16      Machine = 0x0266
	IMAGE_FILE_MACHINE_MIPSFPU     Machine = 0x0366
	IMAGE_FILE_MACHINE_MIPSFPU16   Machine = 0x0466
	IMAGE_FILE_MACHINE_POWERPC     Machine = 0x01f0
	IMAGE_FILE_MACHINE_POWERPCFP   Machine = 0x01f1
	IMAGE_FILE_MACHINE_R4000       Machine = 0x0166
	IMAGE_FILE_MACHINE_RISCV32     Machine = 0x5032
	IMAGE_FILE_MACHINE_RISCV64     Machine = 0x5064
	IMAGE_FILE_MACHINE_RISCV128    Machine = 0x5128
	IMAGE_FILE_MACHINE_SH3         Machine = 0x01a2
	IMAGE_FILE_MACHINE_SH3DSP      Machine = 0x01a3
	IMAGE_FILE_MACHINE_SH4         Machine = 0x01a6
	IMAGE_FILE_MACHINE_SH5         Machine = 0x01a8
	IMAGE_FILE_MACHINE_THUMB       Machine = 0x01c2
	IMAGE_FILE_MACHINE_WCEMIPSV2   Machine = 0x0169
)

const UnknownArchitecture = "Unknown Architecture"

var machineNames = map[Machine]string{
	IMAGE_FILE_MACHINE_UNKNOWN:     "Unknown",
	IMAGE_FILE_MACHINE_ALPHA:       "Alpha AXP, 32-bit address space",
	IMAGE_FILE_MACHINE_ALPHA64:     "Alpha/AXP 64, 64-bit address space",
	IMAGE_FILE_MACHINE_AM33:        "Matsushita AM33",
	IMAGE_FILE_MACHINE_AMD64:       "x64",
	IMAGE_FILE_MACHINE_ARM:         "ARM little endian",
	IMAGE_FILE_MACHINE_ARM64:       "ARM64 little endian",
	IMAGE_FILE_MACHINE_ARMNT:       "ARM Thumb-2 little endian",
	IMAGE_FILE_MACHINE_EBC:         "EFI byte code",
	IMAGE_FILE_MACHINE_I386:        "x86",
	IMAGE_FILE_MACHINE_IA64:        "Intel Itanium processor family",
	IMAGE_FILE_MACHINE_LOONGARCH32: "LoongArch 32-bit",
	IMAGE_FILE_MACHINE_LOONGARCH64: "LoongArch 64-bit",
	IMAGE_FILE_MACHINE_M32R:        "Mitsubishi M32R little endian",
	IMAGE_FILE_MACHINE_MIPS16:      "MIPS16",
	IMAGE_FILE_MACHINE_MIPSFPU:     "MIPS with FPU",
	IMAGE_FILE_MACHINE_MIPSFPU16:   "MIPS16 with FPU",
	IMAGE_FILE_MACHINE_POWERPC:     "Power PC little endian",
	IMAGE_FILE_MACHINE_POWERPCFP:   "Power PC with floating point support",
	IMAGE_FILE_MACHINE_R4000:       "MIPS little endian",
	IMAGE_FILE_MACHINE_RISCV32:     "RISC-V 32-bit",
	IMAGE_FILE_MACHINE_RISCV64:     "RISC-V 64-bit",
	IMAGE_FILE_MACHINE_RISCV128:    "RISC-V 128-bit",
	IMAGE_FILE_MACHINE_SH3:         "Hitachi SH3",
	IMAGE_FILE_MACHINE_SH3DSP:      "Hitachi SH3 DSP",
	IMAGE_FILE_MACHINE_SH4:         "Hitachi SH4",
	IMAGE_FILE_MACHINE_SH5:         "Hitachi SH5",
	IMAGE_FILE_MACHINE_THUMB:       "Thumb",
	IMAGE_FILE_MACHINE_WCEMIPSV2:   "MIPS little-endian WCE v2",
}

// ArchitectureName is a display helper and never fails.
func ArchitectureName(code uint16) string {
	if name, ok := machineNames[Machine(code)]; ok {
		return name
	}
	return UnknownArchitecture
}

func (m Machine) String() string {
	return ArchitectureName(uint16(m))
}

func (m Machine) Known() bool {
	_, ok := machineNames[m]
	return ok
}

type MachineEntry struct {
	Code Machine
	Name string
}

// KnownMachines lists the lookup table, by code or naturally ordered by name.
func KnownMachines(byName bool) []MachineEntry {
	out := make([]MachineEntry, 0, len(machineNames))
	for code, name := range machineNames {
		out = append(out, MachineEntry{code, name})
	}
	sort.Slice(out, func(i, j int) bool {
		if byName {
			return sortorder.NaturalLess(out[i].Name, out[j].Name)
		}
		return out[i].Code < out[j].Code
	})
	return out
}
