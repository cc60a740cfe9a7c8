package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArchitectureNameTotal(t *testing.T) {
	for code := 0; code <= 0xffff; code++ {
		if ArchitectureName(uint16(code)) == "" {
			t.Fatalf("empty name for %#04x", code)
		}
	}
}

func TestArchitectureNames(t *testing.T) {
	assert.Equal(t, "x64", ArchitectureName(0x8664))
	assert.Equal(t, "ARM64 little endian", ArchitectureName(0xaa64))
	assert.Equal(t, "x86", ArchitectureName(0x14c))
	assert.Equal(t, "Alpha/AXP 64, 64-bit address space", IMAGE_FILE_MACHINE_AXP64.String())
	assert.Equal(t, "Unknown", ArchitectureName(0))
	assert.Equal(t, UnknownArchitecture, ArchitectureName(0x1234))
	assert.Equal(t, UnknownArchitecture, Machine(0xffff).String())
	assert.True(t, IMAGE_FILE_MACHINE_RISCV64.Known())
	assert.False(t, Machine(0x1234).Known())
}

func TestKnownMachines(t *testing.T) {
	byCode := KnownMachines(false)
	assert.Len(t, byCode, len(machineNames))
	for i := 1; i < len(byCode); i++ {
		assert.Less(t, uint16(byCode[i-1].Code), uint16(byCode[i].Code))
	}
	assert.Equal(t, IMAGE_FILE_MACHINE_UNKNOWN, byCode[0].Code)

	byName := KnownMachines(true)
	assert.Len(t, byName, len(machineNames))
	// natural order puts "RISC-V 32-bit" before "RISC-V 128-bit"
	idx := map[string]int{}
	for i, m := range byName {
		idx[m.Name] = i
	}
	assert.Less(t, idx["RISC-V 32-bit"], idx["RISC-V 64-bit"])
	assert.Less(t, idx["RISC-V 64-bit"], idx["RISC-V 128-bit"])
	assert.Less(t, idx["Hitachi SH3"], idx["Hitachi SH4"])
}
