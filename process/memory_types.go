package process

import (
	"fmt"
)

// ProcessMemoryAddress represents a memory address within a process
type ProcessMemoryAddress uintptr

func (pma ProcessMemoryAddress) ToString() string {
	return fmt.Sprintf("0x%016X", uint64(pma))
}

// ProcessMemorySize represents a size of memory region
type ProcessMemorySize uintptr

func (pms ProcessMemorySize) ToString() string {
	return fmt.Sprintf("%d bytes", uint64(pms))
}
