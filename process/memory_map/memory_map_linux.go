//go:build linux

package memory_map

import (
	"os"
	"path/filepath"
	"strconv"
)

// ReadMemoryMap reads and parses the memory map of a process from <root>/<pid>/maps
func ReadMemoryMap(root string, pid int) ([]MemoryMapItem, error) {
	file, err := os.Open(filepath.Join(root, strconv.Itoa(pid), "maps"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParseMemoryMap(file)
}
