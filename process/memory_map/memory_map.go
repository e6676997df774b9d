package memory_map

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// MemoryMapItem represents a memory region in a process's address space
type MemoryMapItem struct {
	Address uint64 // The starting address of the memory region
	Size    uint   // The size of the memory region in bytes
	Perms   string // Permissions (e.g., "r-xp" for read, execute, private)
	Offset  uint64 // Offset of the region within the mapped file
	Path    string // Backing file or pseudo path such as [stack], empty when anonymous
	Deleted bool   // Backing file was unlinked after it was mapped
}

// IsFileBacked reports whether the region maps a file from the filesystem
func (mmItem MemoryMapItem) IsFileBacked() bool {
	return strings.HasPrefix(mmItem.Path, "/")
}

// Module is a file mapped into a process, spanning all of its regions
type Module struct {
	Base uint64
	Size uint64
	Path string
}

// ParseMemoryMap parses the /proc/[pid]/maps format. Malformed lines are skipped.
func ParseMemoryMap(r io.Reader) ([]MemoryMapItem, error) {
	var memoryMap []MemoryMapItem
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		// address perms offset dev inode [pathname]
		fields, path := splitMapsLine(scanner.Text(), 5)
		if len(fields) < 5 {
			continue
		}

		// Parse address range (e.g., "00400000-0040b000")
		addrRange := strings.Split(fields[0], "-")
		if len(addrRange) != 2 {
			continue
		}

		startAddr, err := strconv.ParseUint(addrRange[0], 16, 64)
		if err != nil {
			continue
		}

		endAddr, err := strconv.ParseUint(addrRange[1], 16, 64)
		if err != nil || endAddr < startAddr {
			continue
		}

		offset, err := strconv.ParseUint(fields[2], 16, 64)
		if err != nil {
			continue
		}

		// The kernel marks files unlinked while mapped
		path, deleted := strings.CutSuffix(path, " (deleted)")

		memoryMap = append(memoryMap, MemoryMapItem{
			Address: startAddr,
			Size:    uint(endAddr - startAddr),
			Perms:   fields[1],
			Offset:  offset,
			Path:    path,
			Deleted: deleted,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return memoryMap, nil
}

// splitMapsLine returns the first n whitespace-separated fields of line and the
// rest of the line with only its leading padding removed, so runs of spaces
// inside a pathname survive.
func splitMapsLine(line string, n int) ([]string, string) {
	fields := make([]string, 0, n)
	rest := line
	for len(fields) < n {
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" {
			break
		}
		end := strings.IndexAny(rest, " \t")
		if end < 0 {
			fields = append(fields, rest)
			rest = ""
			break
		}
		fields = append(fields, rest[:end])
		rest = rest[end:]
	}
	return fields, strings.TrimLeft(rest, " \t")
}

// Modules groups file-backed regions by path, in order of first appearance.
// A module spans from its lowest region start to its highest region end.
func Modules(memoryMap []MemoryMapItem) []Module {
	var modules []Module
	index := make(map[string]int)

	for _, item := range memoryMap {
		if !item.IsFileBacked() {
			continue
		}

		end := item.Address + uint64(item.Size)
		i, ok := index[item.Path]
		if !ok {
			index[item.Path] = len(modules)
			modules = append(modules, Module{Base: item.Address, Size: uint64(item.Size), Path: item.Path})
			continue
		}

		m := &modules[i]
		if item.Address < m.Base {
			m.Size += m.Base - item.Address
			m.Base = item.Address
		}
		if end > m.Base+m.Size {
			m.Size = end - m.Base
		}
	}

	return modules
}
