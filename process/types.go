package process

// ProcessID represents a unique identifier for a process
type ProcessID uint32

// ProcessEntry is an owned copy of one process delivered by a snapshot walk
type ProcessEntry struct {
	PID  ProcessID // Process ID
	Name string    // Executable name
}

// ModuleEntry is an owned copy of one loaded module delivered by a snapshot walk
type ModuleEntry struct {
	Base ProcessMemoryAddress // Base address of the module image
	Size ProcessMemorySize    // Size of the module image in bytes
	Path string               // Full path of the module file
}
