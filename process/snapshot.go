package process

import "unsafe"

// Handle is an opaque snapshot handle issued by a Source
type Handle uintptr

// InvalidHandle is returned by OpenSnapshot when no snapshot could be taken.
// It has the same value as the Win32 INVALID_HANDLE_VALUE.
const InvalidHandle = ^Handle(0)

// SnapshotClass selects what a snapshot captures
type SnapshotClass uint32

const (
	SnapshotProcess SnapshotClass = 0x00000002 // TH32CS_SNAPPROCESS, scope is ignored
	SnapshotModule  SnapshotClass = 0x00000008 // TH32CS_SNAPMODULE, scope is the target PID
)

func (c SnapshotClass) String() string {
	switch c {
	case SnapshotProcess:
		return "process"
	case SnapshotModule:
		return "module"
	default:
		return "unknown"
	}
}

const (
	MaxPath         = 260
	MaxModuleName32 = 255
)

// ProcessRecord has the layout of the ANSI PROCESSENTRY32 structure.
// Size must be set to ProcessRecordSize before the first step.
type ProcessRecord struct {
	Size            uint32
	Usage           uint32
	ProcessID       uint32
	DefaultHeapID   uintptr
	ModuleID        uint32
	Threads         uint32
	ParentProcessID uint32
	PriClassBase    int32
	Flags           uint32
	ExeFile         [MaxPath]byte
}

// ModuleRecord has the layout of the ANSI MODULEENTRY32 structure.
// Size must be set to ModuleRecordSize before the first step.
type ModuleRecord struct {
	Size         uint32
	ModuleID     uint32
	ProcessID    uint32
	GlblcntUsage uint32
	ProccntUsage uint32
	ModBaseAddr  uintptr
	ModBaseSize  uint32
	ModuleHandle uintptr
	Module       [MaxModuleName32 + 1]byte
	ExePath      [MaxPath]byte
}

const (
	ProcessRecordSize = uint32(unsafe.Sizeof(ProcessRecord{}))
	ModuleRecordSize  = uint32(unsafe.Sizeof(ModuleRecord{}))
)

// Source is the operating system snapshot capability the enumerators walk.
//
// OpenSnapshot returns InvalidHandle together with a non-nil error on failure.
// The step methods fill the record in place and return nil on success, an error
// matching ErrNoMoreEntries once the snapshot is exhausted, and any other error
// on failure. Steps may leave bytes of a previous, longer name behind the new one.
// CloseHandle is called exactly once for every handle OpenSnapshot returned.
type Source interface {
	OpenSnapshot(class SnapshotClass, scope ProcessID) (Handle, error)
	ProcessFirst(h Handle, rec *ProcessRecord) error
	ProcessNext(h Handle, rec *ProcessRecord) error
	ModuleFirst(h Handle, rec *ModuleRecord) error
	ModuleNext(h Handle, rec *ModuleRecord) error
	CloseHandle(h Handle) error
}
