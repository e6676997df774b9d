//go:build windows

package process_windows

import (
	"errors"
	"syscall"
	"unsafe"

	"proclist/process"

	"golang.org/x/sys/windows"
)

// The ANSI entry points fill the byte-buffer record shapes defined in package process.
var (
	modkernel32        = windows.NewLazySystemDLL("kernel32.dll")
	procProcess32First = modkernel32.NewProc("Process32First")
	procProcess32Next  = modkernel32.NewProc("Process32Next")
	procModule32First  = modkernel32.NewProc("Module32First")
	procModule32Next   = modkernel32.NewProc("Module32Next")
)

// ToolhelpSource implements process.Source with CreateToolhelp32Snapshot
type ToolhelpSource struct{}

var _ process.Source = ToolhelpSource{}

// NewSource returns the Toolhelp32 snapshot source
func NewSource() process.Source {
	return ToolhelpSource{}
}

func (ToolhelpSource) OpenSnapshot(class process.SnapshotClass, scope process.ProcessID) (process.Handle, error) {
	h, err := windows.CreateToolhelp32Snapshot(uint32(class), uint32(scope))
	if err != nil {
		return process.InvalidHandle, err
	}
	return process.Handle(h), nil
}

func (ToolhelpSource) ProcessFirst(h process.Handle, rec *process.ProcessRecord) error {
	r1, _, err := procProcess32First.Call(uintptr(h), uintptr(unsafe.Pointer(rec)))
	return stepResult(r1, err)
}

func (ToolhelpSource) ProcessNext(h process.Handle, rec *process.ProcessRecord) error {
	r1, _, err := procProcess32Next.Call(uintptr(h), uintptr(unsafe.Pointer(rec)))
	return stepResult(r1, err)
}

func (ToolhelpSource) ModuleFirst(h process.Handle, rec *process.ModuleRecord) error {
	r1, _, err := procModule32First.Call(uintptr(h), uintptr(unsafe.Pointer(rec)))
	return stepResult(r1, err)
}

func (ToolhelpSource) ModuleNext(h process.Handle, rec *process.ModuleRecord) error {
	r1, _, err := procModule32Next.Call(uintptr(h), uintptr(unsafe.Pointer(rec)))
	return stepResult(r1, err)
}

func (ToolhelpSource) CloseHandle(h process.Handle) error {
	return windows.CloseHandle(windows.Handle(h))
}

// stepResult turns a BOOL result and the thread's last error into a step error.
// ERROR_NO_MORE_FILES is the end of the snapshot, not a failure.
func stepResult(r1 uintptr, err error) error {
	if r1 != 0 {
		return nil
	}
	if errors.Is(err, windows.ERROR_NO_MORE_FILES) {
		return process.ErrNoMoreEntries
	}
	var errno syscall.Errno
	if !errors.As(err, &errno) || errno == 0 {
		return syscall.EINVAL
	}
	return err
}
