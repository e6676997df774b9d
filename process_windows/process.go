//go:build windows

package process_windows

import (
	"proclist/process"
)

// NewEnumerator creates an Enumerator over the Toolhelp32 snapshot API
func NewEnumerator(opts ...process.Option) *process.Enumerator {
	return process.NewEnumerator(NewSource(), opts...)
}

// ForEachProcess calls fn for every running process
func ForEachProcess(fn process.ProcessFunc) error {
	return NewEnumerator().ForEachProcess(fn)
}

// ForEachModule calls fn for every module loaded by process pid
func ForEachModule(pid process.ProcessID, fn process.ModuleFunc) error {
	return NewEnumerator().ForEachModule(pid, fn)
}
