//go:build linux

package process_linux

import (
	"proclist/process"
)

// NewEnumerator creates an Enumerator over /proc
func NewEnumerator(opts ...process.Option) *process.Enumerator {
	return process.NewEnumerator(NewSource(), opts...)
}

// ForEachProcess calls fn for every running process
func ForEachProcess(fn process.ProcessFunc) error {
	return NewEnumerator().ForEachProcess(fn)
}

// ForEachModule calls fn for every file mapped into process pid
func ForEachModule(pid process.ProcessID, fn process.ModuleFunc) error {
	return NewEnumerator().ForEachModule(pid, fn)
}
