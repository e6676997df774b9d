//go:build windows

package process_windows

import (
	"os"
	"strings"
	"syscall"
	"testing"

	"proclist/process"

	"golang.org/x/sys/windows"
)

func TestForEachProcess_FindsSelf(t *testing.T) {
	myPid := process.ProcessID(os.Getpid())
	found := false
	total := 0

	err := NewEnumerator(process.WithDiagnostics(process.Discard)).ForEachProcess(func(pid process.ProcessID, name string) error {
		total++
		if pid == myPid {
			found = true
			if name == "" {
				t.Error("Process name should not be empty")
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachProcess failed: %v", err)
	}
	if !found {
		t.Errorf("Could not find own process (PID %d) in %d processes", myPid, total)
	}
	t.Logf("Total processes found: %d", total)
}

func TestForEachModule_Self(t *testing.T) {
	modules, err := NewEnumerator(process.WithDiagnostics(process.Discard)).Modules(process.ProcessID(os.Getpid()))
	if err != nil {
		t.Fatalf("Modules failed: %v", err)
	}
	if len(modules) == 0 {
		t.Fatal("Expected at least one module")
	}

	foundNtdll := false
	for _, m := range modules {
		if m.Base == 0 || m.Size == 0 {
			t.Errorf("Module %s has base %s and size %d", m.Path, m.Base.ToString(), m.Size)
		}
		if strings.EqualFold(m.Path[strings.LastIndex(m.Path, `\`)+1:], "ntdll.dll") {
			foundNtdll = true
		}
	}
	if !foundNtdll {
		t.Error("Expected ntdll.dll among the loaded modules")
	}
}

func TestForEachProcess_SkipAll(t *testing.T) {
	calls := 0
	err := ForEachProcess(func(pid process.ProcessID, name string) error {
		calls++
		return process.SkipAll
	})
	if err != nil {
		t.Fatalf("ForEachProcess failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 callback, got %d", calls)
	}
}

func TestStepResult(t *testing.T) {
	if err := stepResult(1, nil); err != nil {
		t.Errorf("Expected success for a TRUE result, got %v", err)
	}
	if err := stepResult(0, windows.ERROR_NO_MORE_FILES); err != process.ErrNoMoreEntries {
		t.Errorf("Expected ErrNoMoreEntries, got %v", err)
	}
	if err := stepResult(0, windows.ERROR_ACCESS_DENIED); err != windows.ERROR_ACCESS_DENIED {
		t.Errorf("Expected ERROR_ACCESS_DENIED, got %v", err)
	}
	if err := stepResult(0, syscall.Errno(0)); err != syscall.EINVAL {
		t.Errorf("Expected EINVAL for a failure without last error, got %v", err)
	}
}
