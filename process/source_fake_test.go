package process

import (
	"fmt"
	"strings"
	"sync"
	"syscall"
)

type fakeProcess struct {
	pid  uint32
	name []byte
}

type fakeModule struct {
	base uintptr
	size uint32
	path []byte
}

// fakeSource replays scripted entries the way Toolhelp32 does: names are
// written over the previous contents of the record without a terminator.
type fakeSource struct {
	procs []fakeProcess
	mods  []fakeModule

	openErr  error
	firstErr error
	nextErr  error // returned instead of ErrNoMoreEntries once entries run out
	closeErr error

	opened    int
	closed    int
	scopes    []ProcessID
	sizesSeen []uint32
	dirtyNext int // ProcessNext/ModuleNext calls that found a name left in the record

	pos int
}

func (f *fakeSource) OpenSnapshot(class SnapshotClass, scope ProcessID) (Handle, error) {
	if f.openErr != nil {
		return InvalidHandle, f.openErr
	}
	f.opened++
	f.scopes = append(f.scopes, scope)
	return Handle(0x40 + f.opened), nil
}

func (f *fakeSource) ProcessFirst(h Handle, rec *ProcessRecord) error {
	f.sizesSeen = append(f.sizesSeen, rec.Size)
	if rec.Size != ProcessRecordSize {
		return syscall.Errno(24) // ERROR_BAD_LENGTH
	}
	if f.firstErr != nil {
		return f.firstErr
	}
	f.pos = 0
	return f.fillProcess(rec)
}

func (f *fakeSource) ProcessNext(h Handle, rec *ProcessRecord) error {
	if len(TrimNul(rec.ExeFile[:])) != 0 {
		f.dirtyNext++
	}
	f.pos++
	return f.fillProcess(rec)
}

func (f *fakeSource) fillProcess(rec *ProcessRecord) error {
	if f.pos >= len(f.procs) {
		return f.end()
	}
	p := f.procs[f.pos]
	rec.ProcessID = p.pid
	copy(rec.ExeFile[:], p.name)
	return nil
}

func (f *fakeSource) ModuleFirst(h Handle, rec *ModuleRecord) error {
	f.sizesSeen = append(f.sizesSeen, rec.Size)
	if rec.Size != ModuleRecordSize {
		return syscall.Errno(24)
	}
	if f.firstErr != nil {
		return f.firstErr
	}
	f.pos = 0
	return f.fillModule(rec)
}

func (f *fakeSource) ModuleNext(h Handle, rec *ModuleRecord) error {
	if len(TrimNul(rec.ExePath[:])) != 0 {
		f.dirtyNext++
	}
	f.pos++
	return f.fillModule(rec)
}

func (f *fakeSource) fillModule(rec *ModuleRecord) error {
	if f.pos >= len(f.mods) {
		return f.end()
	}
	m := f.mods[f.pos]
	rec.ModBaseAddr = m.base
	rec.ModBaseSize = m.size
	copy(rec.ExePath[:], m.path)
	return nil
}

func (f *fakeSource) end() error {
	if f.nextErr != nil {
		return f.nextErr
	}
	return ErrNoMoreEntries
}

func (f *fakeSource) CloseHandle(h Handle) error {
	f.closed++
	return f.closeErr
}

type logLine struct {
	level Level
	msg   string
}

type recordingDiagnostics struct {
	mu    sync.Mutex
	lines []logLine
}

func (r *recordingDiagnostics) Logf(level Level, format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, logLine{level: level, msg: fmt.Sprintf(format, args...)})
}

func (r *recordingDiagnostics) at(level Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, l := range r.lines {
		if l.level == level {
			out = append(out, l.msg)
		}
	}
	return out
}

func (r *recordingDiagnostics) contains(level Level, sub string) bool {
	for _, msg := range r.at(level) {
		if strings.Contains(msg, sub) {
			return true
		}
	}
	return false
}
