package process

import (
	"errors"
	"strings"
)

// ProcessFunc is called once per process with a valid name.
// name is only valid for the duration of the call: it shares memory with the
// snapshot record, so a retained name changes under the caller as the walk goes
// on. Keep a copy made with strings.Clone instead.
type ProcessFunc func(pid ProcessID, name string) error

// ModuleFunc is called once per module with a valid path.
// path is only valid for the duration of the call and, like a ProcessFunc name,
// must be copied with strings.Clone to be kept.
type ModuleFunc func(base ProcessMemoryAddress, size ProcessMemorySize, path string) error

// Enumerator walks process and module snapshots taken from a Source.
// It holds no per-call state and may be used from several goroutines.
type Enumerator struct {
	src Source
	log Diagnostics
}

type Option func(*Enumerator)

// WithDiagnostics sets the sink for trace to error messages. nil discards them.
func WithDiagnostics(d Diagnostics) Option {
	return func(e *Enumerator) {
		if d == nil {
			d = Discard
		}
		e.log = d
	}
}

// NewEnumerator creates an Enumerator over src
func NewEnumerator(src Source, opts ...Option) *Enumerator {
	e := &Enumerator{
		src: src,
		log: NewLogger("snapshot", LevelInfo),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ForEachProcess calls fn for every process in a fresh snapshot, in snapshot order.
//
// Processes whose name is not valid UTF-8 are skipped with a warning. If fn
// returns SkipAll the walk stops and ForEachProcess returns nil; any other error
// from fn stops the walk and is returned as is. Failing to open the snapshot or
// to take the first step returns an *OSError before fn is ever called.
func (e *Enumerator) ForEachProcess(fn ProcessFunc) error {
	guard, err := e.open(SnapshotProcess, 0)
	if err != nil {
		return err
	}
	defer guard.release()

	h := guard.Handle()
	rec := ProcessRecord{Size: ProcessRecordSize}
	e.log.Logf(LevelDebug, "process record size is %d", rec.Size)

	op := "process first step"
	err = e.src.ProcessFirst(h, &rec)
	for err == nil {
		if err := e.visitProcess(&rec, fn); err != nil {
			return stopped(err)
		}

		e.log.Logf(LevelTrace, "clearing process name")
		ClearName(rec.ExeFile[:])

		op = "process next step"
		err = e.src.ProcessNext(h, &rec)
	}
	return e.exhausted(op, err)
}

// ForEachModule calls fn for every module loaded by process pid, in snapshot order.
//
// It follows the same rules as ForEachProcess. A process without visible modules
// yields no calls and a nil error.
func (e *Enumerator) ForEachModule(pid ProcessID, fn ModuleFunc) error {
	guard, err := e.open(SnapshotModule, pid)
	if err != nil {
		return err
	}
	defer guard.release()

	h := guard.Handle()
	rec := ModuleRecord{Size: ModuleRecordSize}
	e.log.Logf(LevelDebug, "module record size is %d", rec.Size)

	op := "module first step"
	err = e.src.ModuleFirst(h, &rec)
	for err == nil {
		if err := e.visitModule(&rec, fn); err != nil {
			return stopped(err)
		}

		e.log.Logf(LevelTrace, "clearing module path")
		ClearName(rec.ExePath[:])
		ClearName(rec.Module[:])

		op = "module next step"
		err = e.src.ModuleNext(h, &rec)
	}
	return e.exhausted(op, err)
}

// Processes returns every process of a fresh snapshot
func (e *Enumerator) Processes() ([]ProcessEntry, error) {
	var out []ProcessEntry
	err := e.ForEachProcess(func(pid ProcessID, name string) error {
		out = append(out, ProcessEntry{PID: pid, Name: strings.Clone(name)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Modules returns every module loaded by process pid
func (e *Enumerator) Modules(pid ProcessID) ([]ModuleEntry, error) {
	var out []ModuleEntry
	err := e.ForEachModule(pid, func(base ProcessMemoryAddress, size ProcessMemorySize, path string) error {
		out = append(out, ModuleEntry{Base: base, Size: size, Path: strings.Clone(path)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Enumerator) open(class SnapshotClass, scope ProcessID) (*ScopedHandle, error) {
	h, err := e.src.OpenSnapshot(class, scope)
	if err != nil || h == InvalidHandle {
		if err == nil {
			err = ErrInvalidHandle
		}
		e.log.Logf(LevelError, "opening %s snapshot: %v", class, err)
		return nil, newOSError("open "+class.String()+" snapshot", err)
	}
	e.log.Logf(LevelDebug, "opened %s snapshot, handle %#x", class, uintptr(h))
	return newScopedHandle(h, e.src, e.log), nil
}

// exhausted classifies the error that ended a walk
func (e *Enumerator) exhausted(op string, err error) error {
	if errors.Is(err, ErrNoMoreEntries) {
		e.log.Logf(LevelDebug, "%s reported no more entries", op)
		return nil
	}
	e.log.Logf(LevelError, "%s: %v", op, err)
	return newOSError(op, err)
}

func (e *Enumerator) visitProcess(rec *ProcessRecord, fn ProcessFunc) error {
	pid := ProcessID(rec.ProcessID)
	name, err := DecodeName(TrimNul(rec.ExeFile[:]))
	if err != nil {
		e.log.Logf(LevelWarn, "process with id %d has no valid UTF-8 name: %v", pid, err)
		return nil
	}
	e.log.Logf(LevelTrace, "process id = %d, name = %s", pid, name)
	return fn(pid, name)
}

func (e *Enumerator) visitModule(rec *ModuleRecord, fn ModuleFunc) error {
	base := ProcessMemoryAddress(rec.ModBaseAddr)
	size := ProcessMemorySize(rec.ModBaseSize)
	path, err := DecodeName(TrimNul(rec.ExePath[:]))
	if err != nil {
		e.log.Logf(LevelWarn, "module with address %s has no valid UTF-8 name: %v", base.ToString(), err)
		return nil
	}
	e.log.Logf(LevelTrace, "module address = %s, size = %s, path = %s", base.ToString(), size.ToString(), path)
	return fn(base, size, path)
}

func stopped(err error) error {
	if errors.Is(err, SkipAll) {
		return nil
	}
	return err
}
