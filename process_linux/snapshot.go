//go:build linux

package process_linux

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"proclist/process"
	"proclist/process/memory_map"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/unix"
)

// ProcfsSource implements process.Source on top of a procfs mount.
// Opening a snapshot reads everything it will return, so the entries a handle
// yields do not change while it is being walked.
type ProcfsSource struct {
	root string
	log  *logger.Logger

	mu    sync.Mutex
	last  process.Handle
	snaps map[process.Handle]*snapshot
}

var _ process.Source = (*ProcfsSource)(nil)

type procEntry struct {
	pid     uint32
	ppid    uint32
	threads uint32
	name    string
}

type snapshot struct {
	class process.SnapshotClass
	pid   uint32
	procs []procEntry
	mods  []memory_map.Module
	pos   int
}

func (s *snapshot) len() int {
	if s.class == process.SnapshotProcess {
		return len(s.procs)
	}
	return len(s.mods)
}

// NewSource returns a source reading /proc
func NewSource() *ProcfsSource {
	return NewSourceAt("/proc")
}

// NewSourceAt returns a source reading a procfs tree mounted at root
func NewSourceAt(root string) *ProcfsSource {
	return &ProcfsSource{
		root:  root,
		log:   logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "procfs")),
		snaps: make(map[process.Handle]*snapshot),
	}
}

func (s *ProcfsSource) OpenSnapshot(class process.SnapshotClass, scope process.ProcessID) (process.Handle, error) {
	snap := &snapshot{class: class}

	switch class {
	case process.SnapshotProcess:
		procs, err := s.readProcesses()
		if err != nil {
			return process.InvalidHandle, err
		}
		snap.procs = procs

	case process.SnapshotModule:
		pid := int(scope)
		if scope == 0 {
			// Like TH32CS_SNAPMODULE, 0 means the calling process
			pid = os.Getpid()
		}
		mm, err := memory_map.ReadMemoryMap(s.root, pid)
		if err != nil {
			return process.InvalidHandle, fmt.Errorf("read memory map of process %d: %w", pid, err)
		}
		snap.pid = uint32(pid)
		snap.mods = memory_map.Modules(mm)

	default:
		return process.InvalidHandle, fmt.Errorf("snapshot class %#x: %w", uint32(class), unix.EINVAL)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last++
	h := s.last
	s.snaps[h] = snap
	return h, nil
}

func (s *ProcfsSource) ProcessFirst(h process.Handle, rec *process.ProcessRecord) error {
	return s.step(h, process.SnapshotProcess, rec.Size, process.ProcessRecordSize, true, func(snap *snapshot) {
		s.fillProcess(rec, snap.procs[snap.pos])
	})
}

func (s *ProcfsSource) ProcessNext(h process.Handle, rec *process.ProcessRecord) error {
	return s.step(h, process.SnapshotProcess, rec.Size, process.ProcessRecordSize, false, func(snap *snapshot) {
		s.fillProcess(rec, snap.procs[snap.pos])
	})
}

func (s *ProcfsSource) ModuleFirst(h process.Handle, rec *process.ModuleRecord) error {
	return s.step(h, process.SnapshotModule, rec.Size, process.ModuleRecordSize, true, func(snap *snapshot) {
		s.fillModule(rec, snap.pid, snap.mods[snap.pos])
	})
}

func (s *ProcfsSource) ModuleNext(h process.Handle, rec *process.ModuleRecord) error {
	return s.step(h, process.SnapshotModule, rec.Size, process.ModuleRecordSize, false, func(snap *snapshot) {
		s.fillModule(rec, snap.pid, snap.mods[snap.pos])
	})
}

func (s *ProcfsSource) CloseHandle(h process.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.snaps[h]; !ok {
		return fmt.Errorf("%w %#x: %w", process.ErrUnknownHandle, uintptr(h), unix.EBADF)
	}
	delete(s.snaps, h)
	return nil
}

// step moves the cursor of snapshot h and lets fill copy the current entry into the record
func (s *ProcfsSource) step(h process.Handle, class process.SnapshotClass, size, want uint32, first bool, fill func(*snapshot)) error {
	if size != want {
		return fmt.Errorf("%w: got %d, want %d: %w", process.ErrRecordSize, size, want, unix.EINVAL)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.snaps[h]
	if !ok || snap.class != class {
		return fmt.Errorf("%w %#x: %w", process.ErrUnknownHandle, uintptr(h), unix.EBADF)
	}

	if first {
		snap.pos = 0
	} else if snap.pos < snap.len() {
		snap.pos++
	}
	if snap.pos >= snap.len() {
		return process.ErrNoMoreEntries
	}

	fill(snap)
	return nil
}

func (s *ProcfsSource) fillProcess(rec *process.ProcessRecord, e procEntry) {
	rec.ProcessID = e.pid
	rec.ParentProcessID = e.ppid
	rec.Threads = e.threads
	if !putName(rec.ExeFile[:], e.name) {
		s.log.Warn(fmt.Sprintf("Name of process %d truncated from %d bytes", e.pid, len(e.name)))
	}
}

func (s *ProcfsSource) fillModule(rec *process.ModuleRecord, pid uint32, m memory_map.Module) {
	rec.ModuleID = 1
	rec.ProcessID = pid
	rec.ModBaseAddr = uintptr(m.Base)
	rec.ModBaseSize = uint32(min(m.Size, math.MaxUint32))
	rec.ModuleHandle = uintptr(m.Base)
	putName(rec.Module[:], filepath.Base(m.Path))
	if !putName(rec.ExePath[:], m.Path) {
		s.log.Warn(fmt.Sprintf("Path of module %016X in process %d truncated from %d bytes", m.Base, pid, len(m.Path)))
	}
}

// putName writes name and a terminator over the front of buf and reports whether
// name fit. A long name is cut before the UTF-8 sequence that would overflow.
// Bytes after the terminator keep whatever they held before.
func putName(buf []byte, name string) bool {
	limit := len(buf) - 1
	fits := len(name) <= limit
	if !fits {
		for limit > 0 && !utf8.RuneStart(name[limit]) {
			limit--
		}
		name = name[:limit]
	}
	n := copy(buf, name)
	buf[n] = 0
	return fits
}

func (s *ProcfsSource) readProcesses() ([]procEntry, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.root, err)
	}

	var procs []procEntry
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.ParseUint(e.Name(), 10, 32)
		if err != nil || pid == 0 {
			continue // not a PID dir
		}

		p, err := s.readProcess(uint32(pid))
		if err != nil {
			// Process may have terminated while we were reading
			s.log.Debugln("Skipping process", pid, err)
			continue
		}
		procs = append(procs, p)
	}

	return procs, nil
}

func (s *ProcfsSource) readProcess(pid uint32) (procEntry, error) {
	dir := filepath.Join(s.root, strconv.FormatUint(uint64(pid), 10))

	comm, err := os.ReadFile(filepath.Join(dir, "comm"))
	if err != nil {
		return procEntry{}, fmt.Errorf("failed to read process name: %w", err)
	}
	p := procEntry{pid: pid, name: string(bytesTrimNL(comm))}

	// comm is capped at 15 bytes; the exe basename is not. May fail for kernel threads or without permission.
	if exe, err := os.Readlink(filepath.Join(dir, "exe")); err == nil && exe != "" {
		p.name = strings.TrimSuffix(filepath.Base(exe), " (deleted)")
	}

	status, err := os.ReadFile(filepath.Join(dir, "status"))
	if err != nil {
		return p, nil
	}
	for _, line := range strings.Split(string(status), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.TrimSpace(key) {
		case "PPid":
			if v, err := strconv.ParseUint(value, 10, 32); err == nil {
				p.ppid = uint32(v)
			}
		case "Threads":
			if v, err := strconv.ParseUint(value, 10, 32); err == nil {
				p.threads = uint32(v)
			}
		}
	}

	return p, nil
}

func bytesTrimNL(b []byte) []byte {
	// Trim trailing '\n' if present (comm has a newline).
	for len(b) > 0 {
		switch b[len(b)-1] {
		case '\n', '\r', ' ', '\t':
			b = b[:len(b)-1]
		default:
			return b
		}
	}
	return b
}
