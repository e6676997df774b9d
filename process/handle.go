package process

// noCopy makes go vet's copylocks check flag copies of the struct embedding it
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// ScopedHandle owns one snapshot handle. The enumerator that creates it defers
// release, so the handle is closed exactly once when the call returns, whether
// it returns normally, with an error, or by panicking.
type ScopedHandle struct {
	noCopy noCopy

	h        Handle
	src      Source
	log      Diagnostics
	released bool
}

// newScopedHandle takes ownership of h. h is not validated here.
func newScopedHandle(h Handle, src Source, log Diagnostics) *ScopedHandle {
	return &ScopedHandle{h: h, src: src, log: log}
}

// Handle returns the wrapped handle. Ownership stays with the ScopedHandle.
func (s *ScopedHandle) Handle() Handle {
	return s.h
}

func (s *ScopedHandle) release() {
	if s.released {
		return
	}
	s.released = true

	s.log.Logf(LevelDebug, "closing snapshot handle %#x", uintptr(s.h))
	if err := s.src.CloseHandle(s.h); err != nil {
		s.log.Logf(LevelWarn, "closing snapshot handle %#x: %v", uintptr(s.h), err)
	}
}
