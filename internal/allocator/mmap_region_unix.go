//go:build unix

package allocator

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// MmapRegion is a Region backed by an anonymous mmap reservation. The full
// [0, max) range is reserved up front with PROT_NONE so Start never moves;
// Grow commits additional pages by mprotect-ing the new prefix to
// PROT_READ|PROT_WRITE, the same reserve-then-commit split a real virtual
// memory allocator relies on.
type MmapRegion struct {
	base    []byte
	current uintptr
	max     uintptr
	closed  bool
}

// NewMmapRegion reserves max bytes of address space without committing any
// of it.
func NewMmapRegion(max uintptr) (*MmapRegion, error) {
	if max == 0 {
		return nil, fmt.Errorf("mmap region: max must be > 0")
	}

	base, err := unix.Mmap(-1, 0, int(max), unix.PROT_NONE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmap region: reserve %d bytes: %w", max, err)
	}

	return &MmapRegion{base: base, max: max}, nil
}

// Start implements Region.
func (r *MmapRegion) Start() unsafe.Pointer {
	if len(r.base) == 0 {
		return nil
	}

	return unsafe.Pointer(&r.base[0])
}

// Size implements Region.
func (r *MmapRegion) Size() uintptr {
	return r.current
}

// Grow implements Region, committing [0, newSize) for read/write access.
func (r *MmapRegion) Grow(newSize uintptr) error {
	if newSize <= r.current {
		return nil
	}

	if newSize > r.max {
		return errRegionExhausted(newSize, r.max)
	}

	if err := unix.Mprotect(r.base[:newSize], unix.PROT_READ|unix.PROT_WRITE); err != nil {
		return fmt.Errorf("mmap region: commit %d bytes: %w", newSize, err)
	}

	r.current = newSize

	return nil
}

// Bytes implements Region.
func (r *MmapRegion) Bytes() []byte {
	return r.base[:r.current]
}

// Close releases the reservation. It is not part of the Region contract —
// the allocator never calls it — but callers that own an MmapRegion should
// call it when they are done with the allocator and backing region.
func (r *MmapRegion) Close() error {
	if r.closed {
		return nil
	}

	r.closed = true

	return unix.Munmap(r.base)
}
