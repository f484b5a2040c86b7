//go:build !unix

package allocator

import (
	"fmt"
	"unsafe"
)

// NewMmapRegion is unavailable on non-unix platforms; use NewSliceRegion
// there instead.
func NewMmapRegion(max uintptr) (*MmapRegion, error) {
	return nil, fmt.Errorf("mmap region: not supported on this platform")
}

// MmapRegion is declared here so the type name — and its Region method set
// — resolve on every platform; NewMmapRegion always fails before one of
// these is reachable outside unix, where mmap_region_unix.go supplies the
// real implementation.
type MmapRegion struct{}

func (r *MmapRegion) Start() unsafe.Pointer { return nil }
func (r *MmapRegion) Size() uintptr         { return 0 }
func (r *MmapRegion) Grow(uintptr) error    { return fmt.Errorf("mmap region: not supported on this platform") }
func (r *MmapRegion) Bytes() []byte         { return nil }
