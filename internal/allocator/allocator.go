package allocator

import "unsafe"

// Allocator is the public entry point: a binary buddy allocator over a
// Region, configured through Option functions the way the teacher's
// NewSystemAllocator/NewArenaAllocator/NewPoolAllocator constructors are.
type Allocator struct {
	state *state
}

// NewAllocator constructs and initializes a buddy allocator. If no Region
// is supplied via WithRegion, a SliceRegion sized to the configured pool
// is created automatically.
func NewAllocator(opts ...Option) (*Allocator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	region := cfg.Region
	if region == nil {
		region = NewSliceRegion(uintptr(1) << cfg.PoolSizeExponent)
	}

	st, err := newState(region, cfg.PoolSizeExponent, cfg.MinBlockExponent, cfg.AlignmentCheck)
	if err != nil {
		return nil, err
	}

	if err := st.init(); err != nil {
		return nil, err
	}

	return &Allocator{state: st}, nil
}

// Alloc returns a pointer to a newly carved block of at least size bytes.
func (a *Allocator) Alloc(size uintptr) (unsafe.Pointer, error) {
	return a.state.alloc(size)
}

// Free releases the block *ptr points to and sets *ptr to nil.
func (a *Allocator) Free(ptr *unsafe.Pointer) error {
	return a.state.free(ptr)
}

// Close validates the allocator is still well-formed. It does not touch
// backing memory; the caller is responsible for releasing the Region.
func (a *Allocator) Close() error {
	return a.state.close()
}

// Stats reports, per order, how many free blocks exist, plus how many bytes
// of the region are committed and the pool maximum. It does not report how
// many bytes are in use by live allocations. It is observation-only:
// reading it never mutates allocator state.
type Stats struct {
	CommittedBytes uintptr
	PoolMaxBytes   uintptr
	OrderCount     uint8
	FreeBlocks     []OrderStats
}

// OrderStats describes the free-list state for a single order.
type OrderStats struct {
	Order     uint8
	BlockSize uintptr
	FreeCount int
}

// Stats computes a snapshot of the allocator's current free-list state.
func (a *Allocator) Stats() Stats {
	s := a.state

	free := make([]OrderStats, s.orderCount)
	for order := uint8(0); order < s.orderCount; order++ {
		free[order] = OrderStats{
			Order:     order,
			BlockSize: blockSize(order, s.minBlockExponent),
			FreeCount: s.freeLists[order].len(),
		}
	}

	return Stats{
		CommittedBytes: s.region.Size(),
		PoolMaxBytes:   s.maxPoolSize(),
		OrderCount:     s.orderCount,
		FreeBlocks:     free,
	}
}
