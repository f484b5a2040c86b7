package allocator

import "testing"

func TestNewAllocatorDefaults(t *testing.T) {
	a, err := NewAllocator()
	if err != nil {
		t.Fatalf("NewAllocator() returned error: %v", err)
	}

	stats := a.Stats()
	if stats.PoolMaxBytes != 1<<20 {
		t.Fatalf("PoolMaxBytes = %d, want %d", stats.PoolMaxBytes, uintptr(1)<<20)
	}

	if stats.OrderCount != 20-6 {
		t.Fatalf("OrderCount = %d, want %d", stats.OrderCount, 20-6)
	}
}

func TestNewAllocatorWithOptions(t *testing.T) {
	a, err := NewAllocator(
		WithPoolSizeExponent(10),
		WithMinBlockExponent(4),
	)
	if err != nil {
		t.Fatalf("NewAllocator() returned error: %v", err)
	}

	stats := a.Stats()
	if stats.PoolMaxBytes != 1024 {
		t.Fatalf("PoolMaxBytes = %d, want 1024", stats.PoolMaxBytes)
	}

	if stats.OrderCount != 6 {
		t.Fatalf("OrderCount = %d, want 6", stats.OrderCount)
	}
}

func TestNewAllocatorWithCustomRegion(t *testing.T) {
	region := NewSliceRegion(256)

	a, err := NewAllocator(
		WithPoolSizeExponent(8),
		WithMinBlockExponent(4),
		WithRegion(region),
	)
	if err != nil {
		t.Fatalf("NewAllocator() returned error: %v", err)
	}

	ptr, err := a.Alloc(10)
	if err != nil {
		t.Fatalf("Alloc(10) returned error: %v", err)
	}

	if ptr == nil {
		t.Fatalf("Alloc(10) returned a nil pointer")
	}
}

func TestAllocatorAllocFreeRoundTrip(t *testing.T) {
	a, err := NewAllocator(
		WithPoolSizeExponent(10),
		WithMinBlockExponent(4),
	)
	if err != nil {
		t.Fatalf("NewAllocator() returned error: %v", err)
	}

	ptr, err := a.Alloc(10)
	if err != nil {
		t.Fatalf("Alloc(10) returned error: %v", err)
	}

	before := a.Stats()
	if before.FreeBlocks[0].FreeCount != 1 {
		t.Fatalf("FreeBlocks[0].FreeCount = %d before free, want 1", before.FreeBlocks[0].FreeCount)
	}

	if err := a.Free(&ptr); err != nil {
		t.Fatalf("Free returned error: %v", err)
	}

	if ptr != nil {
		t.Fatalf("Free did not nil out the caller's pointer")
	}

	after := a.Stats()
	top := after.OrderCount - 1
	if after.FreeBlocks[top].FreeCount != 1 {
		t.Fatalf("FreeBlocks[%d].FreeCount after free = %d, want 1", top, after.FreeBlocks[top].FreeCount)
	}
}

func TestAllocatorClose(t *testing.T) {
	a, err := NewAllocator()
	if err != nil {
		t.Fatalf("NewAllocator() returned error: %v", err)
	}

	if err := a.Close(); err != nil {
		t.Fatalf("Close() returned error: %v", err)
	}
}

func TestAllocatorStatsReflectsGrowth(t *testing.T) {
	a, err := NewAllocator(
		WithPoolSizeExponent(10),
		WithMinBlockExponent(4),
	)
	if err != nil {
		t.Fatalf("NewAllocator() returned error: %v", err)
	}

	if got := a.Stats().CommittedBytes; got != 0 {
		t.Fatalf("CommittedBytes before any alloc = %d, want 0", got)
	}

	if _, err := a.Alloc(10); err != nil {
		t.Fatalf("Alloc(10) returned error: %v", err)
	}

	if got := a.Stats().CommittedBytes; got == 0 {
		t.Fatalf("CommittedBytes after alloc is still 0")
	}
}
