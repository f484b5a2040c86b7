package allocator

import "unsafe"

// state is the buddy-tree bookkeeping structure itself: the backing region,
// the two configuration exponents, and one free list per order. It holds
// no other hidden state, mirroring the source's buddyAllocator struct.
type state struct {
	region           Region
	poolSizeExponent uint8
	minBlockExponent uint8
	orderCount       uint8
	freeLists        []*freeList
	alignmentCheck   bool
}

// newState validates configuration and allocates the free-list table. It
// does not touch the region or push the initial free block — that is
// init's job, mirroring the source's split between struct population and
// initBuddyAllocator.
func newState(region Region, poolSizeExponent, minBlockExponent uint8, alignmentCheck bool) (*state, error) {
	if region == nil {
		return nil, errInvalidArgument("newState", "region must not be nil", nil)
	}

	if minBlockExponent == 0 {
		return nil, errInvalidArgument("newState", "minBlockExponent must be > 0", map[string]interface{}{
			"minBlockExponent": minBlockExponent,
		})
	}

	if poolSizeExponent <= minBlockExponent {
		return nil, errInvalidArgument("newState", "poolSizeExponent must be > minBlockExponent", map[string]interface{}{
			"poolSizeExponent": poolSizeExponent,
			"minBlockExponent": minBlockExponent,
		})
	}

	orderCount := poolSizeExponent - minBlockExponent

	freeLists := make([]*freeList, orderCount)
	for i := range freeLists {
		freeLists[i] = &freeList{}
	}

	return &state{
		region:           region,
		poolSizeExponent: poolSizeExponent,
		minBlockExponent: minBlockExponent,
		orderCount:       orderCount,
		freeLists:        freeLists,
		alignmentCheck:   alignmentCheck,
	}, nil
}

// init verifies the state is empty but well-formed and seeds it with the
// start state: the whole region as a single free block at the top order.
func (s *state) init() error {
	if s.region == nil || s.region.Start() == nil {
		return errInvalidArgument("init", "region must have a non-nil start address", nil)
	}

	if s.orderCount != s.poolSizeExponent-s.minBlockExponent {
		return errInvalidArgument("init", "orderCount inconsistent with configured exponents", nil)
	}

	for order, fl := range s.freeLists {
		if fl == nil || fl.len() != 0 {
			return errInvalidArgument("init", "free list must be empty at init", map[string]interface{}{"order": order})
		}
	}

	s.freeLists[s.orderCount-1].push(0)

	return nil
}

// close validates the state is still well-formed. It never touches backing
// memory; it exists purely for symmetry with init.
func (s *state) close() error {
	if s.region == nil {
		return errInvalidArgument("close", "region must not be nil", nil)
	}

	return nil
}

// maxPoolSize is 2^poolSizeExponent, the ceiling the region is never
// allowed to exceed.
func (s *state) maxPoolSize() uintptr {
	return uintptr(1) << s.poolSizeExponent
}

// alloc implements the split policy: pop a free block at or above the
// wanted order, splitting every block it descends through on the way down
// and pushing the unused upper half of each split onto the order it came
// from.
func (s *state) alloc(requested uintptr) (unsafe.Pointer, error) {
	if requested == 0 {
		return nil, errInvalidArgument("alloc", "size must be > 0", nil)
	}

	if requested >= s.maxPoolSize() {
		return nil, errInvalidArgument("alloc", "size must be < 2^poolSizeExponent", map[string]interface{}{
			"size": requested,
			"max":  s.maxPoolSize(),
		})
	}

	effective := requested + 1 // one byte of in-band order-tag overhead

	wantedOrder := orderForSize(effective, s.minBlockExponent)
	if wantedOrder >= s.orderCount {
		return nil, errInvalidArgument("alloc", "requested size has no satisfying order", map[string]interface{}{
			"size":        requested,
			"wantedOrder": wantedOrder,
			"orderCount":  s.orderCount,
		})
	}

	block, ok := s.freeLists[wantedOrder].pop()
	if !ok {
		j := -1

		for i := int(wantedOrder) + 1; i < int(s.orderCount); i++ {
			if s.freeLists[i].len() > 0 {
				j = i

				break
			}
		}

		if j == -1 {
			return nil, errOutOfMemory("alloc", map[string]interface{}{"size": requested, "wantedOrder": wantedOrder})
		}

		block, _ = s.freeLists[j].pop()

		for i := j - 1; i >= int(wantedOrder); i-- {
			upperBuddy := block + blockSize(uint8(i), s.minBlockExponent)
			s.freeLists[i].push(upperBuddy)
		}
	}

	needed := block + blockSize(wantedOrder, s.minBlockExponent)
	if needed > s.region.Size() {
		if err := s.region.Grow(needed * 2); err != nil {
			return nil, errResourceExhausted("alloc", err, map[string]interface{}{"needed": needed})
		}
	}

	if s.alignmentCheck && !checkBlockAlignment(block, wantedOrder, s.minBlockExponent) {
		return nil, errInvalidArgument("alloc", "block misaligned after split", map[string]interface{}{
			"block": block, "order": wantedOrder,
		})
	}

	bytes := s.region.Bytes()
	bytes[block] = wantedOrder

	return pointerAt(s.region, block+1), nil
}

// free reads the order tag at ptr-1, then walks upward through the free
// lists, merging the freed block with its buddy at each order for as long
// as the buddy is also free. *ptr is set to nil on return.
func (s *state) free(ptr *unsafe.Pointer) error {
	if ptr == nil || *ptr == nil {
		return errInvalidArgument("free", "ptr must be non-nil", nil)
	}

	start := uintptr(s.region.Start())
	addr := uintptr(*ptr)

	if addr <= start || addr > start+s.maxPoolSize() {
		return errInvalidArgument("free", "ptr is outside the managed region", map[string]interface{}{
			"ptr": addr, "start": start, "max": s.maxPoolSize(),
		})
	}

	blockOffset := (addr - start) - 1
	bytes := s.region.Bytes()

	if blockOffset >= uintptr(len(bytes)) || bytes[blockOffset] >= s.orderCount {
		return errInvalidArgument("free", "ptr has no valid order tag", map[string]interface{}{
			"offset": blockOffset, "committed": len(bytes),
		})
	}

	order := bytes[blockOffset]

	if s.alignmentCheck && !checkBlockAlignment(blockOffset, order, s.minBlockExponent) {
		return errInvalidArgument("free", "ptr's order tag does not match its offset", map[string]interface{}{
			"offset": blockOffset, "order": order,
		})
	}

	current := order
	block := blockOffset

	for {
		if current >= s.orderCount-1 {
			s.freeLists[current].push(block)

			break
		}

		size := blockSize(current, s.minBlockExponent)

		var buddy uintptr
		if (block/size)%2 == 0 {
			buddy = block + size
		} else {
			buddy = block - size
		}

		idx, found := s.freeLists[current].indexOf(buddy)
		if !found {
			s.freeLists[current].push(block)

			break
		}

		s.freeLists[current].removeAt(idx)

		if buddy < block {
			block = buddy
		}

		current++
	}

	*ptr = nil

	return nil
}
