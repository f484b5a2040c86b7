package allocator

import "testing"

func TestCeilLog2(t *testing.T) {
	cases := []struct {
		x    uintptr
		want uint8
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{1023, 10},
		{1024, 10},
		{1025, 11},
	}

	for _, c := range cases {
		if got := ceilLog2(c.x); got != c.want {
			t.Errorf("ceilLog2(%d) = %d, want %d", c.x, got, c.want)
		}
	}
}

func TestOrderForSize(t *testing.T) {
	const minBlockExp = 4 // 16-byte minimum block

	cases := []struct {
		effective uintptr
		want      uint8
	}{
		{1, 0},  // below the minimum block, still order 0
		{16, 0}, // exactly the minimum block
		{17, 1}, // one byte over: needs a 32-byte block
		{32, 1},
		{33, 2},
	}

	for _, c := range cases {
		if got := orderForSize(c.effective, minBlockExp); got != c.want {
			t.Errorf("orderForSize(%d, %d) = %d, want %d", c.effective, minBlockExp, got, c.want)
		}
	}
}

func TestBlockSize(t *testing.T) {
	const minBlockExp = 4

	cases := []struct {
		order uint8
		want  uintptr
	}{
		{0, 16},
		{1, 32},
		{5, 512},
	}

	for _, c := range cases {
		if got := blockSize(c.order, minBlockExp); got != c.want {
			t.Errorf("blockSize(%d, %d) = %d, want %d", c.order, minBlockExp, got, c.want)
		}
	}
}
