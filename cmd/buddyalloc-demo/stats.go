package main

import (
	"encoding/json"
	"fmt"

	"github.com/coreheap/buddyalloc/internal/allocator"
)

func printStats(stats allocator.Stats, jsonOutput bool) {
	if jsonOutput {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			fmt.Printf("  (failed to marshal stats: %v)\n", err)
			return
		}

		fmt.Println(string(data))

		return
	}

	fmt.Printf("  pool max:       %d bytes\n", stats.PoolMaxBytes)
	fmt.Printf("  committed:      %d bytes\n", stats.CommittedBytes)
	fmt.Printf("  order  blocksize  free\n")

	for _, o := range stats.FreeBlocks {
		fmt.Printf("  %-5d  %-9d  %d\n", o.Order, o.BlockSize, o.FreeCount)
	}
}
