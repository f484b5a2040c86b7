package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"unsafe"

	"github.com/fsnotify/fsnotify"

	"github.com/coreheap/buddyalloc/internal/allocator"
)

func main() {
	var (
		profilePath = flag.String("profile", "buddyalloc.json", "pool profile JSON file")
		allocSize   = flag.Uint("size", 512, "size in bytes of each demo allocation")
		count       = flag.Uint("count", 4, "number of demo blocks to allocate before freeing them")
		watch       = flag.Bool("watch", false, "watch the profile file and rebuild the allocator on change")
		jsonOutput  = flag.Bool("json", false, "print Stats as JSON instead of a table")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Binary buddy allocator demo and profile inspector.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEXAMPLES:\n")
		fmt.Fprintf(os.Stderr, "  %s --profile pool.json --size 256 --count 8\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --watch   # rebuild on every edit to buddyalloc.json\n", os.Args[0])
	}

	flag.Parse()

	profile, err := loadPoolProfile(*profilePath)
	if err != nil {
		log.Fatalf("buddyalloc-demo: %v", err)
	}

	a, err := buildAllocator(profile)
	if err != nil {
		log.Fatalf("buddyalloc-demo: %v", err)
	}

	if err := runDemo(a, uintptr(*allocSize), *count, *jsonOutput); err != nil {
		log.Fatalf("buddyalloc-demo: %v", err)
	}

	if *watch {
		if err := watchProfile(*profilePath, uintptr(*allocSize), *count, *jsonOutput); err != nil {
			log.Fatalf("buddyalloc-demo: %v", err)
		}
	}
}

func buildAllocator(profile *PoolProfile) (*allocator.Allocator, error) {
	return allocator.NewAllocator(
		allocator.WithPoolSizeExponent(profile.PoolSizeExponent),
		allocator.WithMinBlockExponent(profile.MinBlockExponent),
		allocator.WithAlignmentCheck(profile.AlignmentCheck),
	)
}

// runDemo allocates count blocks of size bytes, prints Stats, frees every
// other block to exercise coalescing, and prints Stats again.
func runDemo(a *allocator.Allocator, size uintptr, count uint, jsonOutput bool) error {
	blocks := make([]unsafe.Pointer, 0, count)

	for i := uint(0); i < count; i++ {
		ptr, err := a.Alloc(size)
		if err != nil {
			return fmt.Errorf("alloc %d: %w", i, err)
		}

		blocks = append(blocks, ptr)
	}

	fmt.Println("after allocating:")
	printStats(a.Stats(), jsonOutput)

	for i := range blocks {
		if i%2 != 0 {
			continue
		}

		if err := a.Free(&blocks[i]); err != nil {
			return fmt.Errorf("free block %d: %w", i, err)
		}
	}

	fmt.Println("after freeing every other block:")
	printStats(a.Stats(), jsonOutput)

	return nil
}

func watchProfile(path string, size uintptr, count uint, jsonOutput bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	fmt.Printf("watching %s for changes (ctrl-c to exit)\n", path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			// A buddy tree can't be resized live without invalidating every
			// outstanding pointer, so a config change means "replace the
			// allocator", never "mutate it in place".
			profile, err := loadPoolProfile(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "buddyalloc-demo: reload %s: %v\n", path, err)
				continue
			}

			a, err := buildAllocator(profile)
			if err != nil {
				fmt.Fprintf(os.Stderr, "buddyalloc-demo: rebuild allocator: %v\n", err)
				continue
			}

			fmt.Printf("reloaded %s\n", path)

			if err := runDemo(a, size, count, jsonOutput); err != nil {
				fmt.Fprintf(os.Stderr, "buddyalloc-demo: %v\n", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			fmt.Fprintf(os.Stderr, "buddyalloc-demo: watch error: %v\n", err)
		}
	}
}
