package allocator

import (
	"fmt"

	errorsstd "github.com/coreheap/buddyalloc/internal/errors"
)

// Error is the type every exported allocator operation returns on failure.
type Error = errorsstd.StandardError

func errInvalidArgument(operation, reason string, context map[string]interface{}) *Error {
	return errorsstd.InvalidArgument(fmt.Sprintf("%s: %s", operation, reason), context)
}

func errOutOfMemory(operation string, context map[string]interface{}) *Error {
	return errorsstd.OutOfMemory(fmt.Sprintf("%s: no free block satisfies the request", operation), context)
}

func errResourceExhausted(operation string, wrapped error, context map[string]interface{}) *Error {
	return errorsstd.ResourceExhausted(fmt.Sprintf("%s: backing region refused to grow", operation), wrapped, context)
}

func errRegionExhausted(wanted, max uintptr) error {
	return fmt.Errorf("region: cannot grow to %d bytes, maximum is %d", wanted, max)
}
