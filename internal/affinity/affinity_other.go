//go:build !linux

package affinity

import (
	"fmt"
	"os"
)

// Pin is a no-op on non-Linux platforms; it logs a warning and returns
// false.
func Pin(cpu int) bool {
	fmt.Fprintln(os.Stderr, "[warn] affinity.Pin not supported on this platform")
	return false
}
