package testkit

import (
	"sync"
	"testing"
)

// seams are package-level vars (writeFile, statFile, loadTable, ...); tests
// that replace one hold this lock so parallel tests never see the swap
var seamMu sync.Mutex

// Swap replaces *target for the rest of the test and restores it on cleanup
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	orig := *target
	*target = replacement
	t.Cleanup(func() { *target = orig })
}

// Serial holds the global seam lock until the test ends
func Serial(t *testing.T) {
	t.Helper()
	seamMu.Lock()
	t.Cleanup(seamMu.Unlock)
}
