package host

import (
	"slices"
	"sync"

	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
)

// NativeFunctions maps native class names to the function pointers the
// engine exposes for them, in the order the engine sent them.
type NativeFunctions struct {
	table map[string][]entities.NativeHandle
	mu    sync.RWMutex
}

// NewNativeFunctions returns an empty table.
func NewNativeFunctions() *NativeFunctions {
	return &NativeFunctions{table: make(map[string][]entities.NativeHandle)}
}

// Set replaces the pointers of nativeClass.
func (n *NativeFunctions) Set(nativeClass string, ptrs []int64) {
	handles := make([]entities.NativeHandle, len(ptrs))
	for i, p := range ptrs {
		handles[i] = entities.NativeHandle(p) //nolint:gosec // G115: engine pointers are sent as int64
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.table[nativeClass] = handles
}

// Get returns a copy of the pointers of nativeClass.
func (n *NativeFunctions) Get(nativeClass string) ([]entities.NativeHandle, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	ptrs, ok := n.table[nativeClass]
	return slices.Clone(ptrs), ok
}

// Classes lists the native classes with recorded pointers, sorted.
func (n *NativeFunctions) Classes() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	names := make([]string, 0, len(n.table))
	for name := range n.table {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
