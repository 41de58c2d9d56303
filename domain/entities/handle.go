package entities

import (
	"fmt"
	"sync"
)

// NativeHandle is the raw address of a native object as seen by the host.
// Zero means "no object".
type NativeHandle uintptr

// IsZero reports whether the handle refers to no object.
func (h NativeHandle) IsZero() bool {
	return h == 0
}

func (h NativeHandle) String() string {
	return fmt.Sprintf("0x%x", uintptr(h))
}

// BorrowedHandle is a non-owning reference to a native object. Dropping a
// borrowed handle never releases the object it points to.
type BorrowedHandle struct {
	ptr NativeHandle
}

// Borrow wraps a raw handle without taking ownership.
func Borrow(ptr NativeHandle) BorrowedHandle {
	return BorrowedHandle{ptr: ptr}
}

// Ptr returns the raw native address.
func (h BorrowedHandle) Ptr() NativeHandle {
	return h.ptr
}

// IsZero reports whether the handle refers to no object.
func (h BorrowedHandle) IsZero() bool {
	return h.ptr == 0
}

// ReleaseFunc drops one native reference to the object at ptr.
type ReleaseFunc func(ptr NativeHandle)

// OwnedHandle holds a native reference that must be released exactly once.
type OwnedHandle struct {
	release ReleaseFunc
	once    sync.Once
	ptr     NativeHandle
}

// Own takes ownership of ptr. release is invoked by Release; a nil release
// makes Release a no-op apart from clearing the handle.
func Own(ptr NativeHandle, release ReleaseFunc) *OwnedHandle {
	return &OwnedHandle{ptr: ptr, release: release}
}

// Ptr returns the raw native address, or zero once released.
func (h *OwnedHandle) Ptr() NativeHandle {
	if h == nil {
		return 0
	}
	return h.ptr
}

// Borrow returns a non-owning view of the same object.
func (h *OwnedHandle) Borrow() BorrowedHandle {
	return Borrow(h.Ptr())
}

// Release drops the native reference. Subsequent calls do nothing.
func (h *OwnedHandle) Release() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		if h.release != nil && h.ptr != 0 {
			h.release(h.ptr)
		}
		h.ptr = 0
	})
}
