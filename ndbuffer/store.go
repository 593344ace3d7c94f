package ndbuffer

import (
	"unsafe"
)

// LinearStore is flat float64 storage addressed by element offset. Offsets are checked by
// the views before they reach a store; stores themselves panic on out of range offsets.
type LinearStore interface {
	// Len returns the number of float64 elements available.
	Len() int
	// At returns the element at offset.
	At(offset int) float64
	// Set stores v at offset.
	Set(offset int, v float64)
	// Limit returns a store sharing the same memory restricted to the first n elements.
	Limit(n int) LinearStore
}

// heapStore is backed by a Go slice.
type heapStore struct {
	data []float64
}

// NewHeapStore allocates a zeroed heap store of n elements.
func NewHeapStore(n int) LinearStore {
	return &heapStore{data: make([]float64, n)}
}

// HeapStoreOf wraps data without copying it. Writes through the store are visible in data.
func HeapStoreOf(data []float64) LinearStore {
	return &heapStore{data: data}
}

func (hs *heapStore) Len() int {
	return len(hs.data)
}

func (hs *heapStore) At(offset int) float64 {
	return hs.data[offset]
}

func (hs *heapStore) Set(offset int, v float64) {
	hs.data[offset] = v
}

func (hs *heapStore) Limit(n int) LinearStore {
	if n > len(hs.data) {
		n = len(hs.data)
	}
	return &heapStore{data: hs.data[:n:n]}
}

// foreignStore aliases memory this package does not manage, such as a memory mapped file
// or a buffer handed over by a camera driver. The owner must keep the memory alive and
// unchanged in layout (native endian float64) for as long as any view references it.
type foreignStore struct {
	base unsafe.Pointer
	n    int
}

const float64Size = int(unsafe.Sizeof(float64(0)))

// NewForeignStore aliases n float64 values starting at base.
func NewForeignStore(base unsafe.Pointer, n int) (LinearStore, error) {
	if base == nil {
		return nil, newInvalidError("foreign store base pointer is nil")
	}
	if n < 0 {
		return nil, newInvalidError("foreign store length %d is negative", n)
	}
	if uintptr(base)%unsafe.Alignof(float64(0)) != 0 {
		return nil, newInvalidError("foreign store base %p is not aligned for float64", base)
	}
	return &foreignStore{base: base, n: n}, nil
}

// ForeignStoreFromBytes reinterprets raw bytes as native endian float64 values without copying.
// The byte length must be a multiple of 8 and the first byte must be 8-byte aligned.
func ForeignStoreFromBytes(raw []byte) (LinearStore, error) {
	if len(raw) == 0 {
		return nil, newInvalidError("foreign store needs a non-empty byte region")
	}
	if len(raw)%float64Size != 0 {
		return nil, newInvalidError("byte region of length %d is not a multiple of %d", len(raw), float64Size)
	}
	return NewForeignStore(unsafe.Pointer(&raw[0]), len(raw)/float64Size)
}

func (fs *foreignStore) Len() int {
	return fs.n
}

func (fs *foreignStore) ptr(offset int) *float64 {
	if offset < 0 || offset >= fs.n {
		panic(newOutOfBoundsError("offset %d outside foreign store of length %d", offset, fs.n))
	}
	return (*float64)(unsafe.Add(fs.base, offset*float64Size))
}

func (fs *foreignStore) At(offset int) float64 {
	return *fs.ptr(offset)
}

func (fs *foreignStore) Set(offset int, v float64) {
	*fs.ptr(offset) = v
}

func (fs *foreignStore) Limit(n int) LinearStore {
	if n > fs.n {
		n = fs.n
	}
	return &foreignStore{base: fs.base, n: n}
}
