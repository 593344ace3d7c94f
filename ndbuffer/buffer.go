package ndbuffer

import (
	"fmt"
	"iter"
)

// Buffer is a strided read/write view over a LinearStore. Copying a Buffer value copies
// the view, never the storage.
type Buffer struct {
	shape  Shape
	slices MultiSlice
	mapper IndexMapper
	store  LinearStore
}

// NewBuffer returns a view of store laid out by shape and restricted to slices. The slices
// are trimmed against the shape and must have the same rank. The store must hold at least
// shape.Size(0) elements.
func NewBuffer(shape Shape, slices MultiSlice, store LinearStore) (Buffer, error) {
	if store == nil {
		return Buffer{}, newInvalidError("buffer needs a backing store")
	}
	if shape.Rank() == 0 {
		return Buffer{}, newInvalidError("buffer needs a non-empty shape")
	}
	trimmed := slices.Trim(shape)
	mapper, err := NewIndexMapper(shape, trimmed)
	if err != nil {
		return Buffer{}, err
	}
	if store.Len() < shape.Size(0) {
		return Buffer{}, newInvalidError("store of %d elements is too small for shape %v", store.Len(), shape)
	}
	return Buffer{shape: shape, slices: trimmed, mapper: mapper, store: store}, nil
}

// NewDenseBuffer allocates a zeroed heap store and returns a full view over it.
func NewDenseBuffer(dims ...int) (Buffer, error) {
	shape, err := NewShape(dims...)
	if err != nil {
		return Buffer{}, err
	}
	return NewBuffer(shape, FullSlices(shape.Rank()), NewHeapStore(shape.Size(0)))
}

// BufferOf returns a full view over data laid out with dims. data is aliased, not copied.
func BufferOf(data []float64, dims ...int) (Buffer, error) {
	shape, err := NewShape(dims...)
	if err != nil {
		return Buffer{}, err
	}
	return NewBuffer(shape, FullSlices(shape.Rank()), HeapStoreOf(data))
}

// Shape returns the layout of the backing storage.
func (b Buffer) Shape() Shape {
	return b.shape
}

// Slices returns a copy of the slices the view exposes.
func (b Buffer) Slices() MultiSlice {
	return append(MultiSlice(nil), b.slices...)
}

// Store returns the backing store.
func (b Buffer) Store() LinearStore {
	return b.store
}

// Rank returns the number of dimensions of the view.
func (b Buffer) Rank() int {
	return len(b.slices)
}

// visible returns slice d clipped to the extent of the shape in that dimension.
func (b Buffer) visible(d int) Slice {
	s := b.slices[d]
	if dim := b.shape.Dim(d); s.stop > dim {
		s.stop = dim
	}
	if s.stop < s.start {
		s.stop = s.start
	}
	return s
}

// Dims returns the logical length of the view in every dimension.
func (b Buffer) Dims() []int {
	dims := make([]int, len(b.slices))
	for d := range dims {
		dims[d] = b.visible(d).Len()
	}
	return dims
}

// Len returns the number of elements visible through the view.
func (b Buffer) Len() int {
	if len(b.slices) == 0 {
		return 0
	}
	n := 1
	for _, d := range b.Dims() {
		n *= d
	}
	return n
}

// Offset returns the flat store offset of the logical coordinates.
func (b Buffer) Offset(coords ...int) (int, error) {
	if b.store == nil {
		return 0, newInvalidError("buffer is not initialized")
	}
	offset, err := b.mapper.Map(coords...)
	if err != nil {
		return 0, err
	}
	if offset >= b.store.Len() {
		return 0, newOutOfBoundsError("coordinates %v map to offset %d past store length %d", coords, offset, b.store.Len())
	}
	return offset, nil
}

// Get reads the element at the logical coordinates.
func (b Buffer) Get(coords ...int) (float64, error) {
	offset, err := b.Offset(coords...)
	if err != nil {
		return 0, err
	}
	return b.store.At(offset), nil
}

// Set writes v at the logical coordinates. The write is visible through every view of the store.
func (b Buffer) Set(v float64, coords ...int) error {
	offset, err := b.Offset(coords...)
	if err != nil {
		return err
	}
	b.store.Set(offset, v)
	return nil
}

// View returns a sub-view selecting slices of this view's logical positions. The result
// shares the backing store.
func (b Buffer) View(slices MultiSlice) (Buffer, error) {
	if len(slices) != len(b.slices) {
		return Buffer{}, newInvalidError("%d slices for a view of rank %d", len(slices), len(b.slices))
	}
	composed := make(MultiSlice, len(slices))
	for d, inner := range slices {
		s, err := b.visible(d).Sub(inner)
		if err != nil {
			return Buffer{}, err
		}
		composed[d] = s
	}
	mapper, err := NewIndexMapper(b.shape, composed)
	if err != nil {
		return Buffer{}, err
	}
	return Buffer{shape: b.shape, slices: composed, mapper: mapper, store: b.store}, nil
}

// Duplicate returns a new handle over the same storage, limited to the extent of the
// view's shape. Nothing is copied.
func (b Buffer) Duplicate() Buffer {
	dup := b
	dup.slices = b.Slices()
	dup.mapper = IndexMapper{shape: b.shape, slices: dup.slices}
	if b.store != nil {
		dup.store = b.store.Limit(b.shape.Size(0))
	}
	return dup
}

// Iterate yields every visible logical coordinate with its value in row-major order.
func (b Buffer) Iterate() iter.Seq2[[]int, float64] {
	return func(yield func([]int, float64) bool) {
		logical, err := NewShape(b.Dims()...)
		if err != nil {
			// empty view
			return
		}
		for coord := range logical.Iterate() {
			v, err := b.Get(coord...)
			if err != nil {
				return
			}
			if !yield(coord, v) {
				return
			}
		}
	}
}

// Values copies the visible elements into a new slice in row-major order.
func (b Buffer) Values() []float64 {
	out := make([]float64, 0, b.Len())
	for _, v := range b.Iterate() {
		out = append(out, v)
	}
	return out
}

func (b Buffer) String() string {
	return fmt.Sprintf("Buffer(shape=%v, slices=%v)", b.shape, b.slices)
}
