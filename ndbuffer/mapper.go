package ndbuffer

// IndexMapper translates N-dimensional logical coordinates of a sliced view into a flat
// offset into row-major storage laid out by a Shape.
type IndexMapper struct {
	shape  Shape
	slices MultiSlice
}

// NewIndexMapper returns a mapper for the given shape and slices, which must have the same rank.
func NewIndexMapper(shape Shape, slices MultiSlice) (IndexMapper, error) {
	if len(slices) != shape.Rank() {
		return IndexMapper{}, newInvalidError("%d slices for shape %v of rank %d", len(slices), shape, shape.Rank())
	}
	return IndexMapper{shape: shape, slices: slices}, nil
}

// Map returns the flat offset of coords.
func (m IndexMapper) Map(coords ...int) (int, error) {
	if len(coords) != len(m.slices) {
		return 0, newInvalidError("got %d coordinates for a view of rank %d", len(coords), len(m.slices))
	}
	offset := 0
	for d, c := range coords {
		abs, err := m.slices[d].Index(c)
		if err != nil {
			return 0, err
		}
		if abs >= m.shape.Dim(d) {
			return 0, newOutOfBoundsError("coordinate %d in dimension %d maps past extent %d", c, d, m.shape.Dim(d))
		}
		offset += abs * m.shape.Size(d+1)
	}
	return offset, nil
}
