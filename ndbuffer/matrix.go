package ndbuffer

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a two dimensional view. It satisfies mat.Matrix so views can be handed to
// gonum routines directly without copying them first.
type Matrix struct {
	Buffer
}

var _ mat.Matrix = Matrix{}

// NewMatrix allocates a zeroed rows x cols matrix.
func NewMatrix(rows, cols int) (Matrix, error) {
	b, err := NewDenseBuffer(rows, cols)
	if err != nil {
		return Matrix{}, err
	}
	return Matrix{b}, nil
}

// MatrixOf returns a rows x cols matrix over data, which is aliased and must be row-major.
func MatrixOf(rows, cols int, data []float64) (Matrix, error) {
	b, err := BufferOf(data, rows, cols)
	if err != nil {
		return Matrix{}, err
	}
	return Matrix{b}, nil
}

// MatrixFromBuffer checks that b is two dimensional and wraps it.
func MatrixFromBuffer(b Buffer) (Matrix, error) {
	if b.Rank() != 2 {
		return Matrix{}, newInvalidError("matrix needs a view of rank 2, got %d", b.Rank())
	}
	return Matrix{b}, nil
}

func mustMatrix(rows, cols int) Matrix {
	m, err := NewMatrix(rows, cols)
	if err != nil {
		panic(err)
	}
	return m
}

// Dims returns the visible number of rows and columns.
func (m Matrix) Dims() (r, c int) {
	if m.Rank() != 2 {
		return 0, 0
	}
	dims := m.Buffer.Dims()
	return dims[0], dims[1]
}

// At returns the element at row i, column j. Like gonum's dense types it panics when
// the position is outside the view.
func (m Matrix) At(i, j int) float64 {
	v, err := m.Get(i, j)
	if err != nil {
		panic(err)
	}
	return v
}

// SetAt writes v at row i, column j, panicking when the position is outside the view.
func (m Matrix) SetAt(i, j int, v float64) {
	if err := m.Set(v, i, j); err != nil {
		panic(err)
	}
}

// T returns the implicit transpose of the view.
func (m Matrix) T() mat.Matrix {
	return mat.Transpose{Matrix: m}
}

// Dense copies the view into a new gonum matrix.
func (m Matrix) Dense() *mat.Dense {
	return mat.DenseCopyOf(m)
}

// CopyFrom overwrites the view with the elements of src, which must have the same dimensions.
func (m Matrix) CopyFrom(src mat.Matrix) error {
	r, c := m.Dims()
	sr, sc := src.Dims()
	if r != sr || c != sc {
		return newInvalidError("cannot copy a %dx%d matrix into a %dx%d view", sr, sc, r, c)
	}
	for i := range r {
		for j := range c {
			m.SetAt(i, j, src.At(i, j))
		}
	}
	return nil
}

// SubMatrix returns a view of rows [r0, r1) and columns [c0, c1) sharing this matrix's storage.
func (m Matrix) SubMatrix(r0, r1, c0, c1 int) (Matrix, error) {
	rs, err := NewSlice(r0, r1, 1)
	if err != nil {
		return Matrix{}, err
	}
	cs, err := NewSlice(c0, c1, 1)
	if err != nil {
		return Matrix{}, err
	}
	rows, cols := m.Dims()
	if r1 > rows || c1 > cols {
		return Matrix{}, newOutOfBoundsError("sub-matrix [%d:%d, %d:%d] outside %dx%d matrix", r0, r1, c0, c1, rows, cols)
	}
	b, err := m.View(MultiSlice{rs, cs})
	if err != nil {
		return Matrix{}, err
	}
	return Matrix{b}, nil
}

func (m Matrix) fixed(rows, cols int) error {
	r, c := m.Dims()
	if r != rows || c != cols {
		return newInvalidError("expected a %dx%d view, got %dx%d", rows, cols, r, c)
	}
	return nil
}

// MatrixN3 is an N x 3 matrix whose rows are 3D points.
type MatrixN3 struct {
	Matrix
}

// NewMatrixN3 allocates a zeroed n x 3 matrix.
func NewMatrixN3(n int) (MatrixN3, error) {
	m, err := NewMatrix(n, 3)
	if err != nil {
		return MatrixN3{}, err
	}
	return MatrixN3{m}, nil
}

// MatrixN3FromMatrix checks that m has three columns and wraps it.
func MatrixN3FromMatrix(m Matrix) (MatrixN3, error) {
	r, _ := m.Dims()
	if err := m.fixed(r, 3); err != nil {
		return MatrixN3{}, err
	}
	return MatrixN3{m}, nil
}

// MatrixN3FromPoints copies points into a new matrix, one point per row.
func MatrixN3FromPoints(points ...r3.Vector) (MatrixN3, error) {
	m, err := NewMatrixN3(len(points))
	if err != nil {
		return MatrixN3{}, err
	}
	for i, p := range points {
		m.SetRow(i, p)
	}
	return m, nil
}

// Rows returns the number of points.
func (m MatrixN3) Rows() int {
	r, _ := m.Dims()
	return r
}

// RowView returns row r as a Vector3 aliasing this matrix: writes through the vector
// change the matrix. It panics if r is outside the matrix.
func (m MatrixN3) RowView(r int) Vector3 {
	if r < 0 || r >= m.Rows() {
		panic(newOutOfBoundsError("row %d outside matrix of %d rows", r, m.Rows()))
	}
	b, err := m.View(MultiSlice{Range(r, r+1), All()})
	if err != nil {
		panic(err)
	}
	return Vector3{Matrix{b}}
}

// Row copies row r into an r3.Vector.
func (m MatrixN3) Row(r int) r3.Vector {
	return r3.Vector{X: m.At(r, 0), Y: m.At(r, 1), Z: m.At(r, 2)}
}

// SetRow overwrites row r with p.
func (m MatrixN3) SetRow(r int, p r3.Vector) {
	m.SetAt(r, 0, p.X)
	m.SetAt(r, 1, p.Y)
	m.SetAt(r, 2, p.Z)
}

// Points copies every row into a slice of r3.Vectors.
func (m MatrixN3) Points() []r3.Vector {
	out := make([]r3.Vector, m.Rows())
	for i := range out {
		out[i] = m.Row(i)
	}
	return out
}

// Matrix3x3 is a 3 x 3 matrix, typically a rotation.
type Matrix3x3 struct {
	Matrix
}

// NewMatrix3x3 returns a 3 x 3 matrix holding a copy of the nine row-major values.
// With no values it returns the zero matrix.
func NewMatrix3x3(values ...float64) (Matrix3x3, error) {
	if len(values) != 0 && len(values) != 9 {
		return Matrix3x3{}, newInvalidError("a 3x3 matrix needs 9 values, got %d", len(values))
	}
	m := mustMatrix(3, 3)
	for i, v := range values {
		m.SetAt(i/3, i%3, v)
	}
	return Matrix3x3{m}, nil
}

// Matrix3x3FromMatrix checks that m is 3 x 3 and wraps it.
func Matrix3x3FromMatrix(m Matrix) (Matrix3x3, error) {
	if err := m.fixed(3, 3); err != nil {
		return Matrix3x3{}, err
	}
	return Matrix3x3{m}, nil
}

// MulVec returns m * v as a new detached vector.
func (m Matrix3x3) MulVec(v Vector3) Vector3 {
	in := v.Vector()
	return NewVector3(
		m.At(0, 0)*in.X+m.At(0, 1)*in.Y+m.At(0, 2)*in.Z,
		m.At(1, 0)*in.X+m.At(1, 1)*in.Y+m.At(1, 2)*in.Z,
		m.At(2, 0)*in.X+m.At(2, 1)*in.Y+m.At(2, 2)*in.Z,
	)
}

// Matrix4x4 is a homogeneous transform: rotation (possibly scaled) in the top-left 3 x 3
// block, translation in the last column, (0, 0, 0, 1) in the bottom row.
type Matrix4x4 struct {
	Matrix
}

// NewMatrix4x4 returns a zero 4 x 4 matrix.
func NewMatrix4x4() Matrix4x4 {
	return Matrix4x4{mustMatrix(4, 4)}
}

// Identity4x4 returns the identity transform.
func Identity4x4() Matrix4x4 {
	m := NewMatrix4x4()
	for i := range 4 {
		m.SetAt(i, i, 1)
	}
	return m
}

// Matrix4x4Of returns a transform over 16 row-major values. data is aliased.
func Matrix4x4Of(data []float64) (Matrix4x4, error) {
	if len(data) != 16 {
		return Matrix4x4{}, newInvalidError("a 4x4 matrix needs 16 values, got %d", len(data))
	}
	m, err := MatrixOf(4, 4, data)
	if err != nil {
		return Matrix4x4{}, err
	}
	return Matrix4x4{m}, nil
}

// Matrix4x4FromMatrix copies a 4 x 4 gonum matrix into a new transform.
func Matrix4x4FromMatrix(src mat.Matrix) (Matrix4x4, error) {
	m := NewMatrix4x4()
	if err := m.CopyFrom(src); err != nil {
		return Matrix4x4{}, err
	}
	return m, nil
}

// Data returns the 16 elements in row-major order.
func (m Matrix4x4) Data() []float64 {
	return m.Values()
}

// Rotation returns the top-left 3 x 3 block as a view sharing this transform's storage.
func (m Matrix4x4) Rotation() Matrix3x3 {
	sub, err := m.SubMatrix(0, 3, 0, 3)
	if err != nil {
		panic(err)
	}
	return Matrix3x3{sub}
}

// Translation returns the top-right 3 x 1 column.
func (m Matrix4x4) Translation() r3.Vector {
	return r3.Vector{X: m.At(0, 3), Y: m.At(1, 3), Z: m.At(2, 3)}
}

// Mul returns m * other as a new transform.
func (m Matrix4x4) Mul(other Matrix4x4) Matrix4x4 {
	var prod mat.Dense
	prod.Mul(m, other)
	out := NewMatrix4x4()
	if err := out.CopyFrom(&prod); err != nil {
		panic(err)
	}
	return out
}

// Apply transforms v as the homogeneous point (x, y, z, 1) and drops the fourth
// coordinate of the result. It returns a new detached vector.
func (m Matrix4x4) Apply(v Vector3) Vector3 {
	p := v.Vector()
	out := [3]float64{}
	for i := range out {
		out[i] = m.At(i, 0)*p.X + m.At(i, 1)*p.Y + m.At(i, 2)*p.Z + m.At(i, 3)
	}
	return NewVector3(out[0], out[1], out[2])
}
