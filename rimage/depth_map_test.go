package rimage

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func makeDepthBytes(samples ...uint16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.NativeEndian.PutUint16(out[2*i:], s)
	}
	return out
}

func TestDepthMap(t *testing.T) {
	raw := makeDepthBytes(0, 100, 200, 300, 400, 500)
	dm, err := NewDepthMap(raw, 3, 2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dm.Width(), test.ShouldEqual, 3)
	test.That(t, dm.Height(), test.ShouldEqual, 2)
	test.That(t, dm.Len(), test.ShouldEqual, 6)
	test.That(t, dm.Bounds().Dx(), test.ShouldEqual, 3)

	d, err := dm.DepthAt(4)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d, test.ShouldEqual, Depth(400))

	d, err = dm.GetDepth(2, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d, test.ShouldEqual, Depth(500))

	_, err = dm.DepthAt(6)
	test.That(t, errors.Is(err, ErrDepthOutOfBounds), test.ShouldBeTrue)
	_, err = dm.GetDepth(3, 0)
	test.That(t, errors.Is(err, ErrDepthOutOfBounds), test.ShouldBeTrue)

	// aliasing in both directions
	test.That(t, dm.Set(1, 0, 42), test.ShouldBeNil)
	test.That(t, binary.NativeEndian.Uint16(raw[2:]), test.ShouldEqual, uint16(42))
	binary.NativeEndian.PutUint16(raw[0:], 7)
	d, err = dm.DepthAt(0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d, test.ShouldEqual, Depth(7))

	low, high := dm.MinMax()
	test.That(t, low, test.ShouldEqual, Depth(7))
	test.That(t, high, test.ShouldEqual, Depth(500))

	_, err = NewDepthMap(raw, 4, 2)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewDepthMap(raw, 0, 2)
	test.That(t, err, test.ShouldNotBeNil)

	empty := NewEmptyDepthMap(2, 2)
	low, high = empty.MinMax()
	test.That(t, low, test.ShouldEqual, Depth(0))
	test.That(t, high, test.ShouldEqual, Depth(0))
}

func TestMapDepthFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depth.raw")
	test.That(t, os.WriteFile(path, makeDepthBytes(1, 2, 3, 4), 0o600), test.ShouldBeNil)

	dm, err := MapDepthFile(path, 2, 2)
	test.That(t, err, test.ShouldBeNil)
	d, err := dm.GetDepth(1, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d, test.ShouldEqual, Depth(4))
	test.That(t, dm.Close(), test.ShouldBeNil)
	test.That(t, dm.Close(), test.ShouldBeNil)

	_, err = MapDepthFile(path, 3, 3)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = MapDepthFile(filepath.Join(t.TempDir(), "missing.raw"), 2, 2)
	test.That(t, err, test.ShouldNotBeNil)
}
