package transform

import (
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/fiducial/pointcloud"
	"go.viam.com/fiducial/rimage"
)

var fixtureIntrinsics = &PinholeCameraIntrinsics{
	Width:  160,
	Height: 120,
	Fx:     385.5,
	Fy:     386.25,
	Ppx:    79.75,
	Ppy:    60.125,
}

// fixtureDepth builds a 160x120 millimeter depth image with a hole at pixel 77.
func fixtureDepth(t *testing.T) (*rimage.DepthMap, []byte) {
	t.Helper()
	raw := make([]byte, 2*160*120)
	for i := range 160 * 120 {
		d := uint16(400 + (i*7919)%3600)
		if i == 77 {
			d = 0
		}
		binary.NativeEndian.PutUint16(raw[2*i:], d)
	}
	dm, err := rimage.NewDepthMap(raw, 160, 120)
	test.That(t, err, test.ShouldBeNil)
	return dm, raw
}

func TestDepthCloudFixture(t *testing.T) {
	dm, _ := fixtureDepth(t)
	cloud, err := NewDepthCloud(dm, fixtureIntrinsics, 1000)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cloud.Size(), test.ShouldEqual, 19200)

	for _, tc := range []struct {
		index   int
		x, y, z float64
	}{
		{0, -0.08275, -0.06227, 0.4},
		{123, 0.27341, -0.37935, 2.437},
		{1234, 0.18178, -0.28141, 2.046},
		{12345, -0.34867, 0.10726, 2.455},
	} {
		p, err := cloud.At(tc.index)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, p.X(), test.ShouldAlmostEqual, tc.x, 1e-5)
		test.That(t, p.Y(), test.ShouldAlmostEqual, tc.y, 1e-5)
		test.That(t, p.Z(), test.ShouldAlmostEqual, tc.z, 1e-5)

		again, err := cloud.At(tc.index)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, again.Vector(), test.ShouldResemble, p.Vector())
	}

	hole, err := cloud.At(77)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pointcloud.IsHole(hole), test.ShouldBeTrue)

	byPixel, err := cloud.PointAtPixel(123%160, 123/160)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, byPixel.Z(), test.ShouldAlmostEqual, 2.437)

	_, err = cloud.At(19200)
	test.That(t, errors.Is(err, pointcloud.ErrIndexOutOfRange), test.ShouldBeTrue)
	_, err = cloud.PointAtPixel(160, 0)
	test.That(t, errors.Is(err, pointcloud.ErrIndexOutOfRange), test.ShouldBeTrue)
}

func TestDepthCloudIsNotCached(t *testing.T) {
	dm, raw := fixtureDepth(t)
	cloud, err := NewDepthCloud(dm, fixtureIntrinsics, 1000)
	test.That(t, err, test.ShouldBeNil)

	binary.NativeEndian.PutUint16(raw[2*5:], 1000)
	p, err := cloud.At(5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Z(), test.ShouldAlmostEqual, 1.)

	binary.NativeEndian.PutUint16(raw[2*5:], 0)
	p, err = cloud.At(5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.IsZero(), test.ShouldBeTrue)

	centroid, err := pointcloud.CloudCentroid(cloud)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, centroid.Z, test.ShouldBeGreaterThan, 0.4)
}

func TestNewDepthCloudValidation(t *testing.T) {
	dm, _ := fixtureDepth(t)

	_, err := NewDepthCloud(dm, nil, 1000)
	test.That(t, errors.Is(err, ErrNoIntrinsics), test.ShouldBeTrue)

	wrongSize := *fixtureIntrinsics
	wrongSize.Width = 320
	_, err = NewDepthCloud(dm, &wrongSize, 1000)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "don't match")

	_, err = NewDepthCloud(dm, fixtureIntrinsics, 0)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewDepthCloud(nil, fixtureIntrinsics, 1000)
	test.That(t, err, test.ShouldNotBeNil)
}
