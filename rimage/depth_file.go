//go:build unix

package rimage

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"
	"golang.org/x/sys/unix"
)

// MappedDepthMap is a DepthMap over a read-only memory mapped file.
type MappedDepthMap struct {
	*DepthMap
	region []byte
}

// MapDepthFile memory maps a raw file of width*height native-endian uint16 samples.
// The returned map must be closed; reading it after Close faults.
func MapDepthFile(path string, width, height int) (*MappedDepthMap, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening depth file")
	}
	defer utils.UncheckedErrorFunc(f.Close)

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "error reading depth file size")
	}
	if info.Size() == 0 {
		return nil, errors.Errorf("depth file %q is empty", path)
	}
	region, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrap(err, "error mapping depth file")
	}
	dm, err := NewDepthMap(region, width, height)
	if err != nil {
		return nil, multierr.Combine(err, unix.Munmap(region))
	}
	return &MappedDepthMap{DepthMap: dm, region: region}, nil
}

// Close unmaps the file.
func (m *MappedDepthMap) Close() error {
	if m.region == nil {
		return nil
	}
	err := unix.Munmap(m.region)
	m.region = nil
	return err
}
