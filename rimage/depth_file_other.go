//go:build !unix

package rimage

import (
	"os"

	"github.com/pkg/errors"
)

// MappedDepthMap is a DepthMap over the contents of a raw depth file. Platforms without
// mmap read the file into memory instead.
type MappedDepthMap struct {
	*DepthMap
}

// MapDepthFile reads a raw file of width*height native-endian uint16 samples.
func MapDepthFile(path string, width, height int) (*MappedDepthMap, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "error reading depth file")
	}
	dm, err := NewDepthMap(data, width, height)
	if err != nil {
		return nil, err
	}
	return &MappedDepthMap{DepthMap: dm}, nil
}

// Close releases the map.
func (m *MappedDepthMap) Close() error {
	return nil
}
