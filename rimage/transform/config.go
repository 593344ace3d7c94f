package transform

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// DefaultDepthScale converts millimeter depth samples to meters.
const DefaultDepthScale = 1000.

// DeprojectionConfig describes how to turn a depth image into points.
type DeprojectionConfig struct {
	Intrinsics *PinholeCameraIntrinsics `json:"intrinsic_parameters"`
	DepthScale float64                  `json:"depth_scale,omitempty"`
}

// Validate checks the config and fills in the default depth scale.
func (cfg *DeprojectionConfig) Validate() error {
	var errs error
	if err := cfg.Intrinsics.CheckValid(); err != nil {
		errs = multierr.Append(errs, err)
	}
	if cfg.DepthScale == 0 {
		cfg.DepthScale = DefaultDepthScale
	}
	if cfg.DepthScale < 0 {
		errs = multierr.Append(errs, errors.Errorf("depth_scale must be positive, got %v", cfg.DepthScale))
	}
	return errs
}

// NewDeprojectionConfigFromJSONFile reads and validates a deprojection config.
func NewDeprojectionConfigFromJSONFile(jsonPath string) (*DeprojectionConfig, error) {
	cfg := &DeprojectionConfig{}
	if err := readJSONFile(jsonPath, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
