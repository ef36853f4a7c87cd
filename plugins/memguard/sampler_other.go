//go:build !linux

package memguard

import "errors"

// SystemSampler is not supported outside Linux; every sample fails.
func SystemSampler() Sampler {
	return func() (Sample, error) {
		return Sample{}, errors.New("memguard: memory sampling requires linux")
	}
}
