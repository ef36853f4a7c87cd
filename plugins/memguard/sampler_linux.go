//go:build linux

package memguard

import "golang.org/x/sys/unix"

// SystemSampler reads memory usage through sysinfo(2). Buffers count as free.
func SystemSampler() Sampler {
	return func() (Sample, error) {
		var info unix.Sysinfo_t
		if err := unix.Sysinfo(&info); err != nil {
			return Sample{}, err
		}
		unit := uint64(info.Unit)
		total := uint64(info.Totalram) * unit
		free := (uint64(info.Freeram) + uint64(info.Bufferram)) * unit
		if free > total {
			free = total
		}
		return Sample{Total: total, Used: total - free}, nil
	}
}
