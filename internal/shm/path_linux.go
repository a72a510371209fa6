//go:build linux

package shm

import (
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
)

const shmDir = "/dev/shm"

func regionPath(name string) string {
	return filepath.Join(shmDir, name)
}

// canCreateAt checks the free space on /dev/shm before creating a segment
// there, so an oversized request fails up front instead of faulting on
// first write to the mapping. Paths outside /dev/shm are not checked.
func canCreateAt(path string, size uint64) bool {
	if !strings.HasPrefix(path, shmDir) {
		return true
	}
	stat, err := disk.Usage(shmDir)
	if err != nil {
		return true
	}
	return stat.Free >= size
}
