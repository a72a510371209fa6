//go:build darwin

package shm

import (
	"os"
	"path/filepath"
)

// Darwin has no /dev/shm; segments are plain files in the temp directory,
// which macOS keeps per-user. Cross-user sharing needs an explicit common
// directory, which this package does not attempt to pick.
func regionPath(name string) string {
	return filepath.Join(os.TempDir(), "ipcptr-"+name)
}

func canCreateAt(string, uint64) bool { return true }
