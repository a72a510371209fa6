//go:build windows

package shm

// Windows file mappings need a different lifetime model (no unlink of a
// live mapping), so the primitive is not provided there yet.

func CreateRegion(name string, size int) (*Region, error) {
	return nil, ErrNotSupported
}

func AttachRegion(name string) (*Region, error) {
	return nil, ErrNotSupported
}

func (r *Region) Lock() error   { return ErrNotSupported }
func (r *Region) Unlock() error { return ErrNotSupported }
func (r *Region) Detach() error { return ErrNotSupported }
func (r *Region) Unlink() error { return ErrNotSupported }
