//go:build linux || darwin

package shm

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// CreateRegion creates the named segment with exactly size bytes and maps
// it read-write. Creation is atomic create-or-fail: if the name already
// exists the call fails with ErrAlreadyExists and no attacher can observe
// a half-initialized segment.
func CreateRegion(name string, size int) (*Region, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("shm: invalid segment size %d", size)
	}
	path := regionPath(name)
	if !canCreateAt(path, uint64(size)) {
		return nil, fmt.Errorf("%w: no space left for %d bytes at %s", ErrSystemLimit, size, path)
	}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT|unix.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create %q: %w", name, mapErrno(err))
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		_ = unix.Close(fd)
		_ = os.Remove(path)
		return nil, fmt.Errorf("truncate %q to %d bytes: %w", name, size, mapErrno(err))
	}
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		_ = os.Remove(path)
		return nil, fmt.Errorf("mmap %q: %w", name, mapErrno(err))
	}
	return &Region{
		name:     name,
		path:     path,
		data:     data,
		fd:       fd,
		size:     size,
		created:  true,
		attached: true,
	}, nil
}

// AttachRegion maps an existing named segment read-write, at whatever size
// the OS reports for it. Size validation against the expected layout is
// the caller's job.
func AttachRegion(name string) (*Region, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	path := regionPath(name)
	fd, err := unix.Open(path, unix.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("attach %q: %w", name, mapErrno(err))
	}
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("stat %q: %w", name, mapErrno(err))
	}
	size := int(st.Size)
	if size <= 0 {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("attach %q: segment has zero size", name)
	}
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("mmap %q: %w", name, mapErrno(err))
	}
	return &Region{
		name:     name,
		path:     path,
		data:     data,
		fd:       fd,
		size:     size,
		attached: true,
	}, nil
}

// Lock takes the segment's exclusive cross-process lock, blocking until it
// is available. The lock is per open file description, so every Region
// holds and releases it independently even within one process.
func (r *Region) Lock() error {
	if !r.attached {
		return ErrNotAttached
	}
	if err := unix.Flock(r.fd, unix.LOCK_EX); err != nil {
		return fmt.Errorf("lock %q: %w", r.name, mapErrno(err))
	}
	return nil
}

// Unlock releases the segment lock. Releasing a lock that is not held is
// not an error at the flock level and is treated the same here.
func (r *Region) Unlock() error {
	if !r.attached {
		return ErrNotAttached
	}
	if err := unix.Flock(r.fd, unix.LOCK_UN); err != nil {
		return fmt.Errorf("unlock %q: %w", r.name, mapErrno(err))
	}
	return nil
}

// Detach unmaps the segment and closes its descriptor. The segment itself
// survives until someone calls Unlink. Detach is idempotent.
func (r *Region) Detach() error {
	if !r.attached {
		return nil
	}
	r.attached = false
	err := unix.Munmap(r.data)
	r.data = nil
	r.size = 0
	if cerr := unix.Close(r.fd); err == nil {
		err = cerr
	}
	r.fd = -1
	if err != nil {
		return fmt.Errorf("detach %q: %w", r.name, mapErrno(err))
	}
	return nil
}

// Unlink removes the segment's name so later attaches fail with
// ErrNotFound. Existing mappings stay valid until they detach. A name that
// is already gone is not an error.
func (r *Region) Unlink() error {
	err := os.Remove(r.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("unlink %q: %w", r.name, err)
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("shm: empty segment name")
	}
	for i := 0; i < len(name); i++ {
		if name[i] == '/' || name[i] == 0 {
			return fmt.Errorf("shm: segment name %q contains %q", name, name[i])
		}
	}
	return nil
}

func mapErrno(err error) error {
	errno, ok := err.(unix.Errno)
	if !ok {
		if pe, isPath := err.(*os.PathError); isPath {
			return mapErrno(pe.Err)
		}
		return err
	}
	switch errno {
	case unix.EEXIST:
		return ErrAlreadyExists
	case unix.ENOENT:
		return ErrNotFound
	case unix.EACCES, unix.EPERM:
		return ErrPermissionDenied
	case unix.ENOSPC, unix.EMFILE, unix.ENFILE, unix.ENOMEM:
		return fmt.Errorf("%w: %s", ErrSystemLimit, errno.Error())
	default:
		return err
	}
}
