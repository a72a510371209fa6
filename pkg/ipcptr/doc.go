// Package ipcptr shares exactly one instance of a value type between
// independently started processes, placed in OS-backed named shared
// memory with cooperative lifetime management.
//
// The value is constructed once, by whichever process first creates the
// named segment, and destroyed exactly once: unconditionally when the
// creating handle closes, or — after the creator calls DropOwnership —
// by the last handle to detach, tracked with a reference count in the
// segment's control block.
//
// Example usage:
//
//	type Counter struct{ Hits uint64 }
//
//	p, err := ipcptr.CreateOrAttach(ctx, "my-counter", Counter{})
//	if err != nil {
//		// inspect p.Kind() / p.ErrorString()
//	}
//	defer p.Close()
//	if p.IsOwner() {
//		p.DropOwnership() // last one out destroys
//	}
//
//	l := ipcptr.NewLocker(p)
//	p.Get().Hits++
//	l.Release()
//
// Payload types must have a fixed memory layout free of Go pointers;
// the block is raw bytes shared across processes. Payload access is not
// serialized implicitly — bracket concurrent mutation with a Locker.
//
// One sharp edge is kept on purpose: an owner that closes without
// dropping ownership destroys the payload even while other processes are
// attached, leaving them with dangling mappings. See Pointer.Close.
package ipcptr
