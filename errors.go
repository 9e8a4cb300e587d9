package fat12

import "errors"

// These are the sentinel error kinds a caller can check for with errors.Is.
// Operations that fail return one of these, mostly inside a checkpoint
// annotation (checkpoint.From, or checkpoint.Wrap, which keeps the underlying
// cause reachable via Unwrap); the FS facade returns some of them bare. The
// kind itself is stable API.
var (
	// ErrFault is returned when a caller passes a nil handle, a nil buffer,
	// or otherwise violates an argument precondition.
	ErrFault = errors.New("fat12: invalid argument")

	// ErrNotFound is returned when a name is not present in the root
	// directory, or a non-root path is requested from OpenDir.
	ErrNotFound = errors.New("fat12: not found")

	// ErrIsDirectory is returned when OpenFile resolves a name to a
	// directory or volume-label entry.
	ErrIsDirectory = errors.New("fat12: is a directory")

	// ErrOutOfRange is returned when sector arithmetic would read past the
	// device, or a seek target falls outside [0, file size].
	ErrOutOfRange = errors.New("fat12: out of range")

	// ErrOutOfMemory is returned when an allocation needed to service a
	// request failed.
	ErrOutOfMemory = errors.New("fat12: out of memory")

	// ErrIO is returned when a read from the underlying device failed. A
	// short read is not reported as ErrIO: BlockDevice.Read returns the
	// short sector count without an error.
	ErrIO = errors.New("fat12: i/o error")

	// ErrBadSignature is returned when the boot sector's 0xAA55 signature is
	// missing.
	ErrBadSignature = errors.New("fat12: bad boot sector signature")

	// ErrCorrupt is returned for FAT chain violations (reserved/bad/free
	// entries inside a chain, runaway chains) and BPB invariant violations.
	ErrCorrupt = errors.New("fat12: corrupt filesystem")

	// ErrNotSupported is returned by the afero-shaped facade's mutation
	// methods; this reader never writes.
	ErrNotSupported = errors.New("fat12: not supported")
)
