package fat12

import (
	"fmt"
	"io"

	"github.com/tinyfat/fat12/checkpoint"
)

// clusterSource is the narrow interface FileHandle needs from a Volume to
// service reads. Factoring it out this way — rather than having FileHandle
// hold a *Volume directly — is what lets the read engine's tests mock the
// device/FAT/layout machinery out, the same shape as the teacher's
// fatFileFs interface mocked in its own file_test.go.
type clusterSource interface {
	readClusterRange(chain clusterChain, bytesPerCluster uint32, offset, want int64) ([]byte, error)
}

// readClusterRange reads up to want bytes of file data starting at logical
// offset, walking chain to find the right cluster(s) and mapping each one to
// its physical sector range. It returns fewer than want bytes only at the end
// of the chain (len(chain)*bytesPerCluster reached) or on a device error, in which
// case the error is also returned alongside whatever was read so far.
func (v *Volume) readClusterRange(chain clusterChain, bytesPerCluster uint32, offset, want int64) ([]byte, error) {
	if want <= 0 {
		return nil, nil
	}

	out := make([]byte, 0, want)
	pos := offset

	for int64(len(out)) < want {
		ci := pos / int64(bytesPerCluster)
		co := pos % int64(bytesPerCluster)

		if ci >= int64(len(chain)) {
			break
		}

		sector := v.clusterSector(chain[ci]) + uint32(co/SectorSize)
		sectorOffset := co % SectorSize

		chunk := want - int64(len(out))
		if remaining := int64(bytesPerCluster) - co; chunk > remaining {
			chunk = remaining
		}

		sectorsNeeded := (sectorOffset + chunk + SectorSize - 1) / SectorSize
		scratch := make([]byte, sectorsNeeded*SectorSize)
		if _, err := v.device.Read(int64(sector), sectorsNeeded, scratch); err != nil {
			return out, checkpoint.Wrap(err, ErrIO)
		}

		out = append(out, scratch[sectorOffset:sectorOffset+chunk]...)
		pos += chunk
	}

	return out, nil
}

// FileHandle is a read-only, seekable view of one file's data, resolved via
// its directory entry and its full cluster chain at open time.
type FileHandle struct {
	fs    clusterSource
	entry rawDirEntry
	chain clusterChain
	bpc   uint32
	pos   int64
}

// OpenFile looks up name in the root directory, resolves its cluster chain,
// and returns a FileHandle positioned at offset 0. Matching is byte-exact
// against the formatted 8.3 name, case-sensitively, per spec.
func (v *Volume) OpenFile(name string) (*FileHandle, error) {
	raw, err := v.readRootDirRaw()
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrIO)
	}

	count := len(raw) / dirEntrySize
	var found *rawDirEntry
	for i := 0; i < count; i++ {
		e := decodeRawDirEntry(raw[i*dirEntrySize : (i+1)*dirEntrySize])
		if e.Name[0] == 0x00 {
			break
		}
		if ok, _ := visible(e); !ok {
			// Volume labels are hidden from DirHandle but still matched
			// here, so that naming one reports ErrIsDirectory.
			isLabel := e.Name[0] != 0xE5 && e.Attr&0x0F != attrLongName && e.Attr&attrVolumeID != 0
			if !isLabel {
				continue
			}
		}
		if formatName(e.Name) == name {
			entry := e
			found = &entry
			break
		}
	}

	if found == nil {
		return nil, checkpoint.From(fmt.Errorf("%w: %q", ErrNotFound, name))
	}
	if found.Attr&(attrDirectory|attrVolumeID) != 0 {
		return nil, checkpoint.From(fmt.Errorf("%w: %q", ErrIsDirectory, name))
	}

	fat, err := v.readFAT()
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrIO)
	}

	chain, err := buildChain(fat, found.firstCluster(), v.dataClusterCount())
	if err != nil {
		return nil, err
	}
	if len(chain) == 0 && found.FileSize > 0 {
		return nil, checkpoint.From(fmt.Errorf("%w: %q has size %d but an empty cluster chain", ErrCorrupt, name, found.FileSize))
	}

	return &FileHandle{
		fs:    v,
		entry: *found,
		chain: chain,
		bpc:   v.bytesPerCluster,
	}, nil
}

// Size returns the file's size as recorded in its directory entry.
func (f *FileHandle) Size() int64 {
	return int64(f.entry.FileSize)
}

// Read reads into p starting at the current position, advancing it by the
// number of bytes delivered. It returns io.EOF once the position reaches the
// file's size.
func (f *FileHandle) Read(p []byte) (int, error) {
	n, err := f.ReadAt(p, f.pos)
	f.pos += int64(n)
	return n, err
}

// ReadAt reads into p starting at off without touching the handle's current
// position, as io.ReaderAt requires. It returns io.EOF when off is at or past
// the file's size, or when off+len(p) exceeds it so fewer than len(p) bytes
// are delivered; a read that ends exactly at the size returns a nil error.
func (f *FileHandle) ReadAt(p []byte, off int64) (int, error) {
	if f == nil || p == nil {
		return 0, checkpoint.From(ErrFault)
	}

	size := f.Size()
	if off >= size {
		return 0, io.EOF
	}

	want := int64(len(p))
	if off+want > size {
		want = size - off
	}

	data, err := f.fs.readClusterRange(f.chain, f.bpc, off, want)
	n := copy(p, data)

	if err != nil {
		return n, err
	}
	if int64(n) < int64(len(p)) && off+int64(n) >= size {
		return n, io.EOF
	}
	return n, nil
}

// Seek repositions the handle. The resulting position must satisfy
// 0 <= pos <= size; otherwise the position is left unchanged and
// ErrOutOfRange is returned.
func (f *FileHandle) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = f.pos + offset
	case io.SeekEnd:
		target = f.Size() + offset
	default:
		return f.pos, checkpoint.From(fmt.Errorf("%w: invalid whence %d", ErrFault, whence))
	}

	if target < 0 || target > f.Size() {
		return f.pos, checkpoint.From(fmt.Errorf("%w: seek to %d outside [0, %d]", ErrOutOfRange, target, f.Size()))
	}

	f.pos = target
	return f.pos, nil
}

// Close releases the handle's owned cluster chain and directory entry copy.
func (f *FileHandle) Close() error {
	*f = FileHandle{}
	return nil
}
