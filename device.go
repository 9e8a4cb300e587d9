package fat12

import (
	"fmt"
	"io"

	"github.com/tinyfat/fat12/checkpoint"
)

// SectorSize is the fixed sector size this reader supports. FAT12 images
// using any other sector size are rejected by the superblock decoder.
const SectorSize = 512

// BlockDevice wraps a seekable byte stream and reports it in fixed 512-byte
// sectors. The sector count is derived once, from the stream's length, at
// open time.
type BlockDevice struct {
	reader      io.ReadSeeker
	sectorCount int64
}

// OpenDevice wraps reader as a BlockDevice, deriving the sector count from
// the stream's length. Mirrors the original source's setBlockCounter, which
// seeks to the end to find the device size independently of whatever the BPB
// later claims it is.
func OpenDevice(reader io.ReadSeeker) (BlockDevice, error) {
	if reader == nil {
		return BlockDevice{}, checkpoint.From(ErrFault)
	}

	length, err := reader.Seek(0, io.SeekEnd)
	if err != nil {
		return BlockDevice{}, checkpoint.Wrap(err, ErrIO)
	}
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return BlockDevice{}, checkpoint.Wrap(err, ErrIO)
	}

	return BlockDevice{
		reader:      reader,
		sectorCount: length / SectorSize,
	}, nil
}

// SectorCount reports the total number of whole sectors available on the
// device.
func (d BlockDevice) SectorCount() int64 {
	return d.sectorCount
}

// Read reads sectors contiguous sectors starting at firstSector into buf,
// which must be at least sectors*SectorSize bytes long. It returns the
// number of whole sectors actually read; a short read from the underlying
// stream is not an error here, the caller decides whether it means EOF.
func (d BlockDevice) Read(firstSector, sectors int64, buf []byte) (int64, error) {
	if firstSector < 0 || sectors < 1 {
		return 0, checkpoint.From(fmt.Errorf("%w: first sector %d, count %d", ErrFault, firstSector, sectors))
	}
	if firstSector+sectors > d.sectorCount {
		return 0, checkpoint.From(fmt.Errorf("%w: sectors %d..%d exceed device of %d sectors",
			ErrOutOfRange, firstSector, firstSector+sectors, d.sectorCount))
	}
	if int64(len(buf)) < sectors*SectorSize {
		return 0, checkpoint.From(fmt.Errorf("%w: buffer too small for %d sectors", ErrFault, sectors))
	}

	if _, err := d.reader.Seek(firstSector*SectorSize, io.SeekStart); err != nil {
		return 0, checkpoint.Wrap(err, ErrIO)
	}

	n, err := io.ReadFull(d.reader, buf[:sectors*SectorSize])
	read := int64(n) / SectorSize
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return read, checkpoint.Wrap(err, ErrIO)
	}
	return read, nil
}

// Close releases the underlying stream if it implements io.Closer. A
// BlockDevice built over a reader without a Close method is a no-op here.
func (d BlockDevice) Close() error {
	if closer, ok := d.reader.(io.Closer); ok {
		return checkpoint.Wrap(closer.Close(), ErrIO)
	}
	return nil
}
