package fat12

import (
	"fmt"

	"github.com/tinyfat/fat12/checkpoint"
)

// Volume binds a BlockDevice to the Superblock decoded from it and caches
// every layout offset (in sectors) derived from the two, so no later
// operation has to re-derive them.
type Volume struct {
	device     BlockDevice
	superblock Superblock

	fatStart        uint32 // first sector of the first FAT
	rootDirStart    uint32 // first sector of the root directory
	rootDirSectors  uint32
	dataStart       uint32 // first sector of cluster 2
	bytesPerCluster uint32
}

// Open reads the superblock from firstSector of device (typically 0),
// validates it, and computes the volume's layout. It does not close device
// on error; the caller owns that.
func Open(device BlockDevice, firstSector int64) (*Volume, error) {
	buf := make([]byte, SectorSize)
	if _, err := device.Read(firstSector, 1, buf); err != nil {
		return nil, checkpoint.Wrap(err, ErrIO)
	}

	sb, err := decodeSuperblock(buf)
	if err != nil {
		return nil, err
	}

	rootDirSectors := sb.rootDirSectors()
	fatStart := uint32(firstSector) + uint32(sb.ReservedSectorCount)
	rootDirStart := fatStart + uint32(sb.FATsCount)*uint32(sb.SectorsPerFAT)
	dataStart := rootDirStart + rootDirSectors

	if int64(dataStart) > device.SectorCount() {
		return nil, checkpoint.From(fmt.Errorf("%w: data region starts at sector %d but device has only %d",
			ErrCorrupt, dataStart, device.SectorCount()))
	}

	return &Volume{
		device:          device,
		superblock:      sb,
		fatStart:        fatStart,
		rootDirStart:    rootDirStart,
		rootDirSectors:  rootDirSectors,
		dataStart:       dataStart,
		bytesPerCluster: uint32(sb.SectorsPerCluster) * SectorSize,
	}, nil
}

// Close releases the volume's owned superblock bookkeeping. It does not
// close the underlying BlockDevice, which the caller may still be using.
func (v *Volume) Close() error {
	*v = Volume{}
	return nil
}

// Superblock returns a copy of the volume's decoded superblock.
func (v *Volume) Superblock() Superblock {
	return v.superblock
}

// dataClusterCount returns the number of addressable data clusters,
// used by the chain walker to bound chain length against runaway chains.
func (v *Volume) dataClusterCount() uint32 {
	total := v.device.SectorCount()
	if total <= int64(v.dataStart) {
		return 0
	}
	dataSectors := uint32(total) - v.dataStart
	return dataSectors / uint32(v.superblock.SectorsPerCluster)
}

// clusterSector returns the first sector of cluster number n (n >= 2).
func (v *Volume) clusterSector(n uint16) uint32 {
	return v.dataStart + (uint32(n)-2)*uint32(v.superblock.SectorsPerCluster)
}

// readFAT reads exactly one FAT (sectorsPerFAT sectors starting at
// fatStart) into a freshly allocated buffer.
func (v *Volume) readFAT() ([]byte, error) {
	sectors := int64(v.superblock.SectorsPerFAT)
	buf := make([]byte, sectors*SectorSize)
	if _, err := v.device.Read(int64(v.fatStart), sectors, buf); err != nil {
		return nil, checkpoint.Wrap(err, ErrIO)
	}
	return buf, nil
}

// readRootDirRaw reads the whole root directory table into a freshly
// allocated buffer of rootDirCapacity*32 bytes.
func (v *Volume) readRootDirRaw() ([]byte, error) {
	buf := make([]byte, int64(v.rootDirSectors)*SectorSize)
	if _, err := v.device.Read(int64(v.rootDirStart), int64(v.rootDirSectors), buf); err != nil {
		return nil, checkpoint.Wrap(err, ErrIO)
	}
	return buf[:uint32(v.superblock.RootDirCapacity)*32], nil
}
