package fat12

import (
	"encoding/binary"
	"fmt"

	"github.com/tinyfat/fat12/checkpoint"
)

// bootSectorSignature is the required value of the last two bytes of sector 0.
const bootSectorSignature = 0xAA55

// Byte offsets of the BPB fields this reader uses. Matches the standard FAT
// BIOS Parameter Block layout (and the original source's packed
// superblock_t): bytes_per_sector at 11, sectors_per_cluster at 13, and so
// on through the 0xAA55 signature at 510.
const (
	offBytesPerSector      = 11
	offSectorsPerCluster   = 13
	offReservedSectorCount = 14
	offFATsCount           = 16
	offRootEntryCount      = 17
	offTotalSectors16      = 19
	offSectorsPerFAT       = 22
	offTotalSectors32      = 32
	offSignature           = 510
)

// Superblock is the bit-exact decode of a FAT12 BIOS Parameter Block,
// restricted to the fields the core of this reader uses.
type Superblock struct {
	BytesPerSector      uint16
	SectorsPerCluster   uint8
	ReservedSectorCount uint16
	FATsCount           uint8
	RootDirCapacity     uint16
	TotalSectors        uint32
	SectorsPerFAT       uint16
	Signature           uint16
}

// decodeSuperblock parses and validates sector 0 (sector) into a Superblock.
// It performs no heuristic repair: any invariant violation is reported as
// ErrCorrupt, and a signature mismatch as ErrBadSignature. Fields are read
// little-endian at fixed byte offsets, matching the BPB layout bit-exactly.
func decodeSuperblock(sector []byte) (Superblock, error) {
	if len(sector) != SectorSize {
		return Superblock{}, checkpoint.From(fmt.Errorf("%w: short boot sector", ErrCorrupt))
	}

	signature := binary.LittleEndian.Uint16(sector[offSignature:])
	if signature != bootSectorSignature {
		return Superblock{}, checkpoint.From(fmt.Errorf("%w: got 0x%04X", ErrBadSignature, signature))
	}

	sb := Superblock{
		BytesPerSector:      binary.LittleEndian.Uint16(sector[offBytesPerSector:]),
		SectorsPerCluster:   sector[offSectorsPerCluster],
		ReservedSectorCount: binary.LittleEndian.Uint16(sector[offReservedSectorCount:]),
		FATsCount:           sector[offFATsCount],
		RootDirCapacity:     binary.LittleEndian.Uint16(sector[offRootEntryCount:]),
		SectorsPerFAT:       binary.LittleEndian.Uint16(sector[offSectorsPerFAT:]),
		Signature:           signature,
	}

	totalSectors16 := binary.LittleEndian.Uint16(sector[offTotalSectors16:])
	if totalSectors16 != 0 {
		sb.TotalSectors = uint32(totalSectors16)
	} else {
		sb.TotalSectors = binary.LittleEndian.Uint32(sector[offTotalSectors32:])
	}

	if err := sb.validate(); err != nil {
		return Superblock{}, err
	}

	return sb, nil
}

func (sb Superblock) validate() error {
	if sb.BytesPerSector != SectorSize {
		return checkpoint.From(fmt.Errorf("%w: bytes per sector %d, want %d", ErrCorrupt, sb.BytesPerSector, SectorSize))
	}
	if sb.SectorsPerCluster < 1 || sb.SectorsPerCluster&(sb.SectorsPerCluster-1) != 0 {
		return checkpoint.From(fmt.Errorf("%w: sectors per cluster %d is not a power of two >= 1", ErrCorrupt, sb.SectorsPerCluster))
	}
	if sb.ReservedSectorCount < 1 {
		return checkpoint.From(fmt.Errorf("%w: reserved sector count %d", ErrCorrupt, sb.ReservedSectorCount))
	}
	if sb.FATsCount < 1 {
		return checkpoint.From(fmt.Errorf("%w: FAT count %d", ErrCorrupt, sb.FATsCount))
	}
	if sb.SectorsPerFAT == 0 {
		return checkpoint.From(fmt.Errorf("%w: sectors per FAT is 0", ErrCorrupt))
	}
	if sb.TotalSectors == 0 {
		return checkpoint.From(fmt.Errorf("%w: total sectors is 0", ErrCorrupt))
	}
	return nil
}

// rootDirSectors returns the number of sectors occupied by the fixed-size
// root directory: ceil(root_dir_capacity * 32 / SectorSize).
func (sb Superblock) rootDirSectors() uint32 {
	return (uint32(sb.RootDirCapacity)*32 + (SectorSize - 1)) / SectorSize
}
