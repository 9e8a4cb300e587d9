package fat12

import (
	"encoding/binary"
	"io"
	"testing"

	"github.com/spf13/afero"
)

// bpbParams describes the handful of BPB fields this reader cares about; the
// rest of the boot sector is left zeroed, as real images would leave boot
// code and OEM strings irrelevant to the core decode.
type bpbParams struct {
	bytesPerSector    uint16
	sectorsPerCluster uint8
	reservedSectors   uint16
	fatsCount         uint8
	rootEntryCount    uint16
	totalSectors      uint32
	sectorsPerFAT     uint16
	signature         uint16 // 0 means "use the correct signature"
}

func buildBootSector(p bpbParams) []byte {
	sector := make([]byte, SectorSize)
	binary.LittleEndian.PutUint16(sector[offBytesPerSector:], p.bytesPerSector)
	sector[offSectorsPerCluster] = p.sectorsPerCluster
	binary.LittleEndian.PutUint16(sector[offReservedSectorCount:], p.reservedSectors)
	sector[offFATsCount] = p.fatsCount
	binary.LittleEndian.PutUint16(sector[offRootEntryCount:], p.rootEntryCount)
	binary.LittleEndian.PutUint16(sector[offSectorsPerFAT:], p.sectorsPerFAT)

	if p.totalSectors <= 0xFFFF {
		binary.LittleEndian.PutUint16(sector[offTotalSectors16:], uint16(p.totalSectors))
	} else {
		binary.LittleEndian.PutUint32(sector[offTotalSectors32:], p.totalSectors)
	}

	sig := p.signature
	if sig == 0 {
		sig = bootSectorSignature
	}
	binary.LittleEndian.PutUint16(sector[offSignature:], sig)

	return sector
}

// buildFAT12 packs a map of cluster number -> next-cluster value into a FAT12
// table of sizeBytes bytes, using the same even/odd nibble layout the chain
// walker decodes. Keys 0 and 1 correspond to clusters 0 and 1, which
// are reserved and conventionally left 0xFF0/0xFFF; callers normally start
// populating from index 2.
func buildFAT12(entries map[uint16]uint16, sizeBytes int) []byte {
	fat := make([]byte, sizeBytes)
	for cluster, next := range entries {
		bytePos := (uint32(cluster) * 3) / 2
		cur := binary.LittleEndian.Uint16(padTwo(fat, int(bytePos)))

		if cluster%2 == 0 {
			cur = (cur &^ 0x0FFF) | (next & 0x0FFF)
		} else {
			cur = (cur &^ 0xFFF0) | ((next & 0x0FFF) << 4)
		}

		fat[bytePos] = byte(cur)
		fat[bytePos+1] = byte(cur >> 8)
	}
	return fat
}

// padTwo reads two bytes at off from buf, treating a read that would run off
// the end as zero; buildFAT12 only uses this to seed the read-modify-write
// of the 12-bit nibble pairs.
func padTwo(buf []byte, off int) []byte {
	if off+2 <= len(buf) {
		return buf[off : off+2]
	}
	tmp := make([]byte, 2)
	copy(tmp, buf[off:])
	return tmp
}

// buildDirEntry builds one 32-byte raw directory entry. name must already be
// the 11-byte padded 8.3 form (use pad83).
func buildDirEntry(name [11]byte, attr byte, firstCluster uint16, size uint32) []byte {
	e := make([]byte, dirEntrySize)
	copy(e[0:11], name[:])
	e[11] = attr
	binary.LittleEndian.PutUint16(e[20:22], uint16(firstCluster>>16))
	binary.LittleEndian.PutUint16(e[26:28], firstCluster)
	binary.LittleEndian.PutUint32(e[28:32], size)
	return e
}

// pad83 renders base(.ext) as a space-padded 11-byte raw name field.
func pad83(base, ext string) [11]byte {
	var out [11]byte
	for i := range out {
		out[i] = ' '
	}
	copy(out[0:8], base)
	copy(out[8:11], ext)
	return out
}

// testImage assembles a complete FAT12 image byte-for-byte: boot sector,
// one FAT per fatsCount, the root directory, then raw data clusters placed
// exactly where the layout says they must go.
type testImage struct {
	params   bpbParams
	fat      []byte
	rootDir  []byte
	clusters map[uint16][]byte // cluster number -> exactly bytesPerCluster bytes
}

func (ti testImage) bytesPerCluster() int {
	return int(ti.params.sectorsPerCluster) * SectorSize
}

func (ti testImage) build() []byte {
	fatSectorBytes := int(ti.params.sectorsPerFAT) * SectorSize
	rootDirSectors := int((uint32(ti.params.rootEntryCount)*32 + SectorSize - 1) / SectorSize)
	rootDirBytes := rootDirSectors * SectorSize

	dataStartSector := int(ti.params.reservedSectors) + int(ti.params.fatsCount)*int(ti.params.sectorsPerFAT) + rootDirSectors

	maxCluster := uint16(1)
	for c := range ti.clusters {
		if c > maxCluster {
			maxCluster = c
		}
	}
	dataSectors := (int(maxCluster)-2+1)*int(ti.params.sectorsPerCluster) + int(ti.params.sectorsPerCluster)

	totalSectors := dataStartSector + dataSectors
	total := make([]byte, totalSectors*SectorSize)

	if ti.params.totalSectors == 0 {
		ti.params.totalSectors = uint32(totalSectors)
	}
	copy(total[0:SectorSize], buildBootSector(ti.params))

	fatStart := int(ti.params.reservedSectors) * SectorSize
	for i := 0; i < int(ti.params.fatsCount); i++ {
		fatBuf := make([]byte, fatSectorBytes)
		copy(fatBuf, ti.fat)
		copy(total[fatStart+i*fatSectorBytes:], fatBuf)
	}

	rootStart := fatStart + int(ti.params.fatsCount)*fatSectorBytes
	rootBuf := make([]byte, rootDirBytes)
	copy(rootBuf, ti.rootDir)
	copy(total[rootStart:], rootBuf)

	bpc := ti.bytesPerCluster()
	for cluster, data := range ti.clusters {
		offset := (dataStartSector * SectorSize) + int(cluster-2)*bpc
		copy(total[offset:offset+bpc], data)
	}

	return total
}

// openTestVolume writes image to an in-memory afero filesystem and opens it
// as a Volume, the in-memory equivalent of the teacher's testdata images
// (which this module has no mkfs step to regenerate).
func openTestVolume(t *testing.T, image []byte) (*Volume, io.Closer) {
	t.Helper()

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "image.img", image, 0o644); err != nil {
		t.Fatalf("write test image: %v", err)
	}

	f, err := fs.Open("image.img")
	if err != nil {
		t.Fatalf("open test image: %v", err)
	}

	device, err := OpenDevice(f)
	if err != nil {
		t.Fatalf("OpenDevice: %v", err)
	}

	volume, err := Open(device, 0)
	if err != nil {
		t.Fatalf("Open volume: %v", err)
	}

	return volume, f
}
