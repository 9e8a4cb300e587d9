package fat12

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/tinyfat/fat12/checkpoint"
)

// Attribute bits used by FAT directory entries.
const (
	attrReadOnly  = 0x01
	attrHidden    = 0x02
	attrSystem    = 0x04
	attrVolumeID  = 0x08
	attrDirectory = 0x10
	attrArchive   = 0x20
	attrLongName  = attrReadOnly | attrHidden | attrSystem | attrVolumeID
)

const dirEntrySize = 32

// rawDirEntry is the packed, 32-byte on-disk directory entry.
type rawDirEntry struct {
	Name            [11]byte
	Attr            uint8
	Reserved        uint8
	CreateTimeTenth uint8
	CreateTime      uint16
	CreateDate      uint16
	AccessDate      uint16
	FirstClusterHi  uint16
	ModifyTime      uint16
	ModifyDate      uint16
	FirstClusterLo  uint16
	FileSize        uint32
}

// firstCluster returns the entry's starting cluster. FAT12 images never
// populate FirstClusterHi (there is no cluster high word to speak of below
// FAT32); the uint16 result keeps only FirstClusterLo, so a nonzero
// FirstClusterHi has no effect.
func (e rawDirEntry) firstCluster() uint16 {
	return uint16(uint32(e.FirstClusterHi)<<16 | uint32(e.FirstClusterLo))
}

func decodeRawDirEntry(data []byte) rawDirEntry {
	var e rawDirEntry
	copy(e.Name[:], data[0:11])
	e.Attr = data[11]
	e.Reserved = data[12]
	e.CreateTimeTenth = data[13]
	e.CreateTime = binary.LittleEndian.Uint16(data[14:16])
	e.CreateDate = binary.LittleEndian.Uint16(data[16:18])
	e.AccessDate = binary.LittleEndian.Uint16(data[18:20])
	e.FirstClusterHi = binary.LittleEndian.Uint16(data[20:22])
	e.ModifyTime = binary.LittleEndian.Uint16(data[22:24])
	e.ModifyDate = binary.LittleEndian.Uint16(data[24:26])
	e.FirstClusterLo = binary.LittleEndian.Uint16(data[26:28])
	e.FileSize = binary.LittleEndian.Uint32(data[28:32])
	return e
}

// fatNameCharset is the set of symbols, besides letters and digits, that the
// FAT specification permits in an 8.3 name. The original C source's
// formatName only accepted alphabetic characters, rejecting digits and this
// whole symbol set; per the spec that is treated as a bug and not carried
// forward.
const fatNameCharset = "!#$%&'()-@^_`{}~"

func isValidNameByte(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z':
		return true
	case b >= 'a' && b <= 'z':
		return true
	case b >= '0' && b <= '9':
		return true
	case strings.IndexByte(fatNameCharset, b) >= 0:
		return true
	default:
		return false
	}
}

// formatName renders an 11-byte raw FAT name field as an 8.3 string (e.g.
// "README.TXT"). It returns "" if any populated byte, in either the base or
// the extension, falls outside the accepted FAT charset.
func formatName(raw [11]byte) string {
	baseLen := 0
	for baseLen < 8 && raw[baseLen] != ' ' {
		if !isValidNameByte(raw[baseLen]) {
			return ""
		}
		baseLen++
	}

	name := string(raw[:baseLen])

	extLen := 0
	for extLen < 3 && raw[8+extLen] != ' ' {
		if !isValidNameByte(raw[8+extLen]) {
			return ""
		}
		extLen++
	}

	if extLen > 0 {
		name += "." + string(raw[8:8+extLen])
	}

	return name
}

// DirEntryView is the directory entry as presented to a caller: a formatted
// 8.3 name, size, and the attribute flags the spec exposes.
type DirEntryView struct {
	Name       string
	Size       uint32
	Archived   bool
	ReadOnly   bool
	System     bool
	Hidden     bool
	IsDir      bool
	FirstClust uint16
}

func newDirEntryView(e rawDirEntry, name string) DirEntryView {
	return DirEntryView{
		Name:       name,
		Size:       e.FileSize,
		Archived:   e.Attr&attrArchive != 0,
		ReadOnly:   e.Attr&attrReadOnly != 0,
		System:     e.Attr&attrSystem != 0,
		Hidden:     e.Attr&attrHidden != 0,
		IsDir:      e.Attr&attrDirectory != 0,
		FirstClust: e.firstCluster(),
	}
}

// visible reports whether a raw directory entry is one that dir_read reports
// (OpenFile uses it too, but additionally matches volume labels so it can
// reject them with ErrIsDirectory). It returns false, continue=true for
// deleted entries, LFN fragments, and volume labels, which the iterator
// skips and keeps going past; it returns continue=false once it hits the
// 0x00 end-of-directory marker.
func visible(e rawDirEntry) (ok bool, keepGoing bool) {
	switch {
	case e.Name[0] == 0x00:
		return false, false
	case e.Name[0] == 0xE5:
		return false, true
	case e.Attr&0x0F == attrLongName:
		return false, true
	case e.Attr&attrVolumeID != 0:
		return false, true
	}

	if formatName(e.Name) == "" {
		return false, true
	}

	return true, true
}

// DirHandle iterates the root directory's entry table.
type DirHandle struct {
	entries []rawDirEntry
	cursor  int
}

// OpenRoot reads the complete root directory table and returns a DirHandle
// positioned at its first entry. Per the spec, only the root path is
// supported; any other path is ErrNotFound.
func (v *Volume) OpenRoot() (*DirHandle, error) {
	raw, err := v.readRootDirRaw()
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrIO)
	}

	count := len(raw) / dirEntrySize
	entries := make([]rawDirEntry, count)
	for i := 0; i < count; i++ {
		entries[i] = decodeRawDirEntry(raw[i*dirEntrySize : (i+1)*dirEntrySize])
	}

	return &DirHandle{entries: entries}, nil
}

// OpenDir validates path as the root directory and opens it. Any non-root
// path is rejected with ErrNotFound, per spec (the root is conventionally
// written "\").
func (v *Volume) OpenDir(path string) (*DirHandle, error) {
	if path != `\` {
		return nil, checkpoint.From(fmt.Errorf("%w: %q is not the root", ErrNotFound, path))
	}
	return v.OpenRoot()
}

// Next advances the cursor to the next visible entry and returns its view.
// It returns ErrNotFound-free io.EOF-style sentinel via the bool return: ok
// is false once the directory is exhausted.
func (d *DirHandle) Next() (DirEntryView, bool) {
	for d.cursor < len(d.entries) {
		e := d.entries[d.cursor]
		d.cursor++

		ok, keepGoing := visible(e)
		if ok {
			return newDirEntryView(e, formatName(e.Name)), true
		}
		if !keepGoing {
			d.cursor = len(d.entries)
			return DirEntryView{}, false
		}
	}
	return DirEntryView{}, false
}

// Close releases the handle's owned entry table.
func (d *DirHandle) Close() error {
	*d = DirHandle{}
	return nil
}
