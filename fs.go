package fat12

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// FS adapts a Volume to the read half of afero.Fs, the same contract the
// teacher's own Fs type implements for FAT16/32. Every mutating method
// returns ErrNotSupported: this reader never writes, and turning the
// teacher's panic("implement me") stubs into a real "not supported" error is
// one of the rough edges this rewrite polishes.
type FS struct {
	volume *Volume
}

// NewFS wraps volume as an afero.Fs-shaped read-only filesystem.
func NewFS(volume *Volume) *FS {
	return &FS{volume: volume}
}

var _ afero.Fs = (*FS)(nil)

func (f *FS) Name() string { return "FAT12" }

// Open resolves path against the root directory. Only the root itself and
// single-component names directly under it are supported; per spec,
// subdirectory traversal is out of scope, so any deeper path is ErrNotFound.
func (f *FS) Open(path string) (afero.File, error) {
	clean := strings.Trim(filepath.ToSlash(path), "/")
	if clean == "" || clean == "." {
		return &rootFile{dir: nil, volume: f.volume}, nil
	}

	if strings.Contains(clean, "/") {
		return nil, ErrNotFound
	}

	handle, err := f.volume.OpenFile(clean)
	if err != nil {
		return nil, err
	}

	return &fatFile{name: clean, handle: handle}, nil
}

func (f *FS) OpenFile(name string, _ int, _ os.FileMode) (afero.File, error) {
	return f.Open(name)
}

func (f *FS) Stat(name string) (os.FileInfo, error) {
	file, err := f.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return file.Stat()
}

func (f *FS) Create(string) (afero.File, error)           { return nil, ErrNotSupported }
func (f *FS) Mkdir(string, os.FileMode) error             { return ErrNotSupported }
func (f *FS) MkdirAll(string, os.FileMode) error          { return ErrNotSupported }
func (f *FS) Remove(string) error                         { return ErrNotSupported }
func (f *FS) RemoveAll(string) error                      { return ErrNotSupported }
func (f *FS) Rename(string, string) error                 { return ErrNotSupported }
func (f *FS) Chmod(string, os.FileMode) error             { return ErrNotSupported }
func (f *FS) Chown(string, int, int) error                { return ErrNotSupported }
func (f *FS) Chtimes(string, time.Time, time.Time) error  { return ErrNotSupported }

// rootFileInfo implements os.FileInfo for the synthetic root directory
// entry, which has no backing rawDirEntry of its own.
type rootFileInfo struct{}

func (rootFileInfo) Name() string       { return "/" }
func (rootFileInfo) Size() int64        { return 0 }
func (rootFileInfo) Mode() os.FileMode  { return os.ModeDir }
func (rootFileInfo) ModTime() time.Time { return time.Time{} }
func (rootFileInfo) IsDir() bool        { return true }
func (rootFileInfo) Sys() interface{}   { return nil }

// entryFileInfo adapts a DirEntryView to os.FileInfo.
type entryFileInfo struct {
	view DirEntryView
}

func (e entryFileInfo) Name() string { return e.view.Name }
func (e entryFileInfo) Size() int64  { return int64(e.view.Size) }
func (e entryFileInfo) Mode() os.FileMode {
	if e.view.IsDir {
		return os.ModeDir
	}
	if e.view.ReadOnly {
		return 0o444
	}
	return 0o644
}
func (e entryFileInfo) ModTime() time.Time { return time.Time{} }
func (e entryFileInfo) IsDir() bool        { return e.view.IsDir }
func (e entryFileInfo) Sys() interface{}   { return e.view }

// rootFile is the afero.File returned for the root path. It lazily opens a
// DirHandle on first Readdir call.
type rootFile struct {
	dir    *DirHandle
	volume *Volume
}

var _ afero.File = (*rootFile)(nil)

func (r *rootFile) Name() string { return "/" }
func (r *rootFile) Stat() (os.FileInfo, error) { return rootFileInfo{}, nil }

func (r *rootFile) Readdir(count int) ([]os.FileInfo, error) {
	if r.dir == nil {
		d, err := r.volume.OpenRoot()
		if err != nil {
			return nil, err
		}
		r.dir = d
	}

	var out []os.FileInfo
	for count <= 0 || len(out) < count {
		view, ok := r.dir.Next()
		if !ok {
			break
		}
		out = append(out, entryFileInfo{view})
	}
	return out, nil
}

func (r *rootFile) Readdirnames(n int) ([]string, error) {
	infos, err := r.Readdir(n)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name()
	}
	return names, nil
}

func (r *rootFile) Close() error { r.dir = nil; return nil }

func (r *rootFile) Read([]byte) (int, error)           { return 0, ErrIsDirectory }
func (r *rootFile) ReadAt([]byte, int64) (int, error)  { return 0, ErrIsDirectory }
func (r *rootFile) Seek(int64, int) (int64, error)     { return 0, ErrIsDirectory }
func (r *rootFile) Write([]byte) (int, error)          { return 0, ErrNotSupported }
func (r *rootFile) WriteAt([]byte, int64) (int, error) { return 0, ErrNotSupported }
func (r *rootFile) WriteString(string) (int, error)    { return 0, ErrNotSupported }
func (r *rootFile) Sync() error                        { return nil }
func (r *rootFile) Truncate(int64) error               { return ErrNotSupported }

// fatFile adapts a FileHandle to afero.File.
type fatFile struct {
	name   string
	handle *FileHandle
}

var _ afero.File = (*fatFile)(nil)

func (f *fatFile) Name() string                              { return f.name }
func (f *fatFile) Read(p []byte) (int, error)                { return f.handle.Read(p) }
func (f *fatFile) ReadAt(p []byte, off int64) (int, error)   { return f.handle.ReadAt(p, off) }
func (f *fatFile) Seek(off int64, whence int) (int64, error) { return f.handle.Seek(off, whence) }
func (f *fatFile) Close() error                              { return f.handle.Close() }
func (f *fatFile) Stat() (os.FileInfo, error) {
	return entryFileInfo{newDirEntryView(f.handle.entry, f.name)}, nil
}
func (f *fatFile) Readdir(int) ([]os.FileInfo, error) { return nil, ErrNotSupported }
func (f *fatFile) Readdirnames(int) ([]string, error) { return nil, ErrNotSupported }
func (f *fatFile) Write([]byte) (int, error)          { return 0, ErrNotSupported }
func (f *fatFile) WriteAt([]byte, int64) (int, error) { return 0, ErrNotSupported }
func (f *fatFile) WriteString(string) (int, error)    { return 0, ErrNotSupported }
func (f *fatFile) Sync() error                        { return nil }
func (f *fatFile) Truncate(int64) error               { return ErrNotSupported }
