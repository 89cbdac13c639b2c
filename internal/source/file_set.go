package source

import (
	"sync"
)

// FileSet maps FileIDs to file paths. Unit payloads store spans keyed by
// FileID; the set restores paths for diagnostic output.
type FileSet struct {
	mu    sync.RWMutex
	files []File
	index map[string]FileID
}

func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 1), // index 0 reserved for NoFileID
		index: make(map[string]FileID),
	}
}

// Add registers a path and returns its FileID. Adding the same path twice
// returns the original ID.
func (fs *FileSet) Add(path string) FileID {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if id, ok := fs.index[path]; ok {
		return id
	}
	id := FileID(len(fs.files))
	fs.files = append(fs.files, File{ID: id, Path: path})
	fs.index[path] = id
	return id
}

// Get returns the file for an ID, or nil if the ID is unknown.
func (fs *FileSet) Get(id FileID) *File {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if id == NoFileID || int(id) >= len(fs.files) {
		return nil
	}
	f := fs.files[id]
	return &f
}

// Path returns the path for an ID, or an empty string if unknown.
func (fs *FileSet) Path(id FileID) string {
	if f := fs.Get(id); f != nil {
		return f.Path
	}
	return ""
}

// Len returns the number of registered files excluding the sentinel.
func (fs *FileSet) Len() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return len(fs.files) - 1
}
