package static

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileSystem is an http.FileSystem confined to a root directory.
type FileSystem struct {
	root string
	base *afero.BasePathFs
}

// NewFileSystem confines access to root on the OS filesystem.
func NewFileSystem(root string) *FileSystem {
	return NewFileSystemFrom(afero.NewOsFs(), root)
}

// NewFileSystemFrom confines access to root on fs.
func NewFileSystemFrom(fs afero.Fs, root string) *FileSystem {
	return &FileSystem{
		root: root,
		base: afero.NewBasePathFs(fs, root).(*afero.BasePathFs),
	}
}

// Root returns the directory files are served from.
func (f *FileSystem) Root() string {
	return f.root
}

// Anchor cleans a request path and roots it at "/". Any ".." that would climb
// above the root is dropped.
func Anchor(name string) string {
	return path.Clean("/" + name)
}

// Resolve maps a request path to a location on disk under the root.
func (f *FileSystem) Resolve(name string) (string, error) {
	resolved, err := f.base.RealPath(filepath.FromSlash(Anchor(name)))
	if err != nil {
		return "", os.ErrNotExist
	}
	return resolved, nil
}

// Open implements http.FileSystem.
func (f *FileSystem) Open(name string) (http.File, error) {
	if _, err := f.Resolve(name); err != nil {
		return nil, err
	}

	file, err := f.base.Open(filepath.FromSlash(Anchor(name)))
	if err != nil {
		return nil, err
	}
	return file, nil
}

// Handler serves the root directory with the standard file server: index.html
// and directory listings for directories, 404 for anything missing.
func Handler(root string) http.Handler {
	return http.FileServer(NewFileSystem(root))
}
