package filesystem

import (
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrFileNotFound = errors.New("filesystem: file not found")
	ErrInvalidPath  = errors.New("filesystem: invalid path")
)

type Reader interface {
	ReadFile(path string) ([]byte, error)
}

type Writer interface {
	WriteFile(path string, content []byte) error
}

type Filesystem interface {
	Reader
	Writer
}

type localFilesystem struct{}

var _ Filesystem = localFilesystem{}

func NewLocalFilesystem() Filesystem { return localFilesystem{} }

func (localFilesystem) ReadFile(path string) ([]byte, error) {
	if path == "" {
		return nil, ErrInvalidPath
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(ErrFileNotFound, path)
	}
	return content, errors.Wrapf(err, "reading %s", path)
}

// WriteFile replaces the content of path, creating missing parent
// directories.
func (localFilesystem) WriteFile(path string, content []byte) error {
	if path == "" {
		return ErrInvalidPath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o770); err != nil {
		return errors.Wrap(err, "creating parent directory")
	}
	return errors.Wrapf(os.WriteFile(path, content, 0o644), "writing %s", path)
}

type memoryFilesystem struct {
	mu    sync.Mutex
	files map[string][]byte
}

var _ Filesystem = (*memoryFilesystem)(nil)

// NewMemoryFilesystem keeps files in a map. The initial set is copied.
func NewMemoryFilesystem(files map[string][]byte) *memoryFilesystem {
	m := &memoryFilesystem{files: make(map[string][]byte, len(files))}
	for path, content := range files {
		m.files[path] = slices.Clone(content)
	}
	return m
}

func (m *memoryFilesystem) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	content, ok := m.files[path]
	if !ok {
		return nil, errors.Wrap(ErrFileNotFound, path)
	}
	return slices.Clone(content), nil
}

func (m *memoryFilesystem) WriteFile(path string, content []byte) error {
	if path == "" {
		return ErrInvalidPath
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[path] = slices.Clone(content)
	return nil
}

// Paths lists stored paths, sorted.
func (m *memoryFilesystem) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Sorted(maps.Keys(m.files))
}
