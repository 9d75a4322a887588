package filesystem

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type FilesystemTestSuite struct {
	suite.Suite

	fs   Filesystem
	root string
}

func (s *FilesystemTestSuite) TestWriteThenRead() {
	path := filepath.Join(s.root, "dir", "a.txt")

	s.Require().NoError(s.fs.WriteFile(path, []byte("hello")))

	content, err := s.fs.ReadFile(path)
	s.Require().NoError(err)
	s.Equal([]byte("hello"), content)
}

func (s *FilesystemTestSuite) TestOverwrite() {
	path := filepath.Join(s.root, "b.bin")

	s.Require().NoError(s.fs.WriteFile(path, []byte("first")))
	s.Require().NoError(s.fs.WriteFile(path, []byte("2")))

	content, err := s.fs.ReadFile(path)
	s.Require().NoError(err)
	s.Equal([]byte("2"), content)
}

func (s *FilesystemTestSuite) TestReadMissing() {
	_, err := s.fs.ReadFile(filepath.Join(s.root, "missing"))
	s.ErrorIs(err, ErrFileNotFound)
}

func (s *FilesystemTestSuite) TestEmptyPath() {
	s.ErrorIs(s.fs.WriteFile("", nil), ErrInvalidPath)
}

type localFilesystemTestSuite struct{ FilesystemTestSuite }

func TestLocalFilesystemTestSuite(t *testing.T) {
	suite.Run(t, new(localFilesystemTestSuite))
}

func (s *localFilesystemTestSuite) SetupTest() {
	s.fs = NewLocalFilesystem()
	s.root = s.T().TempDir()
}

type memoryFilesystemTestSuite struct{ FilesystemTestSuite }

func TestMemoryFilesystemTestSuite(t *testing.T) {
	suite.Run(t, new(memoryFilesystemTestSuite))
}

func (s *memoryFilesystemTestSuite) SetupTest() {
	s.fs = NewMemoryFilesystem(nil)
	s.root = "/mem"
}

func (s *memoryFilesystemTestSuite) TestInitialCopiedAndPaths() {
	initial := map[string][]byte{"/b": []byte("b"), "/a": []byte("a")}
	fs := NewMemoryFilesystem(initial)
	initial["/a"][0] = 'x'

	content, err := fs.ReadFile("/a")
	s.Require().NoError(err)
	s.Equal([]byte("a"), content)
	s.Equal([]string{"/a", "/b"}, fs.Paths())
}
