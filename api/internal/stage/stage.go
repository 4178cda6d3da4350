// Package stage writes uploaded payloads to uniquely named temporary files so
// they can be handed to APIs that take a path.
package stage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
)

// File is a staged upload. Remove must be called on every exit path.
type File struct {
	Path string
	Size int64

	once sync.Once
	err  error
}

// Save copies r into a new file under dir (os.TempDir() when empty).
// On failure nothing is left behind.
func Save(dir string, r io.Reader) (*File, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	tmp, err := os.CreateTemp(dir, "upload-"+uuid.NewString()+"-*")
	if err != nil {
		return nil, fmt.Errorf("stage: create temp: %w", err)
	}
	path := tmp.Name()

	n, err := io.Copy(tmp, r)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("stage: write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("stage: close temp: %w", err)
	}
	return &File{Path: path, Size: n}, nil
}

// Open opens the staged file for reading.
func (f *File) Open() (*os.File, error) {
	return os.Open(f.Path)
}

// Remove deletes the file. Only the first call touches the filesystem; later
// calls return the first result. A file that is already gone is not an error.
func (f *File) Remove() error {
	f.once.Do(func() {
		if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
			f.err = err
		}
	})
	return f.err
}

// Head returns up to n leading bytes of the staged file.
func (f *File) Head(n int) ([]byte, error) {
	fh, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	buf := make([]byte, n)
	m, err := io.ReadFull(fh, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:m], nil
}
