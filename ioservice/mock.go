package ioservice

import (
	"os"
	"sync"
)

// MockFileSystem is an in-memory file system
type MockFileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	errs  map[string]error
}

// NewMockFileSystem creates a new mock file system
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files: make(map[string][]byte),
		errs:  make(map[string]error),
	}
}

// SetError makes every operation on name fail with err
func (fs *MockFileSystem) SetError(name string, err error) {
	fs.mu.Lock()
	fs.errs[name] = err
	fs.mu.Unlock()
}

func (fs *MockFileSystem) ReadFile(name string) ([]byte, error) {

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	if err := fs.errs[name]; err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}

	content, ok := fs.files[name]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
	}

	retval := make([]byte, len(content))
	copy(retval, content)

	return retval, nil
}

func (fs *MockFileSystem) WriteFile(name string, data []byte, _ os.FileMode) error {

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.errs[name]; err != nil {
		return &os.PathError{Op: "open", Path: name, Err: err}
	}

	content := make([]byte, len(data))
	copy(content, data)
	fs.files[name] = content

	return nil
}
