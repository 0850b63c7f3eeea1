package session

import (
	"fmt"
	"os"
	"sync"
)

// Handle is a locally-materialized binary asset owned by a Session.
// Release removes the backing file and is safe to call more than once;
// only the first call has any effect.
type Handle struct {
	path string
	once sync.Once
	err  error
}

func newHandle(path string) *Handle {
	return &Handle{path: path}
}

// Path returns the filesystem location of the materialized asset.
func (h *Handle) Path() string {
	return h.path
}

// Release deletes the backing file exactly once.
func (h *Handle) Release() error {
	h.once.Do(func() {
		if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) {
			h.err = fmt.Errorf("failed to release handle '%s': %v", h.path, err)
		}
	})
	return h.err
}
