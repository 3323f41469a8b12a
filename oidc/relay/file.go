package relay

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// NewFileStore creates a Store over files in dir, the analogue of durable
// per-origin storage: values survive process restarts. When dir is "" the
// store lives under the user cache directory. Each key becomes one file
// with 0600 permissions.
func NewFileStore(clientID, dir string) (*Store, error) {
	const op = "relay.NewFileStore"
	if dir == "" {
		cache, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("%s: no user cache directory: %w", op, err)
		}
		dir = filepath.Join(cache, "oidcclient")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%s: unable to create %s: %w", op, dir, err)
	}
	return NewStore(clientID, &fileKV{dir: dir, mirror: map[string]string{}}), nil
}

// fileKV keeps an in-memory mirror of everything it has written or read,
// so repeated token reads within a session stay off the disk.
type fileKV struct {
	mu     sync.Mutex
	dir    string
	mirror map[string]string
}

// path maps a key to a file name. Keys contain ":" separators, which are
// not portable in file names.
func (f *fileKV) path(key string) string {
	return filepath.Join(f.dir, strings.ReplaceAll(key, ":", "_"))
}

func (f *fileKV) set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.WriteFile(f.path(key), []byte(value), 0o600); err != nil {
		return fmt.Errorf("unable to write %s: %w", key, err)
	}
	f.mirror[key] = value
	return nil
}

func (f *fileKV) get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.mirror[key]; ok {
		return v, nil
	}
	b, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("unable to read %s: %w", key, err)
	}
	f.mirror[key] = string(b)
	return string(b), nil
}

func (f *fileKV) delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.mirror, key)
	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("unable to remove %s: %w", key, err)
	}
	return nil
}
