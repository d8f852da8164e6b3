package fs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charlievieth/fastwalk"
)

type OSFS struct{}

// ReadDir lists the direct children of dir sorted by name. Symlinks are not followed.
func (OSFS) ReadDir(dir string) ([]fs.DirEntry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "readdir", Path: dir, Err: errors.New("not a directory")}
	}
	handle, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	handle.Close()

	root := filepath.Clean(dir)
	var (
		mu      sync.Mutex
		entries []fs.DirEntry
		rootErr error
	)

	conf := &fastwalk.Config{Follow: false}
	err = fastwalk.Walk(conf, root, func(fullPath string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if fullPath == root {
				mu.Lock()
				rootErr = walkErr
				mu.Unlock()
				return walkErr
			}
			return nil
		}
		if fullPath == root {
			return nil
		}
		if filepath.Dir(fullPath) != root {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		mu.Lock()
		entries = append(entries, d)
		mu.Unlock()

		if d.IsDir() {
			return fastwalk.SkipDir
		}
		return nil
	})
	if rootErr != nil {
		return nil, rootErr
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	return entries, nil
}

func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (OSFS) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (OSFS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Move renames src to dst and refuses to replace an existing dst.
func (f OSFS) Move(src, dst string) error {
	exists, err := f.Exists(dst)
	if err != nil {
		return err
	}
	if exists {
		return &fs.PathError{Op: "move", Path: dst, Err: fs.ErrExist}
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.Rename(src, dst)
}
