package app

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lightcull/internal/domain"
	infrafs "lightcull/internal/infra/fs"
	"lightcull/internal/logging"
	"lightcull/internal/thumbcache"
)

var errInjected = errors.New("injected failure")

// memAttributes keeps tags per path, following files only when told to via rename.
type memAttributes struct {
	mu         sync.Mutex
	tags       map[string][]string
	unreadable map[string]bool
	failWrite  map[string]bool
}

func newMemAttributes() *memAttributes {
	return &memAttributes{
		tags:       map[string][]string{},
		unreadable: map[string]bool{},
		failWrite:  map[string]bool{},
	}
}

func (m *memAttributes) ReadTags(path string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unreadable[path] {
		return nil, errInjected
	}
	return append([]string(nil), m.tags[path]...), nil
}

func (m *memAttributes) WriteTags(path string, tags []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite[path] {
		return errInjected
	}
	m.tags[path] = append([]string(nil), tags...)
	return nil
}

// faultyFS is the real filesystem with selected moves forced to fail.
type faultyFS struct {
	infrafs.OSFS
	failMoveFrom map[string]bool
	failMoveTo   map[string]bool
}

func newFaultyFS() *faultyFS {
	return &faultyFS{failMoveFrom: map[string]bool{}, failMoveTo: map[string]bool{}}
}

func (f *faultyFS) Move(src, dst string) error {
	if f.failMoveFrom[src] || f.failMoveTo[dst] {
		return errInjected
	}
	return f.OSFS.Move(src, dst)
}

func testLogger() logging.Logger {
	return logging.New(io.Discard, true)
}

func fixedClock() time.Time {
	return time.Date(2024, 10, 2, 15, 1, 0, 0, time.UTC)
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
	}
}

type fixture struct {
	dir    string
	fs     *faultyFS
	attrs  *memAttributes
	tags   *TagStore
	thumbs *thumbcache.Cache
	wf     *Workflow
}

func newFixture(t *testing.T, names ...string) *fixture {
	t.Helper()
	dir := t.TempDir()
	writeFiles(t, dir, names...)

	filesystem := newFaultyFS()
	attrs := newMemAttributes()
	logger := testLogger()
	tags := &TagStore{Attrs: attrs, Logger: logger}
	thumbs := thumbcache.New(t.TempDir(), nil, 2, logger)
	undo, err := NewUndoLog(nil, logger)
	require.NoError(t, err)

	wf := &Workflow{
		Scanner:    &Scanner{FS: filesystem, Tags: tags, Logger: logger},
		Tags:       tags,
		Mover:      &MoveEngine{FS: filesystem, Thumbnails: thumbs, Logger: logger, Now: fixedClock},
		Renamer:    &RenameEngine{FS: filesystem, Thumbnails: thumbs, Logger: logger},
		Undo:       undo,
		Thumbnails: thumbs,
		Logger:     logger,
	}
	return &fixture{dir: dir, fs: filesystem, attrs: attrs, tags: tags, thumbs: thumbs, wf: wf}
}

func (f *fixture) path(name string) string {
	return filepath.Join(f.dir, name)
}

func (f *fixture) pair(jpeg, raw string) domain.ImagePair {
	rawPath := ""
	if raw != "" {
		rawPath = f.path(raw)
	}
	return domain.NewImagePair(f.path(jpeg), rawPath, false)
}

func (f *fixture) writeThumbnail(t *testing.T, jpegName string) string {
	t.Helper()
	path := f.thumbs.ThumbnailPathFor(f.path(jpegName))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("thumb"), 0o644))
	return path
}

// memPersister records the undo stack the way the journal does.
type memPersister struct {
	ops     []domain.MoveOperation
	resets  int
	failAll bool
}

func (m *memPersister) Load() ([]domain.MoveOperation, error) {
	return append([]domain.MoveOperation(nil), m.ops...), nil
}

func (m *memPersister) Append(op domain.MoveOperation) error {
	if m.failAll {
		return errInjected
	}
	m.ops = append(m.ops, op)
	return nil
}

func (m *memPersister) RemoveLast() error {
	if m.failAll {
		return errInjected
	}
	if len(m.ops) > 0 {
		m.ops = m.ops[:len(m.ops)-1]
	}
	return nil
}

func (m *memPersister) Reset() error {
	m.resets++
	m.ops = nil
	return nil
}
