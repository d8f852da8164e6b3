package app

import (
	"context"
	"io/fs"

	"lightcull/internal/domain"
)

type FileSystem interface {
	ReadDir(dir string) ([]fs.DirEntry, error)
	Stat(path string) (fs.FileInfo, error)
	Exists(path string) (bool, error)
	MkdirAll(path string, perm fs.FileMode) error
	// Move must fail with fs.ErrExist instead of replacing dst.
	Move(src, dst string) error
}

type ExifReader interface {
	Metadata(ctx context.Context, path string) (domain.ImageMetadata, error)
}

// Attributes is the per-file tag storage. Every call goes to disk.
type Attributes interface {
	ReadTags(path string) ([]string, error)
	WriteTags(path string, tags []string) error
}

// ProgressFunc is called once per finished item with a strictly increasing count.
type ProgressFunc func(current, total int)

// ThumbnailCache shadows the original files. Its failures are logged, never returned to callers
// of pair operations.
type ThumbnailCache interface {
	ThumbnailPathFor(originalPath string) string
	MoveToShadow(originalPath, folderName string) error
	RestoreFromShadow(originalPath, folderName string) error
	Rename(oldPath, newPath string) error
	GenerateAll(ctx context.Context, pairs []domain.ImagePair, onProgress func(current, total int)) []domain.ImagePair
	Clear() error
}

// Persister mirrors the undo stack somewhere that outlives the process.
type Persister interface {
	Load() ([]domain.MoveOperation, error)
	Append(op domain.MoveOperation) error
	RemoveLast() error
	Reset() error
}

// Session remembers which folder is active so history is never replayed against another one.
type Session interface {
	ActiveFolder() (string, error)
	SetActiveFolder(folder string) error
}
