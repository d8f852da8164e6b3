// Package thumbcache keeps small JPEG previews of the active folder under the user cache
// directory. It is a performance cache: callers log its errors and carry on.
package thumbcache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"lightcull/internal/domain"
	appErrors "lightcull/internal/errors"
	"lightcull/internal/logging"
)

// Renderer writes a preview of src to dst.
type Renderer interface {
	Render(ctx context.Context, src, dst string) error
}

// Cache lays thumbnails out as <cacheRoot>/LightCull/current/<file name>, with moved
// originals shadowed in current/<destination folder>/.
type Cache struct {
	root     string
	Renderer Renderer
	Workers  int
	Logger   logging.Logger
}

func New(cacheRoot string, renderer Renderer, workers int, logger logging.Logger) *Cache {
	return &Cache{
		root:     filepath.Join(cacheRoot, domain.CacheRootName),
		Renderer: renderer,
		Workers:  workers,
		Logger:   logger,
	}
}

// Root is the directory Clear removes.
func (c *Cache) Root() string {
	return c.root
}

func (c *Cache) CacheDirectory() string {
	return filepath.Join(c.root, domain.CacheCurrentName)
}

// Clear removes the whole cache root, not only the current folder's thumbnails.
func (c *Cache) Clear() error {
	if err := os.RemoveAll(c.root); err != nil {
		return appErrors.Wrap(appErrors.IOFailure, "clear thumbnails", c.root, err)
	}
	c.Logger.Verbosef("Cleared thumbnail cache %s", c.root)
	return nil
}

// ThumbnailPathFor keeps the original's file name. Only one folder is cached at a time, so
// equal names from different folders cannot meet.
func (c *Cache) ThumbnailPathFor(originalPath string) string {
	return filepath.Join(c.CacheDirectory(), filepath.Base(originalPath))
}

func (c *Cache) shadowPathFor(originalPath, folderName string) string {
	return filepath.Join(c.CacheDirectory(), folderName, filepath.Base(originalPath))
}

// MoveToDeletedFolder and RestoreFromDeletedFolder are the _toDelete forms of the shadow moves.
func (c *Cache) MoveToDeletedFolder(originalPath string) error {
	return c.MoveToShadow(originalPath, domain.DeleteFolder)
}

func (c *Cache) RestoreFromDeletedFolder(originalPath string) error {
	return c.RestoreFromShadow(originalPath, domain.DeleteFolder)
}

// MoveToShadow mirrors a move of the original into folderName. No thumbnail is not an error.
func (c *Cache) MoveToShadow(originalPath, folderName string) error {
	return c.relocate(c.ThumbnailPathFor(originalPath), c.shadowPathFor(originalPath, folderName))
}

// RestoreFromShadow mirrors an undone move. No shadowed thumbnail is not an error.
func (c *Cache) RestoreFromShadow(originalPath, folderName string) error {
	return c.relocate(c.shadowPathFor(originalPath, folderName), c.ThumbnailPathFor(originalPath))
}

func (c *Cache) relocate(src, dst string) error {
	if !fileExists(src) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return appErrors.Wrap(appErrors.IOFailure, "relocate thumbnail", dst, err)
	}
	if err := os.Rename(src, dst); err != nil {
		return appErrors.Wrap(appErrors.IOFailure, "relocate thumbnail", src, err)
	}
	return nil
}

// Rename follows a renamed original. It refuses to overwrite an existing thumbnail.
func (c *Cache) Rename(oldPath, newPath string) error {
	src := c.ThumbnailPathFor(oldPath)
	dst := c.ThumbnailPathFor(newPath)
	if !fileExists(src) {
		return nil
	}
	if fileExists(dst) {
		return appErrors.Wrap(appErrors.Collision, "rename thumbnail", dst, fs.ErrExist)
	}
	if err := os.Rename(src, dst); err != nil {
		return appErrors.Wrap(appErrors.IOFailure, "rename thumbnail", src, err)
	}
	return nil
}

// GenerateAll makes sure every pair has a thumbnail and returns the pairs, in input order,
// with ThumbnailPath filled where generation worked. Work is spread over a bounded number
// of goroutines; onProgress runs on the calling goroutine once per finished pair.
// Cancelling ctx stops scheduling and returns what finished.
func (c *Cache) GenerateAll(ctx context.Context, pairs []domain.ImagePair, onProgress func(current, total int)) []domain.ImagePair {
	stop := c.Logger.Measure(fmt.Sprintf("Generating %d thumbnails", len(pairs)))
	defer stop()

	if err := os.MkdirAll(c.CacheDirectory(), 0o755); err != nil {
		c.Logger.Warnf("Thumbnail cache unavailable, continuing without thumbnails: %v", err)
		return pairs
	}

	type result struct {
		index int
		path  string
	}

	results := make(chan result)
	var group errgroup.Group
	group.SetLimit(c.workers())

	go func() {
		defer close(results)
		for i, pair := range pairs {
			if ctx.Err() != nil {
				break
			}
			group.Go(func() error {
				results <- result{index: i, path: c.ensure(ctx, pair)}
				return nil
			})
		}
		_ = group.Wait()
	}()

	slots := make(map[int]string, len(pairs))
	total := len(pairs)
	completed := 0
	for res := range results {
		slots[res.index] = res.path
		completed++
		if onProgress != nil {
			onProgress(completed, total)
		}
	}

	out := make([]domain.ImagePair, len(pairs))
	for i, pair := range pairs {
		if path, ok := slots[i]; ok {
			out[i] = pair.WithThumbnail(path)
		} else {
			out[i] = pair
		}
	}
	c.Logger.Verbosef("Thumbnails ready for %d of %d pairs", completed, total)
	return out
}

// ensure returns the thumbnail path for pair, rendering it when missing, or "" on failure.
func (c *Cache) ensure(ctx context.Context, pair domain.ImagePair) string {
	dst := c.ThumbnailPathFor(pair.JPEGPath)
	if fileExists(dst) {
		return dst
	}
	if c.Renderer == nil {
		return ""
	}
	if err := c.Renderer.Render(ctx, pair.JPEGPath, dst); err != nil {
		if !errors.Is(err, context.Canceled) {
			c.Logger.Warnf("Thumbnail for %s failed: %v", pair.Name(), err)
		}
		return ""
	}
	return dst
}

func (c *Cache) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return max(1, runtime.NumCPU())
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
