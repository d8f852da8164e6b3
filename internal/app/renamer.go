package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"lightcull/internal/domain"
	appErrors "lightcull/internal/errors"
	"lightcull/internal/logging"
)

// RenameEngine prefixes the file names of a pair. Tags live in the files' own attributes and
// travel with them, so a rename never changes tag membership.
type RenameEngine struct {
	FS         FileSystem
	Thumbnails ThumbnailCache
	Logger     logging.Logger
}

type RenameBatchResult struct {
	Renamed  []domain.ImagePair
	Failures []BatchFailure
}

// RenamedName is the file name a prefix rename produces.
func RenamedName(prefix, fileName string) string {
	return prefix + "_" + fileName
}

// RenamePair renames both files to <prefix>_<old name>. An empty prefix returns the pair as is.
func (r *RenameEngine) RenamePair(pair domain.ImagePair, prefix string) (domain.ImagePair, error) {
	if r.FS == nil {
		return pair, errors.New("rename engine requires FS")
	}
	if prefix == "" {
		return pair, nil
	}
	if err := validatePrefix(prefix); err != nil {
		return pair, appErrors.Wrap(appErrors.InvalidInput, "rename", pair.JPEGPath, err)
	}

	renamed := pair
	renamed.JPEGPath = filepath.Join(pair.Folder(), RenamedName(prefix, filepath.Base(pair.JPEGPath)))
	if pair.HasRAW() {
		renamed.RAWPath = filepath.Join(filepath.Dir(pair.RAWPath), RenamedName(prefix, filepath.Base(pair.RAWPath)))
	}

	if err := checkFree(r.FS, "rename", renamed.JPEGPath, renamed.RAWPath); err != nil {
		return pair, err
	}

	var tx saga
	if err := r.FS.Move(pair.JPEGPath, renamed.JPEGPath); err != nil {
		return pair, classifyMoveError("rename", pair.JPEGPath, err)
	}
	tx.done("jpeg rename", func() error { return r.FS.Move(renamed.JPEGPath, pair.JPEGPath) })

	renamed.ThumbnailPath = r.renameThumbnail(pair, renamed)
	tx.done("thumbnail rename", func() error {
		r.renameThumbnail(renamed, pair)
		return nil
	})

	if pair.HasRAW() {
		if err := r.FS.Move(pair.RAWPath, renamed.RAWPath); err != nil {
			if rbErr := tx.rollback(); rbErr != nil {
				r.Logger.Errorf("Rename of %s failed and could not be rolled back (JPEG at %s, RAW at %s): %v; rollback: %v",
					pair.Name(), renamed.JPEGPath, pair.RAWPath, err, rbErr)
				return pair, appErrors.Wrap(appErrors.RollbackFailed, "rename", pair.JPEGPath,
					fmt.Errorf("%w (rollback: %v)", err, rbErr))
			}
			r.Logger.Warnf("Rename of %s failed on the RAW file and was rolled back: %v", pair.Name(), err)
			return pair, appErrors.Wrap(appErrors.PartialPair, "rename", pair.JPEGPath, err)
		}
	}

	r.Logger.Verbosef("Renamed %s to %s", pair.Name(), renamed.Name())
	return renamed, nil
}

// RenameBatch renames pairs one after another. Each pair is atomic; the batch is best effort
// and does not roll back pairs that already succeeded.
func (r *RenameEngine) RenameBatch(pairs []domain.ImagePair, prefix string) RenameBatchResult {
	var result RenameBatchResult
	for _, pair := range pairs {
		renamed, err := r.RenamePair(pair, prefix)
		if err != nil {
			result.Failures = append(result.Failures, BatchFailure{Pair: pair, Err: err})
			continue
		}
		result.Renamed = append(result.Renamed, renamed)
	}
	return result
}

// renameThumbnail moves the cached preview along and returns the thumbnail path for to.
func (r *RenameEngine) renameThumbnail(from, to domain.ImagePair) string {
	if r.Thumbnails == nil {
		return ""
	}
	if err := r.Thumbnails.Rename(from.JPEGPath, to.JPEGPath); err != nil {
		r.Logger.Warnf("Thumbnail of %s not renamed: %v", from.Name(), err)
		return ""
	}
	if from.ThumbnailPath == "" {
		return ""
	}
	return r.Thumbnails.ThumbnailPathFor(to.JPEGPath)
}

func validatePrefix(prefix string) error {
	if strings.ContainsAny(prefix, `/\`) {
		return fmt.Errorf("prefix %q must not contain a path separator", prefix)
	}
	if strings.ContainsRune(prefix, 0) {
		return errors.New("prefix must not contain NUL")
	}
	if strings.TrimSpace(prefix) != prefix {
		return fmt.Errorf("prefix %q must not start or end with whitespace", prefix)
	}
	// A leading dot hides the renamed files from every later scan.
	if strings.HasPrefix(prefix, ".") {
		return fmt.Errorf("prefix %q must not start with a dot", prefix)
	}
	return nil
}
