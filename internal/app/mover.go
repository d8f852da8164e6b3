package app

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"lightcull/internal/domain"
	appErrors "lightcull/internal/errors"
	"lightcull/internal/logging"
)

// MoveEngine relocates pairs between a folder and its destination subfolders. Every move
// ends with both files moved or both files where they started.
type MoveEngine struct {
	FS         FileSystem
	Thumbnails ThumbnailCache
	Logger     logging.Logger
	Now        func() time.Time
}

// BatchFailure is one pair of a batch that could not be processed.
type BatchFailure struct {
	Pair domain.ImagePair
	Err  error
}

type MoveBatchResult struct {
	Operations []domain.MoveOperation
	Failures   []BatchFailure
}

func (m *MoveEngine) Delete(pair domain.ImagePair, sourceFolder string) (domain.MoveOperation, error) {
	return m.Move(pair, sourceFolder, domain.DeleteFolder)
}

func (m *MoveEngine) Archive(pair domain.ImagePair, sourceFolder string) (domain.MoveOperation, error) {
	return m.Move(pair, sourceFolder, domain.ArchiveFolder)
}

func (m *MoveEngine) Outtake(pair domain.ImagePair, sourceFolder string) (domain.MoveOperation, error) {
	return m.Move(pair, sourceFolder, domain.OuttakeFolder)
}

// Move puts the pair into sourceFolder/destinationName. Both destinations are checked for
// collisions before anything is touched; if the RAW move still fails, the JPEG move is undone.
func (m *MoveEngine) Move(pair domain.ImagePair, sourceFolder, destinationName string) (domain.MoveOperation, error) {
	if m.FS == nil {
		return domain.MoveOperation{}, errors.New("move engine requires FS")
	}
	if err := validateFolderName(destinationName); err != nil {
		return domain.MoveOperation{}, appErrors.Wrap(appErrors.InvalidInput, "move", destinationName, err)
	}

	destDir := filepath.Join(sourceFolder, destinationName)
	if err := m.ensureDirectory(destDir); err != nil {
		return domain.MoveOperation{}, err
	}

	op := domain.MoveOperation{
		OriginalJPEGPath: pair.JPEGPath,
		MovedJPEGPath:    filepath.Join(destDir, filepath.Base(pair.JPEGPath)),
		Destination:      destinationName,
	}
	if pair.HasRAW() {
		op.OriginalRAWPath = pair.RAWPath
		op.MovedRAWPath = filepath.Join(destDir, filepath.Base(pair.RAWPath))
	}

	if err := m.checkFree("move", op.MovedJPEGPath, op.MovedRAWPath); err != nil {
		return domain.MoveOperation{}, err
	}

	var tx saga
	if err := m.FS.Move(op.OriginalJPEGPath, op.MovedJPEGPath); err != nil {
		return domain.MoveOperation{}, classifyMoveError("move", op.OriginalJPEGPath, err)
	}
	tx.done("jpeg move", func() error { return m.FS.Move(op.MovedJPEGPath, op.OriginalJPEGPath) })

	m.shadowThumbnail(op.OriginalJPEGPath, destinationName)
	tx.done("thumbnail shadow", func() error {
		m.restoreThumbnail(op.OriginalJPEGPath, destinationName)
		return nil
	})

	if op.HasRAW() {
		if err := m.FS.Move(op.OriginalRAWPath, op.MovedRAWPath); err != nil {
			return domain.MoveOperation{}, m.abort(&tx, "move", pair, err,
				fmt.Sprintf("JPEG at %s, RAW at %s", op.MovedJPEGPath, op.OriginalRAWPath))
		}
	}

	op.Timestamp = m.now()
	m.Logger.Verbosef("Moved %s to %s", pair.Name(), destinationName)
	return op, nil
}

// MoveBatch moves pairs one at a time. Each pair is atomic on its own; a failed pair does not
// undo the pairs moved before it.
func (m *MoveEngine) MoveBatch(pairs []domain.ImagePair, sourceFolder, destinationName string) MoveBatchResult {
	var result MoveBatchResult
	for _, pair := range pairs {
		op, err := m.Move(pair, sourceFolder, destinationName)
		if err != nil {
			result.Failures = append(result.Failures, BatchFailure{Pair: pair, Err: err})
			continue
		}
		result.Operations = append(result.Operations, op)
	}
	return result
}

// Reverse moves the files of a completed operation back to their original paths. A RAW
// failure puts the JPEG back into the destination folder, restoring the pre-undo state.
func (m *MoveEngine) Reverse(op domain.MoveOperation) error {
	if m.FS == nil {
		return errors.New("move engine requires FS")
	}
	if err := m.checkFree("undo", op.OriginalJPEGPath, op.OriginalRAWPath); err != nil {
		return err
	}

	var tx saga
	if err := m.FS.Move(op.MovedJPEGPath, op.OriginalJPEGPath); err != nil {
		return classifyMoveError("undo", op.MovedJPEGPath, err)
	}
	tx.done("jpeg restore", func() error { return m.FS.Move(op.OriginalJPEGPath, op.MovedJPEGPath) })

	m.restoreThumbnail(op.OriginalJPEGPath, op.Destination)
	tx.done("thumbnail restore", func() error {
		m.shadowThumbnail(op.OriginalJPEGPath, op.Destination)
		return nil
	})

	if op.HasRAW() {
		if err := m.FS.Move(op.MovedRAWPath, op.OriginalRAWPath); err != nil {
			return m.abort(&tx, "undo", op.OriginalPair(), err,
				fmt.Sprintf("JPEG at %s, RAW at %s", op.OriginalJPEGPath, op.MovedRAWPath))
		}
	}

	m.Logger.Verbosef("Restored %s from %s", filepath.Base(op.OriginalJPEGPath), op.Destination)
	return nil
}

// abort rolls back the completed steps after a failed second file. When the rollback itself
// fails the pair is split across two folders and is reported loudly for manual recovery.
func (m *MoveEngine) abort(tx *saga, op string, pair domain.ImagePair, cause error, splitState string) error {
	if rbErr := tx.rollback(); rbErr != nil {
		m.Logger.Errorf("%s of %s failed and could not be rolled back (%s): %v; rollback: %v",
			op, pair.Name(), splitState, cause, rbErr)
		return appErrors.Wrap(appErrors.RollbackFailed, op, pair.JPEGPath,
			fmt.Errorf("%w (rollback: %v; %s)", cause, rbErr, splitState))
	}
	m.Logger.Warnf("%s of %s failed on the RAW file and was rolled back: %v", op, pair.Name(), cause)
	return appErrors.Wrap(appErrors.PartialPair, op, pair.JPEGPath, cause)
}

func (m *MoveEngine) ensureDirectory(dir string) error {
	info, err := m.FS.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return appErrors.New(appErrors.Collision, "create destination", dir, "a file occupies the destination folder name")
		}
		return nil
	case errors.Is(err, fs.ErrNotExist):
		if err := m.FS.MkdirAll(dir, 0o755); err != nil {
			return appErrors.Wrap(appErrors.IOFailure, "create destination", dir, err)
		}
		return nil
	default:
		return appErrors.Wrap(appErrors.IOFailure, "create destination", dir, err)
	}
}

// checkFree fails with a Collision error when any non-empty path is already taken.
func (m *MoveEngine) checkFree(op string, paths ...string) error {
	return checkFree(m.FS, op, paths...)
}

func (m *MoveEngine) shadowThumbnail(originalPath, folderName string) {
	if m.Thumbnails == nil {
		return
	}
	if err := m.Thumbnails.MoveToShadow(originalPath, folderName); err != nil {
		m.Logger.Warnf("Thumbnail of %s not moved to %s: %v", filepath.Base(originalPath), folderName, err)
	}
}

func (m *MoveEngine) restoreThumbnail(originalPath, folderName string) {
	if m.Thumbnails == nil {
		return
	}
	if err := m.Thumbnails.RestoreFromShadow(originalPath, folderName); err != nil {
		m.Logger.Warnf("Thumbnail of %s not restored from %s: %v", filepath.Base(originalPath), folderName, err)
	}
}

func (m *MoveEngine) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func checkFree(filesystem FileSystem, op string, paths ...string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}
		exists, err := filesystem.Exists(path)
		if err != nil {
			return appErrors.Wrap(appErrors.IOFailure, op, path, err)
		}
		if exists {
			return appErrors.Wrap(appErrors.Collision, op, path, fs.ErrExist)
		}
	}
	return nil
}

func classifyMoveError(op, path string, err error) error {
	if errors.Is(err, fs.ErrExist) {
		return appErrors.Wrap(appErrors.Collision, op, path, err)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return appErrors.Wrap(appErrors.NotFound, op, path, err)
	}
	return appErrors.Wrap(appErrors.IOFailure, op, path, err)
}

func validateFolderName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("invalid folder name %q", name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("folder name %q must not contain a path separator", name)
	}
	return nil
}
