package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"lightcull/internal/domain"
	appErrors "lightcull/internal/errors"
	"lightcull/internal/logging"
)

// Workflow is the entry point host surfaces use. It ties the engines to one active folder,
// records moves in the undo log and resets history and thumbnails when the folder changes.
type Workflow struct {
	Scanner    *Scanner
	Tags       *TagStore
	Mover      *MoveEngine
	Renamer    *RenameEngine
	Undo       *UndoLog
	Thumbnails ThumbnailCache
	Session    Session
	Logger     logging.Logger

	mu     sync.Mutex
	folder string
}

// Folder is the active folder, or "" before the first Open.
func (w *Workflow) Folder() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.folder == "" && w.Session != nil {
		if folder, err := w.Session.ActiveFolder(); err == nil {
			w.folder = folder
		}
	}
	return w.folder
}

// Open activates folder and scans it. Switching folders clears the undo log and the
// thumbnail cache: history for another directory must never be replayed here.
func (w *Workflow) Open(folder string) ([]domain.ImagePair, error) {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return nil, appErrors.Wrap(appErrors.InvalidInput, "open", folder, err)
	}

	pairs, err := w.Scanner.Scan(abs)
	if err != nil {
		return nil, err
	}

	if current := w.Folder(); current != abs {
		w.Logger.Verbosef("Switching folder from %q to %q", current, abs)
		if w.Undo != nil {
			w.Undo.Clear()
		}
		w.ClearThumbnailCache()
		if w.Session != nil {
			if err := w.Session.SetActiveFolder(abs); err != nil {
				w.Logger.Warnf("Active folder not persisted: %v", err)
			}
		}
	}

	w.mu.Lock()
	w.folder = abs
	w.mu.Unlock()
	return pairs, nil
}

func (w *Workflow) Scan() ([]domain.ImagePair, error) {
	folder, err := w.activeFolder()
	if err != nil {
		return nil, err
	}
	return w.Scanner.Scan(folder)
}

func (w *Workflow) Statistics() (domain.FolderStatistics, error) {
	folder, err := w.activeFolder()
	if err != nil {
		return domain.FolderStatistics{}, err
	}
	return w.Scanner.ComputeStatistics(folder)
}

func (w *Workflow) Metadata(ctx context.Context, pair domain.ImagePair) (domain.ImageMetadata, error) {
	return w.Scanner.Metadata(ctx, pair)
}

// ToggleTag flips TOP on both files and returns the replacement pair for in-place patching.
func (w *Workflow) ToggleTag(pair domain.ImagePair) (domain.ImagePair, error) {
	return w.Tags.ToggleTag(pair)
}

// Move relocates a pair out of the active folder and records it for undo.
func (w *Workflow) Move(pair domain.ImagePair, destinationName string) (domain.MoveOperation, error) {
	folder, err := w.activeFolder()
	if err != nil {
		return domain.MoveOperation{}, err
	}
	op, err := w.Mover.Move(pair, folder, destinationName)
	if err != nil {
		return op, err
	}
	w.Undo.Push(op)
	return op, nil
}

func (w *Workflow) Delete(pair domain.ImagePair) (domain.MoveOperation, error) {
	return w.Move(pair, domain.DeleteFolder)
}

func (w *Workflow) Archive(pair domain.ImagePair) (domain.MoveOperation, error) {
	return w.Move(pair, domain.ArchiveFolder)
}

func (w *Workflow) Outtake(pair domain.ImagePair) (domain.MoveOperation, error) {
	return w.Move(pair, domain.OuttakeFolder)
}

// MoveBatch moves each pair on its own and records every successful move.
func (w *Workflow) MoveBatch(pairs []domain.ImagePair, destinationName string) (MoveBatchResult, error) {
	folder, err := w.activeFolder()
	if err != nil {
		return MoveBatchResult{}, err
	}
	result := w.Mover.MoveBatch(pairs, folder, destinationName)
	for _, op := range result.Operations {
		w.Undo.Push(op)
	}
	return result, nil
}

// UndoLastMove reverses the newest recorded move.
func (w *Workflow) UndoLastMove() (domain.MoveOperation, error) {
	return w.Undo.UndoLast(w.Mover.Reverse)
}

// History lists the moves that can still be undone, oldest first.
func (w *Workflow) History() []domain.MoveOperation {
	if w.Undo == nil {
		return nil
	}
	return w.Undo.Operations()
}

func (w *Workflow) RenamePair(pair domain.ImagePair, prefix string) (domain.ImagePair, error) {
	return w.Renamer.RenamePair(pair, prefix)
}

func (w *Workflow) RenameBatch(pairs []domain.ImagePair, prefix string) RenameBatchResult {
	return w.Renamer.RenameBatch(pairs, prefix)
}

// GenerateThumbnails fills ThumbnailPath for every pair that can be previewed.
func (w *Workflow) GenerateThumbnails(ctx context.Context, pairs []domain.ImagePair, onProgress ProgressFunc) []domain.ImagePair {
	if w.Thumbnails == nil {
		return pairs
	}
	return w.Thumbnails.GenerateAll(ctx, pairs, onProgress)
}

func (w *Workflow) ClearThumbnailCache() {
	if w.Thumbnails == nil {
		return
	}
	if err := w.Thumbnails.Clear(); err != nil {
		w.Logger.Warnf("Thumbnail cache not cleared: %v", err)
	}
}

func (w *Workflow) activeFolder() (string, error) {
	folder := w.Folder()
	if folder == "" {
		return "", appErrors.Wrap(appErrors.InvalidInput, "workflow", "", errors.New("no folder is open"))
	}
	return folder, nil
}
