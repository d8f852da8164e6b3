package cli

import (
	"fmt"

	"lightcull/internal/app"
	"lightcull/internal/domain"
	appErrors "lightcull/internal/errors"
	"lightcull/internal/infra/exif"
	"lightcull/internal/infra/fs"
	"lightcull/internal/infra/imaging"
	"lightcull/internal/infra/xattr"
	"lightcull/internal/journal"
	"lightcull/internal/logging"
	"lightcull/internal/presentation"
	"lightcull/internal/thumbcache"
)

// session holds the resources one command needs.
type session struct {
	logger   logging.Logger
	printer  presentation.Printer
	journal  *journal.Journal
	thumbs   *thumbcache.Cache
	workflow *app.Workflow
}

func (s *session) Close() {
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			s.logger.Warnf("Closing journal: %v", err)
		}
	}
}

// openSession wires the workflow. The journal restores the undo stack and the active folder
// of earlier invocations.
func openSession(opts *options) (*session, error) {
	cfg := opts.cfg
	logger := logging.New(opts.errOut, cfg.Verbose)

	cacheRoot, err := cfg.CacheRoot()
	if err != nil {
		return nil, err
	}
	journalPath, err := cfg.JournalPath()
	if err != nil {
		return nil, err
	}
	jrnl, err := journal.Open(journalPath)
	if err != nil {
		return nil, appErrors.Wrap(appErrors.IOFailure, "open journal", journalPath, err)
	}

	undo, err := app.NewUndoLog(jrnl, logger)
	if err != nil {
		jrnl.Close()
		return nil, err
	}

	filesystem := fs.OSFS{}
	exifReader := exif.Reader{}
	tags := &app.TagStore{Attrs: xattr.Tags{}, Logger: logger}
	thumbs := thumbcache.New(cacheRoot, imaging.NewRenderer(exifReader), cfg.ThumbnailWorkers, logger)

	workflow := &app.Workflow{
		Scanner:    &app.Scanner{FS: filesystem, Tags: tags, Exif: exifReader, Logger: logger},
		Tags:       tags,
		Mover:      &app.MoveEngine{FS: filesystem, Thumbnails: thumbs, Logger: logger},
		Renamer:    &app.RenameEngine{FS: filesystem, Thumbnails: thumbs, Logger: logger},
		Undo:       undo,
		Thumbnails: thumbs,
		Session:    jrnl,
		Logger:     logger,
	}

	return &session{
		logger:   logger,
		printer:  presentation.Printer{Writer: opts.out, Verbose: cfg.Verbose},
		journal:  jrnl,
		thumbs:   thumbs,
		workflow: workflow,
	}, nil
}

// openFolder opens a session and makes folder the active one.
func openFolder(opts *options, folder string) (*session, []domain.ImagePair, error) {
	s, err := openSession(opts)
	if err != nil {
		return nil, nil, userError(err)
	}
	pairs, err := s.workflow.Open(folder)
	if err != nil {
		s.Close()
		return nil, nil, userError(err)
	}
	return s, pairs, nil
}

// lookupPairs resolves names given as file name or base name. Every name must match.
func lookupPairs(pairs []domain.ImagePair, names []string) ([]domain.ImagePair, error) {
	found := make([]domain.ImagePair, 0, len(names))
	for _, name := range names {
		match := -1
		for i, pair := range pairs {
			if pair.Name() == name || pair.BaseName() == name {
				match = i
				break
			}
		}
		if match < 0 {
			return nil, userError(appErrors.Wrap(appErrors.NotFound, "lookup", name, fmt.Errorf("no pair named %q", name)))
		}
		found = append(found, pairs[match])
	}
	return found, nil
}
