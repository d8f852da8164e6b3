package app

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"lightcull/internal/domain"
	appErrors "lightcull/internal/errors"
	"lightcull/internal/logging"
)

// Scanner derives the pair list and folder statistics from disk. It keeps no index between
// calls; every scan reads the folder again.
type Scanner struct {
	FS     FileSystem
	Tags   *TagStore
	Exif   ExifReader
	Logger logging.Logger
}

// Scan returns the folder's JPEGs in natural order, each paired with its exact <base>.RAF
// sibling when one exists. An empty folder yields an empty slice; a missing or unreadable
// folder yields a NotFound or Unreadable error.
func (s *Scanner) Scan(folder string) ([]domain.ImagePair, error) {
	if s.FS == nil || s.Tags == nil {
		return nil, errors.New("scanner requires FS and Tags")
	}

	stop := s.Logger.Measure("Scanning " + folder)
	defer stop()

	files, err := s.listFiles(folder)
	if err != nil {
		return nil, classifyReadError("scan", folder, err)
	}

	var jpegNames []string
	for name := range files {
		if domain.IsJpegExtension(filepath.Ext(name)) {
			jpegNames = append(jpegNames, name)
		}
	}
	sortNatural(jpegNames)

	pairs := make([]domain.ImagePair, 0, len(jpegNames))
	for _, name := range jpegNames {
		jpegPath := filepath.Join(folder, name)
		rawPath := ""
		if rawName := domain.RAWSiblingName(name); files[rawName] {
			rawPath = filepath.Join(folder, rawName)
		}
		// Tag state is kept identical across a pair, so the JPEG answers for both.
		tagged := s.Tags.HasTag(domain.TopTag, jpegPath)
		pairs = append(pairs, domain.NewImagePair(jpegPath, rawPath, tagged))
	}

	s.Logger.Verbosef("Found %d pairs in %s", len(pairs), folder)
	return pairs, nil
}

// ComputeStatistics counts the root folder and the delete folder independently of Scan.
// On a root read failure it returns zeroed statistics and the error.
func (s *Scanner) ComputeStatistics(folder string) (domain.FolderStatistics, error) {
	if s.FS == nil || s.Tags == nil {
		return domain.FolderStatistics{}, errors.New("scanner requires FS and Tags")
	}

	files, err := s.listFiles(folder)
	if err != nil {
		return domain.FolderStatistics{}, classifyReadError("statistics", folder, err)
	}

	var stats domain.FolderStatistics
	for name := range files {
		ext := filepath.Ext(name)
		switch {
		case domain.IsJpegExtension(ext):
			stats.TotalFiles++
			if files[domain.RAWSiblingName(name)] {
				stats.JPEGWithRAW++
			} else {
				stats.JPEGWithoutRAW++
			}
			if s.Tags.HasTag(domain.TopTag, filepath.Join(folder, name)) {
				stats.TaggedPairs++
			}
		case domain.IsRawExtension(ext):
			stats.TotalFiles++
		}
	}

	deleteDir := filepath.Join(folder, domain.DeleteFolder)
	deleted, err := s.listFiles(deleteDir)
	switch {
	case err == nil:
		for name := range deleted {
			ext := filepath.Ext(name)
			if domain.IsJpegExtension(ext) || domain.IsRawExtension(ext) {
				stats.DeletedFiles++
			}
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		s.Logger.Warnf("Could not read %s: %v", deleteDir, err)
	}

	return stats, nil
}

// Metadata reads the EXIF projection of the pair's JPEG.
func (s *Scanner) Metadata(ctx context.Context, pair domain.ImagePair) (domain.ImageMetadata, error) {
	if s.Exif == nil {
		return domain.ImageMetadata{}, errors.New("scanner requires Exif for metadata")
	}
	meta, err := s.Exif.Metadata(ctx, pair.JPEGPath)
	if err != nil {
		return meta, appErrors.Wrap(appErrors.ExifFailure, "metadata", pair.JPEGPath, err)
	}
	return meta, nil
}

// listFiles returns the visible regular entries of dir as a name set.
func (s *Scanner) listFiles(dir string) (map[string]bool, error) {
	entries, err := s.FS.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || domain.IsHidden(entry.Name()) {
			continue
		}
		files[entry.Name()] = true
	}
	return files, nil
}

func classifyReadError(op, path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return appErrors.Wrap(appErrors.NotFound, op, path, err)
	}
	return appErrors.Wrap(appErrors.Unreadable, op, path, err)
}
