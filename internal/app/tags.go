package app

import (
	"fmt"

	"lightcull/internal/domain"
	appErrors "lightcull/internal/errors"
	"lightcull/internal/logging"
)

// TagStore manages named markers stored in each file's own tag attribute. It holds no cache,
// so tags edited outside the application are always seen.
type TagStore struct {
	Attrs  Attributes
	Logger logging.Logger
}

// AddTag is idempotent. An unreadable tag set is treated as empty.
func (t *TagStore) AddTag(name, path string) error {
	tags, err := t.Attrs.ReadTags(path)
	if err != nil {
		t.Logger.Verbosef("Reading tags of %s failed, starting from an empty set: %v", path, err)
		tags = nil
	}
	if containsTag(tags, name) {
		return nil
	}
	updated := append(append([]string{}, tags...), name)
	if err := t.Attrs.WriteTags(path, updated); err != nil {
		return appErrors.Wrap(appErrors.IOFailure, "add tag", path, err)
	}
	return nil
}

// RemoveTag succeeds when the tag is already absent or the tag set cannot be read.
func (t *TagStore) RemoveTag(name, path string) error {
	tags, err := t.Attrs.ReadTags(path)
	if err != nil {
		t.Logger.Verbosef("Reading tags of %s failed, treating %q as absent: %v", path, name, err)
		return nil
	}
	if !containsTag(tags, name) {
		return nil
	}
	kept := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag != name {
			kept = append(kept, tag)
		}
	}
	if err := t.Attrs.WriteTags(path, kept); err != nil {
		return appErrors.Wrap(appErrors.IOFailure, "remove tag", path, err)
	}
	return nil
}

// HasTag is false when the tag set cannot be read.
func (t *TagStore) HasTag(name, path string) bool {
	tags, err := t.Attrs.ReadTags(path)
	if err != nil {
		return false
	}
	return containsTag(tags, name)
}

func (t *TagStore) setTag(name, path string, on bool) error {
	if on {
		return t.AddTag(name, path)
	}
	return t.RemoveTag(name, path)
}

// SetPairTag writes the TOP marker on the JPEG and then the RAW file. If the RAW write fails
// the JPEG is put back to its previous state so both files keep agreeing.
func (t *TagStore) SetPairTag(pair domain.ImagePair, on bool) (domain.ImagePair, error) {
	var tx saga
	for _, path := range pair.Files() {
		before := t.HasTag(domain.TopTag, path)
		if err := t.setTag(domain.TopTag, path, on); err != nil {
			if rbErr := tx.rollback(); rbErr != nil {
				t.Logger.Errorf("Tag state of %s is inconsistent across the pair: %v", pair.Name(), rbErr)
				return pair, appErrors.Wrap(appErrors.RollbackFailed, "tag pair", pair.JPEGPath, fmt.Errorf("%w (rollback: %v)", err, rbErr))
			}
			return pair, appErrors.Wrap(appErrors.PartialPair, "tag pair", pair.JPEGPath, err)
		}
		if before != on {
			tx.done("tag "+path, func() error { return t.setTag(domain.TopTag, path, before) })
		}
	}
	return pair.WithTopTag(on), nil
}

// ToggleTag flips the pair's TOP marker and returns the replacement pair.
func (t *TagStore) ToggleTag(pair domain.ImagePair) (domain.ImagePair, error) {
	return t.SetPairTag(pair, !pair.HasTopTag)
}

func containsTag(tags []string, name string) bool {
	for _, tag := range tags {
		if tag == name {
			return true
		}
	}
	return false
}
