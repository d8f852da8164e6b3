// Package xattr stores file tags in extended attributes so they travel with the file
// through renames and moves.
package xattr

import (
	"errors"
	"strings"

	"github.com/pkg/xattr"
)

// Tags reads and writes the platform tag attribute of a single file.
type Tags struct{}

// ReadTags returns the tag names on path. A file without the attribute has no tags.
func (Tags) ReadTags(path string) ([]string, error) {
	data, err := xattr.Get(path, tagAttribute)
	if err != nil {
		if isNoAttr(err) {
			return nil, nil
		}
		return nil, err
	}
	return decodeTags(data)
}

// WriteTags replaces the full tag set of path. An empty set removes the attribute.
func (Tags) WriteTags(path string, tags []string) error {
	if len(tags) == 0 {
		err := xattr.Remove(path, tagAttribute)
		if err != nil && !isNoAttr(err) {
			return err
		}
		return nil
	}
	// Unreadable previous data only loses per-entry extras such as Finder colors.
	previous, _ := xattr.Get(path, tagAttribute)
	data, err := encodeTags(tags, previous)
	if err != nil {
		return err
	}
	return xattr.Set(path, tagAttribute, data)
}

// Supported reports whether the filesystem holding path accepts tag attributes.
func Supported(path string) bool {
	if _, err := xattr.List(path); err != nil {
		return false
	}
	probe := tagAttribute + ".probe"
	if err := xattr.Set(path, probe, []byte("1")); err != nil {
		return false
	}
	_ = xattr.Remove(path, probe)
	return true
}

func isNoAttr(err error) bool {
	var xerr *xattr.Error
	if errors.As(err, &xerr) {
		return errors.Is(xerr.Err, xattr.ENOATTR)
	}
	return errors.Is(err, xattr.ENOATTR)
}

// entryName is the tag name of a stored entry. Finder appends "\n<color>" to the name.
func entryName(entry string) string {
	name, _, _ := strings.Cut(entry, "\n")
	return name
}

// mergeEntries builds the entries to store for names, reusing the previous entry of each name so
// anything stored next to a name survives the rewrite.
func mergeEntries(names, previous []string) []string {
	byName := make(map[string]string, len(previous))
	for _, entry := range previous {
		if _, seen := byName[entryName(entry)]; !seen {
			byName[entryName(entry)] = entry
		}
	}
	entries := make([]string, 0, len(names))
	for _, name := range names {
		if entry, ok := byName[name]; ok {
			entries = append(entries, entry)
			continue
		}
		entries = append(entries, name)
	}
	return entries
}
