package domain

import (
	"path/filepath"
	"strings"
)

// ImagePair is one JPEG file and its optional RAW sibling. Pairs are value data:
// tag and thumbnail changes produce a new pair instead of mutating this one.
type ImagePair struct {
	JPEGPath      string
	RAWPath       string
	HasTopTag     bool
	ThumbnailPath string
}

func NewImagePair(jpegPath, rawPath string, hasTopTag bool) ImagePair {
	return ImagePair{
		JPEGPath:  jpegPath,
		RAWPath:   rawPath,
		HasTopTag: hasTopTag,
	}
}

// Key identifies the files a pair refers to. Tag and thumbnail state are not part of it.
func (p ImagePair) Key() string {
	return p.JPEGPath + "\x00" + p.RAWPath
}

// Equal reports whether both pairs point at the same JPEG and RAW files.
func (p ImagePair) Equal(other ImagePair) bool {
	return p.JPEGPath == other.JPEGPath && p.RAWPath == other.RAWPath
}

func (p ImagePair) HasRAW() bool {
	return p.RAWPath != ""
}

func (p ImagePair) Folder() string {
	return filepath.Dir(p.JPEGPath)
}

// Name is the JPEG file name.
func (p ImagePair) Name() string {
	return filepath.Base(p.JPEGPath)
}

// BaseName is the JPEG file name without its extension.
func (p ImagePair) BaseName() string {
	return BaseName(p.JPEGPath)
}

func (p ImagePair) WithTopTag(tagged bool) ImagePair {
	p.HasTopTag = tagged
	return p
}

func (p ImagePair) WithThumbnail(path string) ImagePair {
	p.ThumbnailPath = path
	return p
}

// Files returns the JPEG path followed by the RAW path when present.
func (p ImagePair) Files() []string {
	if p.HasRAW() {
		return []string{p.JPEGPath, p.RAWPath}
	}
	return []string{p.JPEGPath}
}

// IndexOf finds a pair by identity and returns -1 when it is not in the list.
func IndexOf(pairs []ImagePair, target ImagePair) int {
	for i, pair := range pairs {
		if pair.Equal(target) {
			return i
		}
	}
	return -1
}

// Replace returns a copy of pairs with the entry matching updated's identity swapped for updated.
func Replace(pairs []ImagePair, updated ImagePair) []ImagePair {
	out := make([]ImagePair, len(pairs))
	copy(out, pairs)
	if i := IndexOf(out, updated); i >= 0 {
		out[i] = updated
	}
	return out
}

func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// RAWSiblingName is the exact, case-sensitive file name a RAW partner must have.
func RAWSiblingName(jpegName string) string {
	return BaseName(jpegName) + "." + RAWExtension
}

func IsRawExtension(ext string) bool {
	return strings.EqualFold(strings.TrimPrefix(ext, "."), RAWExtension)
}

func IsJpegExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return true
	default:
		return false
	}
}

func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
