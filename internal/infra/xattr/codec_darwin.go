//go:build darwin

package xattr

import (
	"howett.net/plist"
)

// Finder keeps user tags as a binary plist array of "name\ncolor" strings.
const tagAttribute = "com.apple.metadata:_kMDItemUserTags"

func decodeEntries(data []byte) ([]string, error) {
	var raw []string
	if _, err := plist.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func decodeTags(data []byte) ([]string, error) {
	raw, err := decodeEntries(data)
	if err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(raw))
	for _, entry := range raw {
		if name := entryName(entry); name != "" {
			tags = append(tags, name)
		}
	}
	return tags, nil
}

// encodeTags keeps the color of every tag that was already on the file.
func encodeTags(tags []string, previous []byte) ([]byte, error) {
	var entries []string
	if len(previous) > 0 {
		if raw, err := decodeEntries(previous); err == nil {
			entries = raw
		}
	}
	return plist.Marshal(mergeEntries(tags, entries), plist.BinaryFormat)
}
