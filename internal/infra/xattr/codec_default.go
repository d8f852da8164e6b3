//go:build !darwin

package xattr

import "strings"

// freedesktop.org shared tag attribute, a comma separated list.
const tagAttribute = "user.xdg.tags"

func decodeTags(data []byte) ([]string, error) {
	var tags []string
	for _, part := range strings.Split(string(data), ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			tags = append(tags, part)
		}
	}
	return tags, nil
}

func encodeTags(tags []string, _ []byte) ([]byte, error) {
	return []byte(strings.Join(tags, ",")), nil
}
