package util

import (
	"errors"
	"strings"
)

// SanitizeFileName removes path separators and rejects traversal patterns.
// Commas are replaced as well: file names are passed to the extraction
// binary as a comma-separated list, and a comma inside a name would split it.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, ",", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}
