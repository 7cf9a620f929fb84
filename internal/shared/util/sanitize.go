package util

import (
	"errors"
	"strings"
)

var ErrInvalidName = errors.New("invalid name")

// SanitizeName removes path separators and rejects traversal patterns. It is
// used for object key segments and download file names.
func SanitizeName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidName
	}
	s := strings.TrimSpace(name)
	s = strings.NewReplacer("/", "_", "\\", "_", "\"", "", "\n", "", "\r", "").Replace(s)
	if s == "" {
		return "", ErrInvalidName
	}
	return s, nil
}
