// Package slug provides URL- and filesystem-safe string helpers.
package slug

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	nonAlnum     = regexp.MustCompile(`[^a-z0-9]+`)
	unsafeChars  = regexp.MustCompile(`[^\w\s.-]`)
	maxNameBytes = 255
)

// Make converts text to a URL-friendly slug: lowercase, with runs of
// non-alphanumeric characters collapsed to single hyphens.
//
//	slug.Make("Hello, World!") // "hello-world"
func Make(text string) string {
	s := strings.ToLower(text)
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SecureFilename makes a filename safe for filesystem storage: path
// separators become underscores, non-printable characters are stripped, and
// the result is truncated to 255 bytes preserving the extension.
func SecureFilename(name string) string {
	s := strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	s = unsafeChars.ReplaceAllString(s, "")

	if len(s) > maxNameBytes {
		ext := filepath.Ext(s)
		base := s[:maxNameBytes-len(ext)]
		s = base + ext
	}
	return strings.TrimSpace(s)
}
