// ABOUTME: Filename sanitizing for media uploads.
// ABOUTME: The API only accepts a restricted character set before the extension.
package media

import (
	"regexp"
	"strings"
)

var (
	invalidChars = regexp.MustCompile(`[^a-zA-Z0-9_.()-]`)
	underscores  = regexp.MustCompile(`_+`)
)

// SanitizeFilename replaces disallowed characters in the base name with
// underscores, collapses runs, trims edge underscores, and keeps the
// extension lower-cased. An empty base becomes "upload".
func SanitizeFilename(name string) string {
	ext := extension(name)
	base := strings.TrimSuffix(name, ext)

	base = invalidChars.ReplaceAllString(base, "_")
	base = underscores.ReplaceAllString(base, "_")
	base = strings.Trim(base, "_")
	if base == "" {
		base = "upload"
	}
	return base + strings.ToLower(ext)
}

// extension is the suffix from the last dot, ignoring a leading dot on the
// name itself (".env" has no extension).
func extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return ""
	}
	return name[i:]
}
