package lib

import (
	"strings"

	"github.com/gosimple/slug"
)

// Slugify turns a display name into a url-safe slug.
func Slugify(name string) string {
	return slug.Make(strings.TrimSpace(name))
}

// SanitizePathSegment keeps a value usable as a single directory name.
func SanitizePathSegment(s string) string {
	out := slug.Make(s)
	if out == "" {
		return "misc"
	}
	return out
}
