package utils

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slugify derives a DAO id from its name: lowercased, whitespace runs
// replaced with a hyphen. Nothing else is stripped.
func Slugify(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
}
