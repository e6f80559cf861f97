package utils

import "strings"

// Sanitize turns an arbitrary name (path, URL) into something safe to use
// in artifact file names.
func Sanitize(name string) string {
	s := name
	s = strings.ReplaceAll(s, "https://", "")
	s = strings.ReplaceAll(s, "http://", "")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ToLower(s)
	return s
}
