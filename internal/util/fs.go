package util

import (
	"path"
	"strings"
)

// ObjectName reduces an uploaded filename to the base name used as its
// object key. Both slash styles are treated as separators.
func ObjectName(filename string) string {
	name := strings.ReplaceAll(filename, "\\", "/")
	name = strings.TrimSpace(path.Base(name))
	switch name {
	case ".", "/", "..":
		return ""
	}
	return name
}
