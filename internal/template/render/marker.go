package render

import "strings"

// Marker is the filename segment that flags a file for rendering.
const Marker = "mustache"

// StripMarker parses a base filename for the marker segment.
// "README.mustache.md" yields ("README.md", true) and ".env.mustache"
// yields (".env", true). The first segment is never treated as the
// marker, so "mustache.txt" is returned unchanged with false.
func StripMarker(name string) (string, bool) {
	segments := strings.Split(name, ".")
	kept := make([]string, 0, len(segments))
	found := false
	for i, seg := range segments {
		if i > 0 && seg == Marker && !found {
			found = true
			continue
		}
		kept = append(kept, seg)
	}
	if !found {
		return name, false
	}

	stripped := strings.Join(kept, ".")
	if stripped == "" || stripped == "." {
		return name, false
	}
	return stripped, true
}

// HasMarker reports whether name carries the marker segment.
func HasMarker(name string) bool {
	_, ok := StripMarker(name)
	return ok
}
