package memory

import (
	"regexp"
	"strings"
)

var tagRe = regexp.MustCompile(`#([A-Za-z][A-Za-z0-9_-]*)`)

// ExtractTags scans text for hashtag tokens and returns them lowercased,
// deduplicated case-insensitively, in first-occurrence order. A token is
// "#" followed by a letter, then letters/digits/hyphen/underscore; tokens
// starting with a digit or hyphen are ignored.
func ExtractTags(text string) []string {
	matches := tagRe.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		tag := strings.ToLower(m[1])
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
