package memory

import (
	"regexp"
	"strings"
)

// Entry is one timestamped line within a daily file. Tags are derived from
// the text on every parse, never stored separately.
type Entry struct {
	Time string   `json:"time" yaml:"time"`
	Text string   `json:"text" yaml:"text"`
	Tags []string `json:"tags" yaml:"tags"`
}

var entryRe = regexp.MustCompile(`^- \*\*(\d{2}:\d{2})\*\* — (.*)$`)

// ParseEntries extracts entries from raw file content. Only lines of the
// exact shape `- **HH:MM** — <text>` qualify; everything else is skipped.
func ParseEntries(content string) []Entry {
	entries := make([]Entry, 0)
	for _, line := range strings.Split(content, "\n") {
		m := entryRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		entries = append(entries, Entry{
			Time: m[1],
			Text: m[2],
			Tags: ExtractTags(m[2]),
		})
	}
	return entries
}
