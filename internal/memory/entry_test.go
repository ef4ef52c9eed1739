package memory

import (
	"reflect"
	"testing"
)

const sampleDay = `# 2026-08-23

## Timeline

- **09:15** — standup notes #work
- 10:00 not an entry
- **14:30** — shipped the exporter #work #release

## Notes

free-form text here
`

func TestParseEntries(t *testing.T) {
	entries := ParseEntries(sampleDay)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	if entries[0].Time != "09:15" || entries[0].Text != "standup notes #work" {
		t.Errorf("first entry = %+v", entries[0])
	}
	if !reflect.DeepEqual(entries[0].Tags, []string{"work"}) {
		t.Errorf("first entry tags = %v, want [work]", entries[0].Tags)
	}

	if entries[1].Time != "14:30" {
		t.Errorf("second entry time = %q, want 14:30", entries[1].Time)
	}
	if !reflect.DeepEqual(entries[1].Tags, []string{"work", "release"}) {
		t.Errorf("second entry tags = %v, want [work release]", entries[1].Tags)
	}
}

func TestParseEntries_IgnoresNonMatchingLines(t *testing.T) {
	entries := ParseEntries("## Timeline\n- loose bullet\n- **9:00** — one-digit hour\n")
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}

func TestParseEntries_Empty(t *testing.T) {
	entries := ParseEntries("")
	if entries == nil {
		t.Fatal("entries should be non-nil")
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}
