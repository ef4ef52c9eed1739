package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Export serialization formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ExportOptions selects the slice of the store to export. Full includes
// each file's raw content.
type ExportOptions struct {
	From string
	To   string
	Full bool
}

// MemoryRecord is one exported daily file.
type MemoryRecord struct {
	Date    string   `json:"date" yaml:"date"`
	File    string   `json:"file" yaml:"file"`
	Entries []Entry  `json:"entries" yaml:"entries"`
	Tags    []string `json:"tags" yaml:"tags"`
	Raw     string   `json:"raw,omitempty" yaml:"raw,omitempty"`
}

// MemoryExport is the portable export record.
type MemoryExport struct {
	ExportedAt time.Time      `json:"exportedAt" yaml:"exportedAt"`
	MemoryDir  string         `json:"memoryDir" yaml:"memoryDir"`
	DateRange  *DateRange     `json:"dateRange" yaml:"dateRange"`
	TotalFiles int            `json:"totalFiles" yaml:"totalFiles"`
	Memories   []MemoryRecord `json:"memories" yaml:"memories"`
}

// Export assembles the export record for the in-range files, ascending by
// date. DateRange is null when both bounds are absent.
func (s *Store) Export(opts ExportOptions) (*MemoryExport, error) {
	from, to, err := s.resolveRange(opts.From, opts.To)
	if err != nil {
		return nil, err
	}
	dates, err := s.ListDates()
	if err != nil {
		return nil, err
	}

	exp := &MemoryExport{
		ExportedAt: s.now(),
		MemoryDir:  s.dir,
		Memories:   []MemoryRecord{},
	}
	if from != "" || to != "" {
		exp.DateRange = &DateRange{From: from, To: to}
	}

	for _, date := range dates {
		if !DateInRange(date, from, to) {
			continue
		}
		content, _, err := s.ReadDay(date)
		if err != nil {
			return nil, err
		}
		rec := MemoryRecord{
			Date:    date,
			File:    date + fileSuffix,
			Entries: ParseEntries(content),
			Tags:    ExtractTags(content),
		}
		if opts.Full {
			rec.Raw = content
		}
		exp.Memories = append(exp.Memories, rec)
	}
	exp.TotalFiles = len(exp.Memories)
	return exp, nil
}

// ExportReport describes a serialized export.
type ExportReport struct {
	Path  string
	Bytes int
	Files int
}

// EncodeExport serializes an export record in the given format (json when
// empty).
func EncodeExport(exp *MemoryExport, format string) ([]byte, error) {
	switch format {
	case "", FormatJSON:
		data, err := json.MarshalIndent(exp, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode export: %w", err)
		}
		return data, nil
	case FormatYAML:
		data, err := yaml.Marshal(exp)
		if err != nil {
			return nil, fmt.Errorf("encode export: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// WriteExport serializes a range export to path and reports bytes written
// and files covered.
func (s *Store) WriteExport(opts ExportOptions, path, format string) (*ExportReport, error) {
	exp, err := s.Export(opts)
	if err != nil {
		return nil, err
	}
	data, err := EncodeExport(exp, format)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("write export: %w", err)
	}
	return &ExportReport{Path: path, Bytes: len(data), Files: exp.TotalFiles}, nil
}

// ArchiveOptions controls archival. OlderThanDays <= 0 selects the
// default threshold; Output "" selects a cutoff-named file in the store
// root.
type ArchiveOptions struct {
	OlderThanDays int
	Output        string
}

// ArchiveReport summarizes an archival run.
type ArchiveReport struct {
	Cutoff     string
	Archived   int
	Removed    []string
	ExportPath string
	ExportSize int
}

// Archive exports every file strictly older than the cutoff (today minus
// the threshold) to a full-format JSON export, then deletes the archived
// sources. Deletion never starts before the export write succeeds; a
// partial deletion failure reports how many files were already removed,
// with no rollback.
func (s *Store) Archive(opts ArchiveOptions) (*ArchiveReport, error) {
	days := opts.OlderThanDays
	if days <= 0 {
		days = DefaultArchiveDays
	}
	cutoff := s.now().AddDate(0, 0, -days).Format(dateLayout)

	dates, err := s.ListDates()
	if err != nil {
		return nil, err
	}
	old := make([]string, 0)
	for _, date := range dates {
		if date < cutoff {
			old = append(old, date)
		}
	}

	report := &ArchiveReport{Cutoff: cutoff}
	if len(old) == 0 {
		return report, nil
	}

	output := opts.Output
	if output == "" {
		output = filepath.Join(s.dir, "archive-"+cutoff+".json")
	}

	expOpts := ExportOptions{From: old[0], To: old[len(old)-1], Full: true}
	rep, err := s.WriteExport(expOpts, output, FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("archive export: %w", err)
	}
	report.ExportPath = rep.Path
	report.ExportSize = rep.Bytes

	for _, date := range old {
		if err := os.Remove(s.FilePath(date)); err != nil {
			report.Archived = len(report.Removed)
			return report, fmt.Errorf("archive removed %d of %d files, then: %w", len(report.Removed), len(old), err)
		}
		report.Removed = append(report.Removed, date)
	}
	report.Archived = len(report.Removed)
	return report, nil
}
