// Package memory implements the daybook memory store: a directory of
// daily markdown files (YYYY-MM-DD.md), each holding timestamped,
// hashtag-annotated entries. Tags are always recomputed from entry text;
// no derived index is persisted.
package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

const (
	fileSuffix = ".md"

	// DefaultArchiveDays is the archival age threshold when none is given.
	DefaultArchiveDays = 90
)

var fileRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\.md$`)

// Store is the markdown-backed memory store rooted at a single directory.
// It is safe for a single process; concurrent external writers are out of
// scope.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates a store rooted at dir using the wall clock.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// NewStoreWithClock creates a store with an injected clock so tests can
// pin "now".
func NewStoreWithClock(dir string, now func() time.Time) *Store {
	return &Store{dir: dir, now: now}
}

// Dir returns the store root directory.
func (s *Store) Dir() string { return s.dir }

// EnsureDir creates the store root if missing and reports whether it did.
func (s *Store) EnsureDir() (bool, error) {
	if _, err := os.Stat(s.dir); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat store dir: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return false, fmt.Errorf("create store dir: %w", err)
	}
	return true, nil
}

// FilePath returns the path of the daily file for a canonical date.
func (s *Store) FilePath(date string) string {
	return filepath.Join(s.dir, date+fileSuffix)
}

// ListDates returns the canonical dates of all daily files, ascending.
// Files not named like a canonical date are ignored.
func (s *Store) ListDates() ([]string, error) {
	if _, err := s.EnsureDir(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}
	dates := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !fileRe.MatchString(e.Name()) {
			continue
		}
		dates = append(dates, strings.TrimSuffix(e.Name(), fileSuffix))
	}
	sort.Strings(dates)
	return dates, nil
}

// ReadDay returns the raw content of a daily file. A missing file is not
// an error; it reports exists=false.
func (s *Store) ReadDay(date string) (string, bool, error) {
	data, err := os.ReadFile(s.FilePath(date))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", date, err)
	}
	return string(data), true, nil
}

func dayTemplate(date string) string {
	return fmt.Sprintf("# %s\n\n## Timeline\n\n## Notes\n", date)
}

// ensureDay creates the daily file with the fixed template if absent and
// returns its path. Existing content is never overwritten.
func (s *Store) ensureDay(date string) (string, error) {
	if _, err := s.EnsureDir(); err != nil {
		return "", err
	}
	path := s.FilePath(date)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(dayTemplate(date)), 0644); err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	return path, nil
}

// AppendResult reports where and when an entry was written.
type AppendResult struct {
	Date string
	Path string
	Time string
	Tags []string
}

// Append writes a timestamped entry to the file for the given date
// expression (empty means today), creating the file from the template on
// first touch. The entry is preceded by a blank line.
func (s *Store) Append(dateExpr, text string) (*AppendResult, error) {
	now := s.now()
	expr := strings.TrimSpace(dateExpr)
	if expr == "" {
		expr = "today"
	}
	date, err := NormalizeDate(expr, now)
	if err != nil {
		return nil, err
	}
	path, err := s.ensureDay(date)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	stamp := now.Format("15:04")
	if _, err := fmt.Fprintf(f, "\n- **%s** — %s\n", stamp, text); err != nil {
		return nil, fmt.Errorf("append %s: %w", path, err)
	}

	return &AppendResult{
		Date: date,
		Path: path,
		Time: stamp,
		Tags: ExtractTags(text),
	}, nil
}

// DayView is the result of showing a single day. A missing file yields
// Exists=false rather than an error.
type DayView struct {
	Date    string
	Path    string
	Exists  bool
	Content string
	Entries []Entry
	Tags    []string
}

// Show resolves a date expression (empty means today) and returns that
// day's file with parsed entries and file-level tags.
func (s *Store) Show(dateExpr string) (*DayView, error) {
	if _, err := s.EnsureDir(); err != nil {
		return nil, err
	}
	expr := strings.TrimSpace(dateExpr)
	if expr == "" {
		expr = "today"
	}
	date, err := NormalizeDate(expr, s.now())
	if err != nil {
		return nil, err
	}
	content, exists, err := s.ReadDay(date)
	if err != nil {
		return nil, err
	}
	view := &DayView{Date: date, Path: s.FilePath(date), Exists: exists}
	if exists {
		view.Content = content
		view.Entries = ParseEntries(content)
		view.Tags = ExtractTags(content)
	}
	return view, nil
}

// resolveRange normalizes optional from/to expressions against the
// store's clock. Empty expressions stay unbounded.
func (s *Store) resolveRange(fromExpr, toExpr string) (string, string, error) {
	now := s.now()
	var from, to string
	var err error
	if strings.TrimSpace(fromExpr) != "" {
		if from, err = NormalizeDate(fromExpr, now); err != nil {
			return "", "", err
		}
	}
	if strings.TrimSpace(toExpr) != "" {
		if to, err = NormalizeDate(toExpr, now); err != nil {
			return "", "", err
		}
	}
	return from, to, nil
}
