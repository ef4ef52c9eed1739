package memory

import (
	"sort"
	"strings"
)

// SearchOptions filters a search. From/To accept any expression the date
// normalizer understands. Limit <= 0 means unlimited.
type SearchOptions struct {
	Query string
	Tags  []string
	From  string
	To    string
	Limit int
}

// SearchResult is one matching line.
type SearchResult struct {
	File string   `json:"file"`
	Date string   `json:"date"`
	Line int      `json:"line"`
	Text string   `json:"text"`
	Tags []string `json:"tags"`
}

// Search scans in-range files newest first. Every non-blank line is a
// candidate; a line matches when it contains the query (case-insensitive)
// and its derived tags intersect the tag filter. Matches are collected a
// whole file at a time, then truncated to the limit.
func (s *Store) Search(opts SearchOptions) ([]SearchResult, error) {
	from, to, err := s.resolveRange(opts.From, opts.To)
	if err != nil {
		return nil, err
	}
	dates, err := s.ListDates()
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(opts.Query))
	filter := normalizeTagFilter(opts.Tags)

	results := make([]SearchResult, 0)
	for i := len(dates) - 1; i >= 0; i-- {
		if opts.Limit > 0 && len(results) >= opts.Limit {
			break
		}
		date := dates[i]
		if !DateInRange(date, from, to) {
			continue
		}
		content, _, err := s.ReadDay(date)
		if err != nil {
			return nil, err
		}
		for n, line := range strings.Split(content, "\n") {
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			if query != "" && !strings.Contains(strings.ToLower(text), query) {
				continue
			}
			tags := ExtractTags(text)
			if len(filter) > 0 && !intersects(tags, filter) {
				continue
			}
			results = append(results, SearchResult{
				File: date + fileSuffix,
				Date: date,
				Line: n + 1,
				Text: text,
				Tags: tags,
			})
		}
	}
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

// normalizeTagFilter lowercases requested tags and strips a leading "#".
func normalizeTagFilter(tags []string) map[string]struct{} {
	filter := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#")))
		if tag == "" {
			continue
		}
		filter[tag] = struct{}{}
	}
	return filter
}

func intersects(tags []string, filter map[string]struct{}) bool {
	for _, tag := range tags {
		if _, ok := filter[tag]; ok {
			return true
		}
	}
	return false
}

// RecentEntry is a parsed entry annotated with its file date.
type RecentEntry struct {
	Date string `json:"date"`
	Entry
}

// Recent returns up to limit entries, newest file first and entries within
// a file in reverse write order.
func (s *Store) Recent(limit int) ([]RecentEntry, error) {
	dates, err := s.ListDates()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	out := make([]RecentEntry, 0, limit)
	for i := len(dates) - 1; i >= 0 && len(out) < limit; i-- {
		content, _, err := s.ReadDay(dates[i])
		if err != nil {
			return nil, err
		}
		entries := ParseEntries(content)
		for j := len(entries) - 1; j >= 0 && len(out) < limit; j-- {
			out = append(out, RecentEntry{Date: dates[i], Entry: entries[j]})
		}
	}
	return out, nil
}

// TagCount pairs a tag with its occurrence count.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Tags aggregates tag counts over every file in the store. A tag counts
// once per file it appears in. Sorted descending by count; ties keep
// first-appearance order.
func (s *Store) Tags() ([]TagCount, error) {
	dates, err := s.ListDates()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, date := range dates {
		content, _, err := s.ReadDay(date)
		if err != nil {
			return nil, err
		}
		for _, tag := range ExtractTags(content) {
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}
	return sortTagCounts(counts, order), nil
}

func sortTagCounts(counts map[string]int, order []string) []TagCount {
	out := make([]TagCount, 0, len(order))
	for _, tag := range order {
		out = append(out, TagCount{Tag: tag, Count: counts[tag]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
