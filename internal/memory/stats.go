package memory

import (
	"math"
	"strings"
	"time"
)

// DateRange is an inclusive span of canonical dates.
type DateRange struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// DayActivity is a day's entry count.
type DayActivity struct {
	Date    string `json:"date"`
	Entries int    `json:"entries"`
}

// Stats is the aggregate view over the whole store. An empty store yields
// a zeroed Stats, not an error.
type Stats struct {
	TotalFiles           int          `json:"totalFiles"`
	TotalEntries         int          `json:"totalEntries"`
	TotalWords           int          `json:"totalWords"`
	DateRange            *DateRange   `json:"dateRange"`
	AverageEntriesPerDay float64      `json:"averageEntriesPerDay"`
	AverageWordsPerEntry int          `json:"averageWordsPerEntry"`
	MostActiveDay        *DayActivity `json:"mostActiveDay"`
	TopTags              []TagCount   `json:"topTags"`
	CurrentStreak        int          `json:"currentStreak"`
	LongestStreak        int          `json:"longestStreak"`
}

// Stats computes aggregates over all files: totals, averages, the most
// active day, the top 10 tags, and streaks.
func (s *Store) Stats() (*Stats, error) {
	dates, err := s.ListDates()
	if err != nil {
		return nil, err
	}

	st := &Stats{TopTags: []TagCount{}}
	if len(dates) == 0 {
		return st, nil
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, date := range dates {
		content, _, err := s.ReadDay(date)
		if err != nil {
			return nil, err
		}
		entries := ParseEntries(content)
		st.TotalEntries += len(entries)
		st.TotalWords += len(strings.Fields(content))
		if st.MostActiveDay == nil || len(entries) > st.MostActiveDay.Entries {
			st.MostActiveDay = &DayActivity{Date: date, Entries: len(entries)}
		}
		for _, tag := range ExtractTags(content) {
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	st.TotalFiles = len(dates)
	st.DateRange = &DateRange{From: dates[0], To: dates[len(dates)-1]}
	st.AverageEntriesPerDay = math.Round(float64(st.TotalEntries)/float64(st.TotalFiles)*10) / 10
	if st.TotalEntries > 0 {
		st.AverageWordsPerEntry = int(math.Round(float64(st.TotalWords) / float64(st.TotalEntries)))
	}

	top := sortTagCounts(counts, order)
	if len(top) > 10 {
		top = top[:10]
	}
	st.TopTags = top

	st.CurrentStreak, st.LongestStreak = streaks(dates, s.now())
	return st, nil
}

// streaks computes the current and longest runs of consecutive daily
// files. dates are ascending canonical strings. The current streak is 0
// unless the newest file is today or yesterday.
func streaks(dates []string, now time.Time) (current, longest int) {
	if len(dates) == 0 {
		return 0, 0
	}

	desc := make([]string, len(dates))
	for i, d := range dates {
		desc[len(dates)-1-i] = d
	}

	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)

	if desc[0] == today || desc[0] == yesterday {
		current = 1
		for i := 1; i < len(desc); i++ {
			if dayGap(desc[i-1], desc[i]) != 1 {
				break
			}
			current++
		}
	}

	longest = 1
	run := 1
	for i := 1; i < len(desc); i++ {
		if dayGap(desc[i-1], desc[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return current, longest
}

// dayGap is the whole-day difference between two canonical dates. Rounding
// absorbs daylight-saving offsets.
func dayGap(newer, older string) int {
	a, errA := time.Parse(dateLayout, newer)
	b, errB := time.Parse(dateLayout, older)
	if errA != nil || errB != nil {
		return -1
	}
	return int(math.Round(a.Sub(b).Hours() / 24))
}
