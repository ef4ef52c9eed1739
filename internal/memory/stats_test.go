package memory

import (
	"testing"
)

func TestStats_EmptyStore(t *testing.T) {
	s := testStore(t)

	st, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if st.TotalFiles != 0 || st.TotalEntries != 0 || st.TotalWords != 0 {
		t.Errorf("totals = %d/%d/%d, want zeroes", st.TotalFiles, st.TotalEntries, st.TotalWords)
	}
	if st.DateRange != nil {
		t.Errorf("dateRange = %+v, want nil", st.DateRange)
	}
	if st.MostActiveDay != nil {
		t.Errorf("mostActiveDay = %+v, want nil", st.MostActiveDay)
	}
	if st.CurrentStreak != 0 || st.LongestStreak != 0 {
		t.Errorf("streaks = %d/%d, want 0/0", st.CurrentStreak, st.LongestStreak)
	}
}

func TestStats_Totals(t *testing.T) {
	s := testStore(t)
	writeDay(t, s, "2026-08-20", "# 2026-08-20\n\n- **09:00** — one two #work\n- **10:00** — three\n")
	writeDay(t, s, "2026-08-22", "# 2026-08-22\n\n- **09:00** — four five six #work\n")

	st, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if st.TotalFiles != 2 {
		t.Errorf("totalFiles = %d, want 2", st.TotalFiles)
	}
	if st.TotalEntries != 3 {
		t.Errorf("totalEntries = %d, want 3", st.TotalEntries)
	}
	if st.DateRange == nil || st.DateRange.From != "2026-08-20" || st.DateRange.To != "2026-08-22" {
		t.Errorf("dateRange = %+v", st.DateRange)
	}
	if st.AverageEntriesPerDay != 1.5 {
		t.Errorf("averageEntriesPerDay = %v, want 1.5", st.AverageEntriesPerDay)
	}
	if st.AverageWordsPerEntry <= 0 {
		t.Errorf("averageWordsPerEntry = %d, want > 0", st.AverageWordsPerEntry)
	}
	if st.MostActiveDay == nil || st.MostActiveDay.Date != "2026-08-20" || st.MostActiveDay.Entries != 2 {
		t.Errorf("mostActiveDay = %+v, want 2026-08-20/2", st.MostActiveDay)
	}
	if len(st.TopTags) == 0 || st.TopTags[0].Tag != "work" || st.TopTags[0].Count != 2 {
		t.Errorf("topTags = %+v", st.TopTags)
	}
}

func TestStats_MostActiveDayTieKeepsEarliest(t *testing.T) {
	s := testStore(t)
	writeDay(t, s, "2026-08-20", "- **09:00** — a\n")
	writeDay(t, s, "2026-08-21", "- **09:00** — b\n")

	st, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if st.MostActiveDay == nil || st.MostActiveDay.Date != "2026-08-20" {
		t.Errorf("mostActiveDay = %+v, want 2026-08-20", st.MostActiveDay)
	}
}

func TestStreaks_ConsecutiveRunEndingToday(t *testing.T) {
	s := testStore(t)
	writeDay(t, s, "2026-08-21", "a")
	writeDay(t, s, "2026-08-22", "b")
	writeDay(t, s, "2026-08-23", "c")

	st, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if st.CurrentStreak != 3 {
		t.Errorf("currentStreak = %d, want 3", st.CurrentStreak)
	}
	if st.LongestStreak != 3 {
		t.Errorf("longestStreak = %d, want 3", st.LongestStreak)
	}
}

func TestStreaks_GapBreaksRun(t *testing.T) {
	s := testStore(t)
	writeDay(t, s, "2026-08-21", "a")
	writeDay(t, s, "2026-08-23", "b")

	st, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if st.CurrentStreak != 1 {
		t.Errorf("currentStreak = %d, want 1", st.CurrentStreak)
	}
	if st.LongestStreak != 1 {
		t.Errorf("longestStreak = %d, want 1", st.LongestStreak)
	}
}

func TestStreaks_StaleStoreHasNoCurrentStreak(t *testing.T) {
	s := testStore(t)
	writeDay(t, s, "2026-08-17", "a")
	writeDay(t, s, "2026-08-18", "b")

	st, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if st.CurrentStreak != 0 {
		t.Errorf("currentStreak = %d, want 0", st.CurrentStreak)
	}
	if st.LongestStreak != 2 {
		t.Errorf("longestStreak = %d, want 2", st.LongestStreak)
	}
}

func TestStreaks_YesterdayStartsCurrentStreak(t *testing.T) {
	s := testStore(t)
	writeDay(t, s, "2026-08-21", "a")
	writeDay(t, s, "2026-08-22", "b")

	st, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if st.CurrentStreak != 2 {
		t.Errorf("currentStreak = %d, want 2", st.CurrentStreak)
	}
}
