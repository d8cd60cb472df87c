package service

import (
	"sort"
	"time"
)

// ArchiveYear is one entry of the archive index: a year and the months in
// which articles were created, newest first.
type ArchiveYear struct {
	Year   int
	Months []time.Month
}

// BuildArchive derives the archive index from article creation times.
// Timestamps are truncated to (year, month) in UTC and deduplicated; the
// result lists years newest first, each with its months newest first.
func BuildArchive(times []time.Time) []ArchiveYear {
	type yearMonth struct {
		year  int
		month time.Month
	}

	seen := make(map[yearMonth]bool, len(times))
	months := make([]yearMonth, 0, len(times))
	for _, t := range times {
		t = t.UTC()
		ym := yearMonth{year: t.Year(), month: t.Month()}
		if seen[ym] {
			continue
		}
		seen[ym] = true
		months = append(months, ym)
	}

	sort.Slice(months, func(i, j int) bool {
		if months[i].year != months[j].year {
			return months[i].year > months[j].year
		}
		return months[i].month > months[j].month
	})

	index := make(map[int]int)
	archive := []ArchiveYear{}
	for _, ym := range months {
		i, ok := index[ym.year]
		if !ok {
			i = len(archive)
			index[ym.year] = i
			archive = append(archive, ArchiveYear{Year: ym.year})
		}
		archive[i].Months = append(archive[i].Months, ym.month)
	}

	// Grouping above already walks years in order; the sort keeps the
	// contract independent of that.
	sort.SliceStable(archive, func(i, j int) bool {
		return archive[i].Year > archive[j].Year
	})
	return archive
}
