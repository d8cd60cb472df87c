//go:build unit

package service

import (
	"reflect"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestBuildArchive(t *testing.T) {
	testCases := []struct {
		name     string
		times    []time.Time
		expected []ArchiveYear
	}{
		{
			name:     "empty",
			times:    nil,
			expected: []ArchiveYear{},
		},
		{
			name:  "duplicates within a month collapse",
			times: []time.Time{date(2024, 1, 5), date(2024, 1, 20), date(2023, 11, 2)},
			expected: []ArchiveYear{
				{Year: 2024, Months: []time.Month{time.January}},
				{Year: 2023, Months: []time.Month{time.November}},
			},
		},
		{
			name: "unsorted input is ordered newest first",
			times: []time.Time{
				date(2022, 3, 1), date(2024, 2, 1), date(2022, 12, 9),
				date(2024, 11, 30), date(2023, 6, 6), date(2024, 2, 28),
			},
			expected: []ArchiveYear{
				{Year: 2024, Months: []time.Month{time.November, time.February}},
				{Year: 2023, Months: []time.Month{time.June}},
				{Year: 2022, Months: []time.Month{time.December, time.March}},
			},
		},
		{
			name:  "non-UTC timestamps are bucketed in UTC",
			times: []time.Time{time.Date(2024, 1, 1, 1, 0, 0, 0, time.FixedZone("CET", 3600*2))},
			expected: []ArchiveYear{
				{Year: 2023, Months: []time.Month{time.December}},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildArchive(tc.times)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("BuildArchive() = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestBuildArchive_Invariants(t *testing.T) {
	var times []time.Time
	for i := 0; i < 200; i++ {
		times = append(times, date(2015+(i*7)%9, time.Month(1+(i*5)%12), 1+i%28))
	}

	archive := BuildArchive(times)
	for i := 1; i < len(archive); i++ {
		if archive[i-1].Year <= archive[i].Year {
			t.Fatalf("years not strictly descending at %d: %d then %d", i, archive[i-1].Year, archive[i].Year)
		}
	}
	for _, y := range archive {
		for i := 1; i < len(y.Months); i++ {
			if y.Months[i-1] <= y.Months[i] {
				t.Errorf("months of %d not strictly descending: %v", y.Year, y.Months)
			}
		}
	}
}
