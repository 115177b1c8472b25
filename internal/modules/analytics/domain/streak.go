package domain

import (
	"sort"
	"time"
)

// Streaks computes the current and longest runs of consecutive active
// calendar days. active holds the distinct local dates with at least one
// session, keyed 2006-01-02; today anchors the current-streak walk.
//
// The current streak is 0 unless today or yesterday is active: a reader
// who skipped both has no live streak no matter how long the last run was.
func Streaks(active map[string]bool, today time.Time) (current, longest int) {
	if len(active) == 0 {
		return 0, 0
	}
	today = midnight(today)

	anchor := today
	if !active[dateKey(anchor)] {
		anchor = anchor.AddDate(0, 0, -1)
	}
	if active[dateKey(anchor)] {
		for d := anchor; active[dateKey(d)]; d = d.AddDate(0, 0, -1) {
			current++
		}
	}

	dates := make([]string, 0, len(active))
	for key := range active {
		dates = append(dates, key)
	}
	sort.Strings(dates)

	run := 0
	prev := ""
	for _, key := range dates {
		if run > 0 && key == nextDay(prev) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = key
	}
	return current, longest
}

func nextDay(key string) string {
	d, err := time.ParseInLocation("2006-01-02", key, time.Local)
	if err != nil {
		return ""
	}
	return dateKey(d.AddDate(0, 0, 1))
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
