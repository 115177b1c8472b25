package timefmt

import (
	"fmt"
	"time"
)

// Duration renders a reading duration for display: "42s", "12m", "1h 05m".
func Duration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %02dm", hours, minutes)
}

// Day renders a calendar-date key the way the analytics engine buckets days.
func Day(t time.Time) string {
	return t.Format("2006-01-02")
}
