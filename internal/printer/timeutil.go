package printer

import (
	"fmt"
	"time"
)

var ageUnits = []struct {
	size   time.Duration
	suffix string
}{
	{24 * time.Hour, "d"},
	{time.Hour, "h"},
	{time.Minute, "m"},
	{time.Second, "s"},
}

// TimeAgo returns the compact age of a task creation time, like "42s ago", "3m ago"
// or "2d ago". Ages under a second (and clock skewed future times) are "just now".
func TimeAgo(t time.Time) string {
	return timeAgo(time.Now(), t)
}

func timeAgo(now, t time.Time) string {
	age := now.Sub(t)
	for _, u := range ageUnits {
		if age >= u.size {
			return fmt.Sprintf("%d%s ago", age/u.size, u.suffix)
		}
	}
	return "just now"
}

// FormatTimestamp returns a task time in UTC with second precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}
