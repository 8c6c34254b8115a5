package query

import (
	"fmt"
	"math"
	"time"
)

// Remaining is the time left before a deadline
type Remaining struct {
	// Left is deadline minus now. It keeps decreasing past the deadline.
	Left    time.Duration
	Overdue bool
}

// Until computes the time remaining from now to deadline
func Until(deadline, now time.Time) Remaining {
	left := deadline.Sub(now)
	return Remaining{Left: left, Overdue: left <= 0}
}

// Label renders the remaining time the way request cards show it:
// "Overdue", "5h left" under a day, "3d left" otherwise.
func (r Remaining) Label() string {
	if r.Overdue {
		return "Overdue"
	}
	hours := int(math.Ceil(r.Left.Hours()))
	if hours < 24 {
		return fmt.Sprintf("%dh left", hours)
	}
	days := int(math.Ceil(float64(hours) / 24))
	return fmt.Sprintf("%dd left", days)
}
