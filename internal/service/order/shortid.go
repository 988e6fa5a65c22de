package order

import (
	"fmt"
	"time"
)

const (
	orderPrefix  = "MM"
	parentPrefix = "FC"
)

// shortOrderID renders the human-readable id vendors call out:
// <PREFIX>-<sequence>-<last four digits of epoch millis>. Uniqueness is
// enforced by the database; callers retry with a fresh suffix on conflict.
func shortOrderID(prefix string, seq int64, now time.Time) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, seq, now.UnixMilli()%10000)
}
