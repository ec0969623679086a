// Package eventlog implements the bucketed, append-only notification log:
// a time-partitioned sequence of MessageLogged events addressed by a
// bucket id derived from the message's own event id.
package eventlog

import (
	"errors"
	"strings"
	"time"
)

// BucketSize names the granularity a Log partitions its messages by.
type BucketSize string

// Canonical bucket sizes. ParseBucketSize also accepts any string with one
// of these as a prefix ("hourly", "days", "seconds", ...).
const (
	BucketYear   BucketSize = "year"
	BucketMonth  BucketSize = "month"
	BucketDay    BucketSize = "day"
	BucketHour   BucketSize = "hour"
	BucketMinute BucketSize = "minute"
	BucketSecond BucketSize = "second"
)

// ErrUnknownBucketSize is returned by ParseBucketSize when no canonical
// size prefixes the input.
var ErrUnknownBucketSize = errors.New("eventlog: unknown bucket size")

// ParseBucketSize resolves a free-form bucket size string ("hour",
// "hourly", "HOUR") to a canonical BucketSize by case-insensitive prefix
// match. No canonical name is a prefix of another, so the order they are
// tried in does not change the result.
func ParseBucketSize(s string) (BucketSize, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, bs := range []BucketSize{BucketYear, BucketMonth, BucketDay, BucketHour, BucketMinute, BucketSecond} {
		if strings.HasPrefix(lower, string(bs)) {
			return bs, nil
		}
	}
	return "", ErrUnknownBucketSize
}

// BucketStarts truncates t (converted to UTC) down to the start of the
// bucket of size bs that contains it.
func BucketStarts(t time.Time, bs BucketSize) time.Time {
	u := t.UTC()
	switch bs {
	case BucketYear:
		return time.Date(u.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	case BucketMonth:
		return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
	case BucketDay:
		return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	case BucketHour:
		return time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), 0, 0, 0, time.UTC)
	case BucketMinute:
		return time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), u.Minute(), 0, 0, time.UTC)
	case BucketSecond:
		return time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), u.Minute(), u.Second(), 0, time.UTC)
	default:
		return u
	}
}

// offsetBucket adds n buckets of size bs to t.
func offsetBucket(t time.Time, bs BucketSize, n int) time.Time {
	switch bs {
	case BucketYear:
		return t.AddDate(n, 0, 0)
	case BucketMonth:
		return t.AddDate(0, n, 0)
	case BucketDay:
		return t.AddDate(0, 0, n)
	case BucketHour:
		return t.Add(time.Duration(n) * time.Hour)
	case BucketMinute:
		return t.Add(time.Duration(n) * time.Minute)
	case BucketSecond:
		return t.Add(time.Duration(n) * time.Second)
	default:
		return t
	}
}

// NextBucketStarts returns the start time of the bucket immediately after
// the one containing t.
func NextBucketStarts(t time.Time, bs BucketSize) time.Time {
	return offsetBucket(BucketStarts(t, bs), bs, 1)
}

// PreviousBucketStarts returns the start time of the bucket immediately
// before the one containing t.
func PreviousBucketStarts(t time.Time, bs BucketSize) time.Time {
	return offsetBucket(BucketStarts(t, bs), bs, -1)
}

// BucketDuration returns the length of the bucket of size bs containing t.
// Year and month buckets vary in length (leap years, 28-31 day months), so
// this is always computed relative to a specific instant rather than
// cached as a fixed duration.
func BucketDuration(t time.Time, bs BucketSize) time.Duration {
	start := BucketStarts(t, bs)
	return offsetBucket(start, bs, 1).Sub(start)
}

// MakeBucketID formats the bucket identifier a message with timestamp t
// falls into, for a log named logName.
func MakeBucketID(logName string, t time.Time, bs BucketSize) string {
	u := t.UTC()
	var suffix string
	switch bs {
	case BucketYear:
		suffix = u.Format("2006")
	case BucketMonth:
		suffix = u.Format("2006-01")
	case BucketDay:
		suffix = u.Format("2006-01-02")
	case BucketHour:
		suffix = u.Format("2006-01-02_15")
	case BucketMinute:
		suffix = u.Format("2006-01-02_15-04")
	case BucketSecond:
		suffix = u.Format("2006-01-02_15-04-05")
	}
	return logName + "_" + suffix
}
