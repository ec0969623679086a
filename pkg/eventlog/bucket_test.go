package eventlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBucketSize(t *testing.T) {
	t.Run("canonical names", func(t *testing.T) {
		for _, tc := range []struct {
			in   string
			want BucketSize
		}{
			{"year", BucketYear},
			{"month", BucketMonth},
			{"day", BucketDay},
			{"hour", BucketHour},
			{"minute", BucketMinute},
			{"second", BucketSecond},
		} {
			got, err := ParseBucketSize(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		}
	})

	t.Run("decorated names accepted by prefix", func(t *testing.T) {
		for _, tc := range []struct {
			in   string
			want BucketSize
		}{
			{"hourly", BucketHour},
			{"days", BucketDay},
			{"Seconds", BucketSecond},
			{"  minutely", BucketMinute},
		} {
			got, err := ParseBucketSize(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		}
	})

	t.Run("unknown size", func(t *testing.T) {
		_, err := ParseBucketSize("fortnight")
		assert.ErrorIs(t, err, ErrUnknownBucketSize)
	})
}

func TestBucketStarts(t *testing.T) {
	at := time.Date(2026, time.March, 5, 14, 37, 22, 500, time.UTC)

	t.Run("hour", func(t *testing.T) {
		assert.Equal(t, time.Date(2026, time.March, 5, 14, 0, 0, 0, time.UTC), BucketStarts(at, BucketHour))
	})
	t.Run("day", func(t *testing.T) {
		assert.Equal(t, time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC), BucketStarts(at, BucketDay))
	})
	t.Run("month", func(t *testing.T) {
		assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), BucketStarts(at, BucketMonth))
	})
	t.Run("converts non-UTC input to UTC first", func(t *testing.T) {
		loc := time.FixedZone("test", -5*3600)
		local := at.In(loc)
		assert.Equal(t, BucketStarts(at, BucketHour), BucketStarts(local, BucketHour))
	})
}

func TestNextAndPreviousBucketStarts(t *testing.T) {
	at := time.Date(2026, time.January, 31, 10, 0, 0, 0, time.UTC)

	t.Run("month bucket advances to the first of the next calendar month", func(t *testing.T) {
		next := NextBucketStarts(at, BucketMonth)
		assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), next)
	})
	t.Run("previous undoes next from the same start", func(t *testing.T) {
		start := BucketStarts(at, BucketHour)
		next := NextBucketStarts(at, BucketHour)
		assert.Equal(t, start, PreviousBucketStarts(next, BucketHour))
	})
}

func TestBucketDuration(t *testing.T) {
	t.Run("hour bucket is exactly one hour", func(t *testing.T) {
		at := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Hour, BucketDuration(at, BucketHour))
	})
	t.Run("february is shorter than a 31-day month", func(t *testing.T) {
		feb := time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)
		jan := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
		assert.Less(t, BucketDuration(feb, BucketMonth), BucketDuration(jan, BucketMonth))
	})
}

func TestMakeBucketID(t *testing.T) {
	at := time.Date(2026, time.March, 5, 14, 37, 22, 0, time.UTC)

	for _, tc := range []struct {
		bs   BucketSize
		want string
	}{
		{BucketYear, "orders_2026"},
		{BucketMonth, "orders_2026-03"},
		{BucketDay, "orders_2026-03-05"},
		{BucketHour, "orders_2026-03-05_14"},
		{BucketMinute, "orders_2026-03-05_14-37"},
		{BucketSecond, "orders_2026-03-05_14-37-22"},
	} {
		assert.Equal(t, tc.want, MakeBucketID("orders", at, tc.bs))
	}
}
