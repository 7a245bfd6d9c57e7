package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBackfillDaily(t *testing.T) {
	sums := map[string]float64{
		"2026-03-02": 120.5,
		"2026-03-04": 80,
	}
	series := Backfill(sums, day("2026-03-01"), day("2026-03-05"), BucketDay)

	require.Len(t, series, 5)
	assert.Equal(t, Point{Label: "2026-03-01", Value: 0}, series[0])
	assert.Equal(t, Point{Label: "2026-03-02", Value: 120.5}, series[1])
	assert.Equal(t, Point{Label: "2026-03-03", Value: 0}, series[2])
	assert.Equal(t, Point{Label: "2026-03-04", Value: 80}, series[3])
	assert.Equal(t, Point{Label: "2026-03-05", Value: 0}, series[4])
}

func TestBackfillMonthly(t *testing.T) {
	sums := map[string]float64{"2026-02": 42}
	series := Backfill(sums, day("2026-01-15"), day("2026-03-20"), BucketMonth)

	require.Len(t, series, 3)
	assert.Equal(t, "2026-01", series[0].Label)
	assert.Zero(t, series[0].Value)
	assert.Equal(t, 42.0, series[1].Value)
	assert.Equal(t, "2026-03", series[2].Label)
	assert.Zero(t, series[2].Value)
}

func TestBackfillYearly(t *testing.T) {
	series := Backfill(nil, day("2024-06-01"), day("2026-01-01"), BucketYear)

	require.Len(t, series, 3)
	assert.Equal(t, "2024", series[0].Label)
	assert.Equal(t, "2025", series[1].Label)
	assert.Equal(t, "2026", series[2].Label)
	for _, p := range series {
		assert.Zero(t, p.Value)
	}
}

func TestBackfillSingleBucket(t *testing.T) {
	from := day("2026-05-10")
	series := Backfill(map[string]float64{"2026-05-10": 7}, from, from, BucketDay)
	require.Len(t, series, 1)
	assert.Equal(t, 7.0, series[0].Value)
}

func TestAvgOrderValue(t *testing.T) {
	assert.Equal(t, 50.0, AvgOrderValue(150, 3))
	// zero orders must not divide
	assert.Zero(t, AvgOrderValue(150, 0))
	assert.Zero(t, AvgOrderValue(150, -1))
}
