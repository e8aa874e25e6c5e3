package goquery_test

import (
	"testing"
	"time"

	"github.com/fwojciec/datescrub"
	"github.com/fwojciec/datescrub/goquery"
	"github.com/fwojciec/datescrub/mock"
	"github.com/fwojciec/datescrub/timestamp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func newFilter(t *testing.T) *goquery.Filter {
	t.Helper()
	g, err := timestamp.New(datescrub.DefaultConfig())
	require.NoError(t, err)
	return goquery.NewFilter(g)
}

func singleEntry(t *testing.T, src string) goquery.Entry {
	t.Helper()
	entries := goquery.NewLocator([]string{"_3-95"}).FindEntries(parse(t, src))
	require.Len(t, entries, 1)
	return entries[0]
}

func TestFilter_Evaluate(t *testing.T) {
	t.Parallel()

	const twoStamps = `<div class="_3-95">
	<div>Created Jan 5, 2021, 3:00 PM</div>
	<div>Updated Jan 10, 2021, 9:00 AM</div>
</div>`

	tests := []struct {
		name   string
		window datescrub.Window
		want   datescrub.Verdict
	}{
		{
			name:   "span straddling the window is kept",
			window: datescrub.Window{Start: day(2021, time.January, 6), End: day(2021, time.January, 9)},
			want:   datescrub.Keep,
		},
		{
			name:   "span entirely before the window is discarded",
			window: datescrub.Window{Start: day(2021, time.January, 11), End: day(2100, time.December, 31)},
			want:   datescrub.Discard,
		},
		{
			name:   "span entirely after the window is discarded",
			window: datescrub.Window{Start: day(1970, time.January, 1), End: day(2021, time.January, 5)},
			want:   datescrub.Discard,
		},
	}

	f := newFilter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ev := f.Evaluate(singleEntry(t, twoStamps), tt.window)

			assert.Equal(t, tt.want, ev.Verdict)
			require.True(t, ev.HasSpan)
			assert.Equal(t, time.Date(2021, time.January, 5, 15, 0, 0, 0, time.UTC), ev.Span.Min)
			assert.Equal(t, time.Date(2021, time.January, 10, 9, 0, 0, 0, time.UTC), ev.Span.Max)
			assert.Equal(t, 2, ev.Candidates)
			assert.Equal(t, 2, ev.Usable)
		})
	}
}

func TestFilter_Evaluate_KeepsEntriesWithoutTimestamps(t *testing.T) {
	t.Parallel()

	f := newFilter(t)
	w := datescrub.Window{Start: day(2021, time.January, 11), End: day(2021, time.January, 12)}

	ev := f.Evaluate(singleEntry(t, `<div class="_3-95">No date here, just 3:00 PM.</div>`), w)

	assert.Equal(t, datescrub.Keep, ev.Verdict)
	assert.False(t, ev.HasSpan)
	assert.Zero(t, ev.Candidates)
}

func TestFilter_Evaluate_KeepsEntriesWithOnlyUnusableCandidates(t *testing.T) {
	t.Parallel()

	f := newFilter(t)
	w := datescrub.Window{Start: day(2021, time.January, 11), End: day(2021, time.January, 12)}

	ev := f.Evaluate(singleEntry(t, `<div class="_3-95">Feb 30, 2021 3:00pm</div>`), w)

	assert.Equal(t, datescrub.Keep, ev.Verdict)
	assert.Equal(t, 1, ev.Candidates)
	assert.Zero(t, ev.Usable)
}

func TestFilter_Evaluate_Boundaries(t *testing.T) {
	t.Parallel()

	f := newFilter(t)
	stamp := time.Date(2021, time.January, 5, 15, 0, 0, 0, time.UTC)
	entry := `<div class="_3-95">Jan 5, 2021 3:00pm</div>`

	t.Run("timestamp equal to start is kept", func(t *testing.T) {
		t.Parallel()

		w := datescrub.Window{Start: stamp, End: day(2022, time.January, 1)}

		assert.Equal(t, datescrub.Keep, f.Evaluate(singleEntry(t, entry), w).Verdict)
	})

	t.Run("timestamp equal to end is discarded", func(t *testing.T) {
		t.Parallel()

		w := datescrub.Window{Start: day(2020, time.January, 1), End: stamp}

		assert.Equal(t, datescrub.Discard, f.Evaluate(singleEntry(t, entry), w).Verdict)
	})
}

func TestFilter_Evaluate_PassesEntryText(t *testing.T) {
	t.Parallel()

	var got string
	extractor := &mock.TimestampExtractor{
		ExtractFn: func(text string) []datescrub.Candidate {
			got = text
			return nil
		},
	}
	f := goquery.NewFilter(extractor)

	f.Evaluate(singleEntry(t, `<div class="_3-95"><b>a</b><i>b</i></div>`), datescrub.Window{})

	assert.Equal(t, "ab", got)
}
