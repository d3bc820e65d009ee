package session

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/Zuo-Peng/backtime/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Saturday
var day = time.Date(2014, 3, 1, 0, 0, 0, 0, time.UTC)

func at(name string, hour, minute int) record.Record {
	return record.Record{
		Name:    name,
		Type:    record.TypeFile,
		Created: record.At(day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)),
	}
}

func names(s Session) []string {
	var out []string
	for _, r := range s {
		out = append(out, r.Name)
	}
	return out
}

func TestGroupByGapScenario(t *testing.T) {
	recs := []record.Record{at("a", 9, 0), at("b", 9, 20), at("c", 11, 0)}

	sessions := GroupByGap(recs, time.Hour)
	require.Len(t, sessions, 2)
	assert.Equal(t, []string{"a", "b"}, names(sessions[0]))
	assert.Equal(t, []string{"c"}, names(sessions[1]))

	lines := Summarize(sessions)
	assert.Equal(t, []string{
		"20 minutes starting from Saturday, 01 Mar 2014 at 09:00am",
		"A few minutes starting from Saturday, 01 Mar 2014 at 11:00am",
	}, lines)
}

func TestGroupByGapEmpty(t *testing.T) {
	assert.Nil(t, GroupByGap(nil, time.Hour))
	assert.Equal(t, []string{NoEntriesMessage}, Summarize(GroupByGap(nil, time.Hour)))
	assert.Equal(t, [][]string{{NoEntriesMessage}}, SummaryTable(nil))
}

func TestGroupByGapDropsUndated(t *testing.T) {
	undated := at("x", 9, 10)
	undated.Created = record.None

	sessions := GroupByGap([]record.Record{at("a", 9, 0), undated, at("b", 9, 20)}, time.Hour)
	require.Len(t, sessions, 1)
	assert.Equal(t, []string{"a", "b"}, names(sessions[0]))

	only := GroupByGap([]record.Record{undated}, time.Hour)
	assert.Nil(t, only)
}

func TestGroupByGapMarginInclusive(t *testing.T) {
	recs := []record.Record{at("a", 9, 0), at("b", 10, 0)}
	assert.Len(t, GroupByGap(recs, time.Hour), 1)
	assert.Len(t, GroupByGap(recs, time.Hour-time.Second), 2)
}

func TestGroupByGapChainsNeighbours(t *testing.T) {
	var recs []record.Record
	for i := 0; i < 10; i++ {
		recs = append(recs, at(fmt.Sprint(i), 9+i, 0))
	}
	sessions := GroupByGap(recs, time.Hour)
	require.Len(t, sessions, 1, "gaps are measured between neighbours, not from the session start")
	assert.Equal(t, 9*time.Hour, sessions[0].Duration())
}

func TestGroupByGapDefaultMargin(t *testing.T) {
	recs := []record.Record{at("a", 9, 0), at("b", 10, 0), at("c", 11, 1)}
	assert.Len(t, GroupByGap(recs, DefaultMargin), 2)
	assert.Equal(t, DefaultMargin, NewEngine(DefaultMargin).Margin)
}

func TestGroupByGapZeroMarginJoinsOnlyEqualTimes(t *testing.T) {
	recs := []record.Record{at("a", 9, 0), at("b", 9, 0), at("c", 9, 20), at("d", 9, 40)}

	zero := GroupByGap(recs, 0)
	require.Len(t, zero, 3)
	assert.Equal(t, []string{"a", "b"}, names(zero[0]))

	assert.Len(t, GroupByGap(recs, time.Second), 3)
	assert.Len(t, GroupByGap(recs, -time.Minute), 3, "negative margin counts as zero")
	assert.Equal(t, time.Duration(0), NewEngine(-time.Minute).Margin)
}

func randomTimeline(r *rand.Rand, n int) []record.Record {
	recs := make([]record.Record, n)
	offset := time.Duration(0)
	for i := range recs {
		offset += time.Duration(r.Intn(3*3600)) * time.Second
		recs[i] = record.Record{
			Name:    fmt.Sprint(i),
			Created: record.At(day.Add(offset)),
		}
	}
	return recs
}

func TestGroupByGapPartitionsInput(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		recs := randomTimeline(r, 1+r.Intn(40))
		sessions := GroupByGap(recs, time.Duration(r.Intn(7200))*time.Second)

		var flat []string
		for _, s := range sessions {
			require.NotEmpty(t, s)
			flat = append(flat, names(s)...)
		}
		var want []string
		for _, rec := range recs {
			want = append(want, rec.Name)
		}
		assert.Equal(t, want, flat)
	}
}

func TestGroupByGapCoarserMarginNeverFragmentsMore(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for trial := 0; trial < 50; trial++ {
		recs := randomTimeline(r, 1+r.Intn(40))
		margins := []int{r.Intn(10000), r.Intn(10000) + 1}
		if trial%5 == 0 {
			margins[0] = 0
		}
		sort.Ints(margins)
		fine := GroupByGap(recs, time.Duration(margins[0])*time.Second)
		coarse := GroupByGap(recs, time.Duration(margins[1])*time.Second)
		assert.LessOrEqual(t, len(coarse), len(fine))
	}
}

func TestStartEndUnsorted(t *testing.T) {
	s := Session{at("b", 9, 30), at("a", 9, 0), at("c", 9, 10)}
	assert.Equal(t, day.Add(9*time.Hour), s.Start())
	assert.Equal(t, day.Add(9*time.Hour+30*time.Minute), s.End())
	assert.Equal(t, -20*time.Minute, s.Duration())
	assert.Equal(t, "20 minutes starting from Saturday, 01 Mar 2014 at 09:00am", Sentence(s))
}

func TestSentenceSingleRecord(t *testing.T) {
	s := Session{at("a", 15, 45)}
	assert.Equal(t, "A few minutes starting from Saturday, 01 Mar 2014 at 03:45pm", Sentence(s))
}

func TestSentenceSingular(t *testing.T) {
	s := Session{at("a", 9, 0), at("b", 9, 1)}
	assert.Equal(t, "1 minute starting from Saturday, 01 Mar 2014 at 09:00am", Sentence(s))
}

func TestDurationSignedMinutesAbsolute(t *testing.T) {
	s := Session{at("late", 10, 0), at("early", 9, 30)}
	assert.Equal(t, -30*time.Minute, s.Duration())
	assert.Equal(t, 30, s.Minutes())

	forward := Session{at("early", 9, 30), at("late", 10, 0)}
	assert.Equal(t, forward.Minutes(), s.Minutes())
}

func TestMinutesRound(t *testing.T) {
	a := at("a", 9, 0)
	b := a
	b.Created = record.At(day.Add(9*time.Hour + 90*time.Second))
	assert.Equal(t, 2, Session{a, b}.Minutes())

	b.Created = record.At(day.Add(9*time.Hour + 29*time.Second))
	assert.Equal(t, 0, Session{a, b}.Minutes())
}

func TestSummaryTable(t *testing.T) {
	a, b, c := at("a", 9, 0), at("b", 9, 20), at("c", 11, 0)
	a.Recorded, b.Recorded, c.Recorded = day, day, day

	rows := NewEngine(time.Hour).Table([]record.Record{a, b, c})
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"20 minutes starting from Saturday, 01 Mar 2014 at 09:00am"}, rows[0])
	assert.Equal(t, append([]string{""}, a.Row()...), rows[1])
	assert.Equal(t, append([]string{""}, b.Row()...), rows[2])
	assert.Equal(t, []string{"A few minutes starting from Saturday, 01 Mar 2014 at 11:00am"}, rows[3])
	assert.Equal(t, "", rows[4][0])
	assert.Equal(t, "c", rows[4][1])
}

func TestEngineLines(t *testing.T) {
	e := NewEngine(30 * time.Minute)
	assert.Equal(t, []string{NoEntriesMessage}, e.Lines(nil))
	assert.Len(t, e.Lines([]record.Record{at("a", 9, 0), at("b", 9, 40)}), 2)
}
