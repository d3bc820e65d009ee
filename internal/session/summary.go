package session

import (
	"fmt"
	"math"
	"time"

	"github.com/Zuo-Peng/backtime/internal/record"
)

// NoEntriesMessage stands in for the summary of an empty timeline.
const NoEntriesMessage = "There are no entries to summarize! Try to import some data first."

const startLayout = "Monday, 02 Jan 2006 at 03:04pm"

// Minutes is the absolute duration rounded to whole minutes.
func (s Session) Minutes() int {
	d := s.Duration()
	if d < 0 {
		d = -d
	}
	return int(math.Round(d.Minutes()))
}

// Sentence describes the session, e.g. "20 minutes starting from Saturday, 01 Mar 2014 at 09:00am".
func Sentence(s Session) string {
	n := s.Minutes()
	count := fmt.Sprint(n)
	if n == 0 {
		count = "A few"
	}
	unit := "minutes"
	if n == 1 {
		unit = "minute"
	}
	return fmt.Sprintf("%s %s starting from %s", count, unit, s.Start().Format(startLayout))
}

// Summarize returns one sentence per session, or the placeholder when there are none.
func Summarize(sessions []Session) []string {
	if len(sessions) == 0 {
		return []string{NoEntriesMessage}
	}
	lines := make([]string, len(sessions))
	for i, s := range sessions {
		lines[i] = Sentence(s)
	}
	return lines
}

// SummaryTable interleaves a one-cell summary row before the member rows of
// each session. Member rows lead with an empty cell under the summary column.
func SummaryTable(sessions []Session) [][]string {
	if len(sessions) == 0 {
		return [][]string{{NoEntriesMessage}}
	}
	var rows [][]string
	for _, s := range sessions {
		rows = append(rows, []string{Sentence(s)})
		for _, r := range s {
			rows = append(rows, append([]string{""}, r.Row()...))
		}
	}
	return rows
}

// Engine carries the margin chosen at construction.
type Engine struct {
	Margin time.Duration
}

// NewEngine uses margin as given; callers pick DefaultMargin when none was
// configured. A negative margin counts as zero.
func NewEngine(margin time.Duration) *Engine {
	return &Engine{Margin: max(margin, 0)}
}

func (e *Engine) Sessions(recs []record.Record) []Session {
	return GroupByGap(recs, e.Margin)
}

func (e *Engine) Lines(recs []record.Record) []string {
	return Summarize(e.Sessions(recs))
}

func (e *Engine) Table(recs []record.Record) [][]string {
	return SummaryTable(e.Sessions(recs))
}
