// Package session rebuilds contiguous stretches of activity from a timeline.
package session

import (
	"time"

	"github.com/Zuo-Peng/backtime/internal/record"
)

// DefaultMargin is the largest gap between neighbours of one session.
const DefaultMargin = time.Hour

// Session is a non-empty run of records in arrival order.
type Session []record.Record

func (s Session) Len() int {
	return len(s)
}

func (s Session) First() record.Record {
	return s[0]
}

func (s Session) Last() record.Record {
	return s[len(s)-1]
}

// Start is the earliest created time among the members.
func (s Session) Start() time.Time {
	start, _ := s.First().Created.Get()
	for _, r := range s[1:] {
		if t, ok := r.Created.Get(); ok && t.Before(start) {
			start = t
		}
	}
	return start
}

// End is the latest created time among the members.
func (s Session) End() time.Time {
	end, _ := s.First().Created.Get()
	for _, r := range s[1:] {
		if t, ok := r.Created.Get(); ok && t.After(end) {
			end = t
		}
	}
	return end
}

// Duration is last minus first in arrival order, so it can be negative
// for unsorted input.
func (s Session) Duration() time.Duration {
	first, _ := s.First().Created.Get()
	last, _ := s.Last().Created.Get()
	return last.Sub(first)
}

// Timed drops records without a created time; they cannot be placed on the timeline.
func Timed(recs []record.Record) []record.Record {
	out := make([]record.Record, 0, len(recs))
	for _, r := range recs {
		if r.Created.Valid() {
			out = append(out, r)
		}
	}
	return out
}

// GroupByGap splits recs (expected ascending by created) into sessions.
// Each record is compared with the one before it: a gap of at most margin
// keeps it in the current session, so a zero margin only joins equal
// timestamps. A negative margin counts as zero. Empty input returns nil.
func GroupByGap(recs []record.Record, margin time.Duration) []Session {
	margin = max(margin, 0)
	timed := Timed(recs)
	if len(timed) == 0 {
		return nil
	}

	var sessions []Session
	current := Session{timed[0]}
	prev, _ := timed[0].Created.Get()

	for _, r := range timed[1:] {
		t, _ := r.Created.Get()
		if t.Sub(prev) <= margin {
			current = append(current, r)
		} else {
			sessions = append(sessions, current)
			current = Session{r}
		}
		prev = t
	}

	return append(sessions, current)
}
