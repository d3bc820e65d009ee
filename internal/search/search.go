package search

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Zuo-Peng/backtime/internal/record"
	"github.com/Zuo-Peng/backtime/internal/source"
	"github.com/Zuo-Peng/backtime/internal/timesheet"
)

const dateLayout = "2006-01-02"

var (
	ErrBadDate = errors.New("date must be YYYY-MM-DD")
	ErrBadType = errors.New("unknown record type")
)

type Options struct {
	Query string
	Type  string // record type ("ChromeHistory") or source kind ("chrome"); "" = all
	Since string // "" = no filter, e.g. "2014-03-01"
	Until string // inclusive day
	Limit int

	Location *time.Location // zone the dates are read in; nil = time.Local
}

var kindTypes = map[source.Kind]record.SourceType{
	source.KindFolder:  record.TypeFile,
	source.KindFirefox: record.TypeFirefox,
	source.KindChrome:  record.TypeChrome,
	source.KindIE:      record.TypeIEHistory,
	source.KindMail:    record.TypeEmail,
	source.KindOpera:   record.TypeOpera,
}

// ParseType accepts a stored type name or a source kind, case-insensitively.
func ParseType(s string) (record.SourceType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, typ := range kindTypes {
		if strings.EqualFold(s, string(typ)) {
			return typ, nil
		}
	}
	if kind, err := source.ParseKind(s); err == nil {
		return kindTypes[kind], nil
	}
	return "", fmt.Errorf("%w: %q", ErrBadType, s)
}

// Filter validates opts and turns them into a store filter.
func Filter(opts Options) (timesheet.Filter, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	f := timesheet.Filter{
		Text:  strings.TrimSpace(opts.Query),
		Limit: opts.Limit,
	}

	typ, err := ParseType(opts.Type)
	if err != nil {
		return f, err
	}
	f.Type = typ

	if opts.Since != "" {
		since, err := time.ParseInLocation(dateLayout, opts.Since, loc)
		if err != nil {
			return f, fmt.Errorf("since %q: %w", opts.Since, ErrBadDate)
		}
		f.Since = since
	}
	if opts.Until != "" {
		until, err := time.ParseInLocation(dateLayout, opts.Until, loc)
		if err != nil {
			return f, fmt.Errorf("until %q: %w", opts.Until, ErrBadDate)
		}
		f.Until = until.AddDate(0, 0, 1)
	}
	if !f.Since.IsZero() && !f.Until.IsZero() && !f.Since.Before(f.Until) {
		return f, fmt.Errorf("since %s is after until %s", opts.Since, opts.Until)
	}
	return f, nil
}

// Search returns the matching records in timeline order.
func Search(ts *timesheet.Timesheet, opts Options) ([]record.Record, error) {
	f, err := Filter(opts)
	if err != nil {
		return nil, err
	}
	return ts.Query(f)
}

// Snippet cuts text down to contextChars runes on either side of the first
// case-insensitive match of query and marks the match with >>> <<<.
func Snippet(text, query string, contextChars int) string {
	runes := []rune(text)
	if query == "" {
		if len(runes) > contextChars*2 {
			return string(runes[:contextChars*2]) + "..."
		}
		return text
	}

	qRunes := []rune(strings.ToLower(query))
	lower := []rune(strings.ToLower(text))
	runePos := -1
	if len(lower) == len(runes) {
		runePos = indexRunes(lower, qRunes)
	}
	if runePos < 0 {
		if len(runes) > contextChars*2 {
			return string(runes[:contextChars*2]) + "..."
		}
		return text
	}

	start := max(runePos-contextChars, 0)
	end := min(runePos+len(qRunes)+contextChars, len(runes))
	prefix, suffix := "", ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	return prefix + string(runes[start:runePos]) +
		">>>" + string(runes[runePos:runePos+len(qRunes)]) + "<<<" +
		string(runes[runePos+len(qRunes):end]) + suffix
}

func indexRunes(s, sub []rune) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		match := true
		for j := range sub {
			if s[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
