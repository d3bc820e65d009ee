package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/backtime/internal/record"
	"github.com/Zuo-Peng/backtime/internal/session"
)

const (
	colorReset   = "\033[0m"
	colorHeader  = "\033[1;36m" // bold cyan
	colorFile    = "\033[1;34m" // bold blue
	colorBrowser = "\033[1;32m" // bold green
	colorMail    = "\033[1;35m" // bold magenta
	colorDim     = "\033[2m"
	colorBoldRed = "\033[1;31m" // bold red for keyword highlights
)

const timeLayout = "2006-01-02 15:04:05"

type Options struct {
	Width int    // wrap width (0 = no wrap)
	Plain bool   // no ANSI colour
	Query string // terms to highlight in names and paths
}

// palette holds the escape codes in use; all empty when plain.
type palette struct {
	reset, header, dim, hit string
	types                   map[record.SourceType]string
}

func newPalette(plain bool) palette {
	if plain {
		return palette{types: map[record.SourceType]string{}}
	}
	return palette{
		reset:  colorReset,
		header: colorHeader,
		dim:    colorDim,
		hit:    colorBoldRed,
		types: map[record.SourceType]string{
			record.TypeFile:      colorFile,
			record.TypeFirefox:   colorBrowser,
			record.TypeChrome:    colorBrowser,
			record.TypeIEHistory: colorBrowser,
			record.TypeOpera:     colorBrowser,
			record.TypeEmail:     colorMail,
		},
	}
}

// highlightKeywords wraps case-insensitive matches of query terms in hit colour.
func highlightKeywords(text, query string, p palette) string {
	if query == "" || p.hit == "" {
		return text
	}
	for _, term := range strings.Fields(query) {
		lower := strings.ToLower(term)
		i := 0
		for i < len(text) {
			idx := strings.Index(strings.ToLower(text[i:]), lower)
			if idx < 0 {
				break
			}
			pos := i + idx
			// ToLower can change byte lengths; only highlight when the slice lines up
			if pos+len(term) > len(text) || !strings.EqualFold(text[pos:pos+len(term)], term) {
				break
			}
			replacement := p.hit + text[pos:pos+len(term)] + p.reset
			text = text[:pos] + replacement + text[pos+len(term):]
			i = pos + len(replacement)
		}
	}
	return text
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth && visW > 0 {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

// Session renders the session sentence followed by one block per member.
func Session(s session.Session, opts Options) string {
	p := newPalette(opts.Plain)
	if len(s) == 0 {
		return "(empty session)\n"
	}

	var b strings.Builder
	writeLine := func(line string) {
		for _, wl := range wrapLine(line, opts.Width) {
			b.WriteString(wl)
			b.WriteString("\n")
		}
	}

	writeLine(fmt.Sprintf("%s%s%s", p.header, session.Sentence(s), p.reset))
	writeLine(fmt.Sprintf("%s%d entries, %s to %s%s", p.dim, s.Len(),
		s.Start().Format(timeLayout), s.End().Format(timeLayout), p.reset))

	separator := p.dim + strings.Repeat("-", 50) + p.reset
	for i, r := range s {
		if i > 0 {
			writeLine(separator)
		}
		writeLine(fmt.Sprintf("%s%s >%s %s%s%s", p.types[r.Type], typeLabel(r.Type), p.reset,
			p.dim, r.Created.Format(timeLayout), p.reset))

		name := r.Name
		if name == "" {
			name = "(untitled)"
		}
		for _, l := range strings.Split(indentLines(highlightKeywords(name, opts.Query, p), "  "), "\n") {
			writeLine(l)
		}
		writeLine("  " + p.dim + highlightKeywords(r.Path, opts.Query, p) + p.reset)
	}
	return b.String()
}

// Sessions renders each session separated by a blank line.
func Sessions(sessions []session.Session, opts Options) string {
	if len(sessions) == 0 {
		return session.NoEntriesMessage + "\n"
	}
	parts := make([]string, len(sessions))
	for i, s := range sessions {
		parts[i] = Session(s, opts)
	}
	return strings.Join(parts, "\n")
}

func typeLabel(t record.SourceType) string {
	switch t {
	case record.TypeFile:
		return "FILE"
	case record.TypeFirefox:
		return "FIREFOX"
	case record.TypeChrome:
		return "CHROME"
	case record.TypeIEHistory:
		return "IE"
	case record.TypeOpera:
		return "OPERA"
	case record.TypeEmail:
		return "MAIL"
	default:
		return strings.ToUpper(string(t))
	}
}
