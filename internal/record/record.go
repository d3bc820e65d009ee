package record

import "time"

type SourceType string

const (
	TypeFile      SourceType = "File"
	TypeFirefox   SourceType = "FirefoxHistory"
	TypeChrome    SourceType = "ChromeHistory"
	TypeIEHistory SourceType = "IEHistoryViewerEntry"
	TypeEmail     SourceType = "Email"
	TypeOpera     SourceType = "OperaHistory"
)

// OptTime is a point in time that may be absent, e.g. after a failed parse.
type OptTime struct {
	t     time.Time
	valid bool
}

// None is the absent time.
var None = OptTime{}

func At(t time.Time) OptTime {
	return OptTime{t: t, valid: true}
}

func (o OptTime) Get() (time.Time, bool) {
	return o.t, o.valid
}

func (o OptTime) Valid() bool {
	return o.valid
}

// Format renders the time with layout, or "" when absent.
func (o OptTime) Format(layout string) string {
	if !o.valid {
		return ""
	}
	return o.t.Format(layout)
}

// In converts a present time to loc; absent stays absent.
func (o OptTime) In(loc *time.Location) OptTime {
	if !o.valid || loc == nil {
		return o
	}
	return At(o.t.In(loc))
}

type Record struct {
	ID       int64 // 0 until stored
	Name     string
	Path     string // url, filename or mailbox folder depending on Type
	Type     SourceType
	Created  OptTime
	Modified OptTime
	Accessed OptTime
	Recorded time.Time
}

// New builds a record and stamps Recorded with now() when it is zero.
func New(r Record, now func() time.Time) Record {
	if r.Recorded.IsZero() {
		if now == nil {
			now = time.Now
		}
		r.Recorded = now()
	}
	return r
}

// Row returns every field except ID, times in RFC 3339 ("" when absent).
func (r Record) Row() []string {
	return []string{
		r.Name,
		r.Path,
		string(r.Type),
		r.Created.Format(time.RFC3339),
		r.Modified.Format(time.RFC3339),
		r.Accessed.Format(time.RFC3339),
		r.Recorded.Format(time.RFC3339),
	}
}

// Columns matches Row.
var Columns = []string{"name", "path", "type", "created", "modified", "accessed", "recorded"}
