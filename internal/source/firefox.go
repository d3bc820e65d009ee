package source

import "github.com/Zuo-Peng/backtime/internal/record"

const firefoxVisits = `
SELECT v.visit_date, p.id, p.url, p.title
FROM moz_historyvisits v
LEFT JOIN moz_places p ON p.id = v.place_id
ORDER BY v.id`

// Firefox reads places.sqlite from a Firefox profile.
type Firefox struct {
	opts Options
}

func (f *Firefox) Import(path string) ([]record.Record, error) {
	return importVisits(f.opts, path, firefoxVisits, record.TypeFirefox, FirefoxTime)
}
