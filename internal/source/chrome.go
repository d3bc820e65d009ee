package source

import "github.com/Zuo-Peng/backtime/internal/record"

const chromeVisits = `
SELECT v.visit_time, u.id, u.url, u.title
FROM visits v
LEFT JOIN urls u ON u.id = v.url
ORDER BY v.id`

// Chrome reads the "History" database of a Chrome profile (often Default/History).
type Chrome struct {
	opts Options
}

func (c *Chrome) Import(path string) ([]record.Record, error) {
	return importVisits(c.opts, path, chromeVisits, record.TypeChrome, ChromeTime)
}
