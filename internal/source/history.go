package source

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Zuo-Peng/backtime/internal/record"

	_ "modernc.org/sqlite"
)

// seconds between 1601-01-01 (WebKit/Windows epoch) and 1970-01-01
const webkitEpochOffset = 11644473600

// FirefoxTime converts a moz_historyvisits.visit_date (microseconds since
// the Unix epoch), truncated to whole seconds.
func FirefoxTime(micros int64) time.Time {
	return time.Unix(floorSeconds(micros), 0).UTC()
}

// ChromeTime converts a visits.visit_time (microseconds since 1601-01-01 UTC),
// truncated to whole seconds.
func ChromeTime(micros int64) time.Time {
	return time.Unix(floorSeconds(micros)-webkitEpochOffset, 0).UTC()
}

// floorSeconds rounds micros down to whole seconds, toward minus infinity.
func floorSeconds(micros int64) int64 {
	sec := micros / 1_000_000
	if micros%1_000_000 < 0 {
		sec--
	}
	return sec
}

// openHistory opens a browser history database without writing to it.
func openHistory(path string) (*sql.DB, error) {
	info, err := requireInput(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", path)
	}
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// visitRow is one visit joined with its (possibly missing) page row.
type visitRow struct {
	when   sql.NullInt64
	pageID sql.NullInt64
	url    sql.NullString
	title  sql.NullString
}

// importVisits runs query, which must select visit time, page id, url and
// title, and turns each row with a page into a record.
func importVisits(opts Options, path, query string, typ record.SourceType, convert func(int64) time.Time) ([]record.Record, error) {
	db, err := openHistory(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer rows.Close()

	var recs []record.Record
	skipped := 0
	for rows.Next() {
		var v visitRow
		if err := rows.Scan(&v.when, &v.pageID, &v.url, &v.title); err != nil {
			return recs, fmt.Errorf("scan visit: %w", err)
		}
		if !v.pageID.Valid {
			skipped++
			continue
		}

		at := record.None
		if v.when.Valid {
			at = record.At(convert(v.when.Int64).In(opts.Location))
		}
		recs = append(recs, visit(opts, typ, v.title.String, v.url.String, at))
	}
	if skipped > 0 {
		opts.Logger.Debug("skipped visits without a page", "path", path, "count", skipped)
	}
	return recs, rows.Err()
}
