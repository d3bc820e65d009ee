package timesheet

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Zuo-Peng/backtime/internal/record"

	_ "modernc.org/sqlite"
)

const table = "time_entries"

const pragmas = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;
`

const createTable = `
CREATE TABLE time_entries (
    id       INTEGER PRIMARY KEY AUTOINCREMENT,
    name     TEXT NOT NULL DEFAULT '',
    path     TEXT NOT NULL DEFAULT '',
    type     TEXT NOT NULL DEFAULT '',
    created  TEXT,
    modified TEXT,
    accessed TEXT,
    recorded TEXT NOT NULL
);
CREATE INDEX time_entries_created ON time_entries (created);
`

const (
	// DefaultChunkSize rows go into one INSERT statement.
	DefaultChunkSize = 500
	// MaxChunkSize keeps one parameter per column under SQLite's 32766 host-parameter limit.
	MaxChunkSize = 32766 / columnCount

	columnCount = 7
)

var insertColumns = []string{"name", "path", "type", "created", "modified", "accessed", "recorded"}

// stampLayout is fixed-width so stored text sorts chronologically.
const stampLayout = "2006-01-02T15:04:05.000000000Z"

var ErrNoStorePath = errors.New("timesheet: no database path configured")

type Options struct {
	ChunkSize int
	Location  *time.Location // read-back zone; nil = time.Local
	Logger    *slog.Logger
	Now       func() time.Time
}

type Timesheet struct {
	db   *sql.DB
	opts Options
}

func Open(dbPath string, opts Options) (*Timesheet, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, ErrNoStorePath
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.ChunkSize > MaxChunkSize {
		opts.ChunkSize = MaxChunkSize
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// single writer; also keeps one connection for in-memory databases
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(pragmas); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}

	ts := &Timesheet{db: db, opts: opts}
	if err := ts.EnsureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return ts, nil
}

func (ts *Timesheet) Close() error {
	return ts.db.Close()
}

func (ts *Timesheet) Raw() *sql.DB {
	return ts.db
}

func (ts *Timesheet) ChunkSize() int {
	return ts.opts.ChunkSize
}

// EnsureSchema creates the table when it does not exist yet. Existing data is untouched.
func (ts *Timesheet) EnsureSchema() error {
	ok, err := ts.hasTable(table)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	_, err = ts.db.Exec(createTable)
	return err
}

func (ts *Timesheet) hasTable(name string) (bool, error) {
	var n int
	err := ts.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", name, err)
	}
	return n > 0, nil
}

// Reset deletes every row. There is no undo.
func (ts *Timesheet) Reset() error {
	if _, err := ts.db.Exec("DELETE FROM " + table); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}

// InsertBatch stores recs in chunks, one transaction per chunk. It returns the
// number of rows committed; chunks committed before a failure stay committed.
func (ts *Timesheet) InsertBatch(recs []record.Record) (int, error) {
	stored := 0
	size := ts.opts.ChunkSize
	for start := 0; start < len(recs); start += size {
		end := start + size
		if end > len(recs) {
			end = len(recs)
		}
		if err := ts.insertChunk(recs[start:end]); err != nil {
			return stored, fmt.Errorf("insert chunk %d (rows %d-%d): %w", start/size, start, end-1, err)
		}
		stored += end - start
	}
	return stored, nil
}

func (ts *Timesheet) insertChunk(chunk []record.Record) error {
	tx, err := ts.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(insertColumns)), ", ") + ")"
	values := make([]string, len(chunk))
	args := make([]any, 0, len(chunk)*len(insertColumns))
	for i, r := range chunk {
		values[i] = placeholder
		recorded := r.Recorded
		if recorded.IsZero() {
			recorded = ts.opts.Now()
		}
		args = append(args,
			r.Name,
			r.Path,
			string(r.Type),
			encodeOpt(r.Created),
			encodeOpt(r.Modified),
			encodeOpt(r.Accessed),
			encodeStamp(recorded),
		)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		table, strings.Join(insertColumns, ", "), strings.Join(values, ", "))
	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}
	return tx.Commit()
}

// Filter narrows Query. Zero values mean no restriction.
type Filter struct {
	Type  record.SourceType
	Text  string // substring of name or path
	Since time.Time
	Until time.Time // exclusive
	Limit int
}

const selectColumns = "id, name, path, type, created, modified, accessed, recorded"

// absent created sorts last; ties keep insertion order
const orderBy = " ORDER BY created IS NULL, created ASC, id ASC"

// All returns every record ascending by created. A created value that
// cannot be parsed back is returned as absent.
func (ts *Timesheet) All() ([]record.Record, error) {
	return ts.Query(Filter{})
}

func (ts *Timesheet) Query(f Filter) ([]record.Record, error) {
	var conditions []string
	var args []any

	if f.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, string(f.Type))
	}
	if f.Text != "" {
		conditions = append(conditions, "(name LIKE ? OR path LIKE ?)")
		like := "%" + f.Text + "%"
		args = append(args, like, like)
	}
	if !f.Since.IsZero() {
		conditions = append(conditions, "created >= ?")
		args = append(args, encodeStamp(f.Since))
	}
	if !f.Until.IsZero() {
		conditions = append(conditions, "created < ?")
		args = append(args, encodeStamp(f.Until))
	}

	query := "SELECT " + selectColumns + " FROM " + table
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += orderBy
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := ts.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var recs []record.Record
	for rows.Next() {
		r, err := ts.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// Get returns nil, nil when no record has the id.
func (ts *Timesheet) Get(id int64) (*record.Record, error) {
	rows, err := ts.db.Query("SELECT "+selectColumns+" FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	r, err := ts.scanRecord(rows)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (ts *Timesheet) Count() (int, error) {
	var n int
	err := ts.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n)
	return n, err
}

func (ts *Timesheet) CountByType() (map[record.SourceType]int, error) {
	rows, err := ts.db.Query("SELECT type, COUNT(*) FROM " + table + " GROUP BY type")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[record.SourceType]int)
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		counts[record.SourceType(t)] = n
	}
	return counts, rows.Err()
}

// ToTable returns one row per record (every field but id) in All order.
func (ts *Timesheet) ToTable() ([][]string, error) {
	recs, err := ts.All()
	if err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Row())
	}
	return out, nil
}

func (ts *Timesheet) scanRecord(rows *sql.Rows) (record.Record, error) {
	var r record.Record
	var typ string
	var created, modified, accessed, recorded sql.NullString
	if err := rows.Scan(&r.ID, &r.Name, &r.Path, &typ, &created, &modified, &accessed, &recorded); err != nil {
		return r, err
	}
	r.Type = record.SourceType(typ)
	r.Created = ts.decodeOpt(created)
	r.Modified = ts.decodeOpt(modified)
	r.Accessed = ts.decodeOpt(accessed)

	if t, ok := ts.decodeOpt(recorded).Get(); ok {
		r.Recorded = t
	} else {
		ts.opts.Logger.Warn("unparsable recorded time", "id", r.ID, "value", recorded.String)
	}
	return r, nil
}

func encodeStamp(t time.Time) string {
	return t.UTC().Format(stampLayout)
}

func encodeOpt(o record.OptTime) any {
	t, ok := o.Get()
	if !ok {
		return nil
	}
	return encodeStamp(t)
}

// readLayouts accepts our own format first, then common foreign spellings.
var readLayouts = []string{
	stampLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

func (ts *Timesheet) decodeOpt(s sql.NullString) record.OptTime {
	if !s.Valid || s.String == "" {
		return record.None
	}
	for _, layout := range readLayouts {
		if t, err := time.Parse(layout, s.String); err == nil {
			return record.At(t.In(ts.opts.Location))
		}
	}
	return record.None
}
