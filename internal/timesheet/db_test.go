package timesheet

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/Zuo-Peng/backtime/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2014, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestTimesheet(t *testing.T, chunk int) (*Timesheet, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "time.db")
	ts, err := Open(path, Options{ChunkSize: chunk, Location: time.UTC})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ts.Close() })
	return ts, path
}

func visit(name string, created time.Time) record.Record {
	return record.Record{
		Name:     name,
		Path:     "http://example.com/" + name,
		Type:     record.TypeFirefox,
		Created:  record.At(created),
		Modified: record.At(created),
		Accessed: record.At(created),
		Recorded: base.Add(24 * time.Hour),
	}
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ", Options{})
	assert.ErrorIs(t, err, ErrNoStorePath)
}

func TestEnsureSchemaKeepsData(t *testing.T) {
	ts, path := newTestTimesheet(t, 0)
	_, err := ts.InsertBatch([]record.Record{visit("a", base)})
	require.NoError(t, err)

	require.NoError(t, ts.EnsureSchema())
	require.NoError(t, ts.Close())

	reopened, err := Open(path, Options{Location: time.UTC})
	require.NoError(t, err)
	defer reopened.Close()

	n, err := reopened.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestChunkSizeClamped(t *testing.T) {
	ts, _ := newTestTimesheet(t, 0)
	assert.Equal(t, DefaultChunkSize, ts.ChunkSize())

	big, _ := newTestTimesheet(t, 100000)
	assert.Equal(t, MaxChunkSize, big.ChunkSize())
}

func TestInsertBatchAnyChunkSize(t *testing.T) {
	recs := make([]record.Record, 1200)
	for i := range recs {
		recs[i] = visit(fmt.Sprintf("r%04d", i), base.Add(time.Duration(i)*time.Minute))
	}

	for _, chunk := range []int{7, 142, 500, 1200, MaxChunkSize} {
		t.Run(fmt.Sprintf("chunk=%d", chunk), func(t *testing.T) {
			ts, _ := newTestTimesheet(t, chunk)
			stored, err := ts.InsertBatch(recs)
			require.NoError(t, err)
			assert.Equal(t, 1200, stored)

			all, err := ts.All()
			require.NoError(t, err)
			assert.Len(t, all, 1200)
		})
	}
}

func TestInsertBatchPartialFailureKeepsEarlierChunks(t *testing.T) {
	ts, _ := newTestTimesheet(t, 2)
	_, err := ts.Raw().Exec(`CREATE TRIGGER reject_boom BEFORE INSERT ON time_entries
		WHEN NEW.name = 'boom' BEGIN SELECT RAISE(ABORT, 'boom rejected'); END`)
	require.NoError(t, err)

	recs := []record.Record{
		visit("a", base),
		visit("b", base.Add(time.Minute)),
		visit("c", base.Add(2*time.Minute)),
		visit("boom", base.Add(3*time.Minute)),
	}
	stored, err := ts.InsertBatch(recs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk 1")
	assert.Equal(t, 2, stored)

	n, err := ts.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n, "first chunk stays committed, failed chunk rolls back")
}

func TestRoundTripPreservesFields(t *testing.T) {
	ts, _ := newTestTimesheet(t, 0)
	created := time.Date(2014, 3, 1, 9, 0, 0, 123456789, time.FixedZone("CET", 3600))
	in := record.Record{
		Name:     "report.txt",
		Path:     "/home/me/report.txt",
		Type:     record.TypeFile,
		Created:  record.At(created),
		Modified: record.None,
		Accessed: record.At(created.Add(time.Hour)),
		Recorded: base,
	}
	_, err := ts.InsertBatch([]record.Record{in})
	require.NoError(t, err)

	all, err := ts.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	out := all[0]

	assert.NotZero(t, out.ID)
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Path, out.Path)
	assert.Equal(t, in.Type, out.Type)
	got, ok := out.Created.Get()
	require.True(t, ok)
	assert.True(t, got.Equal(created), "nanoseconds must survive: %v vs %v", got, created)
	assert.Equal(t, time.UTC, got.Location())
	assert.False(t, out.Modified.Valid())
	assert.True(t, out.Accessed.Valid())
	assert.True(t, out.Recorded.Equal(base))
}

func TestInsertFillsRecorded(t *testing.T) {
	now := time.Date(2020, 5, 5, 5, 5, 5, 0, time.UTC)
	ts, err := Open(filepath.Join(t.TempDir(), "t.db"), Options{
		Location: time.UTC,
		Now:      func() time.Time { return now },
	})
	require.NoError(t, err)
	defer ts.Close()

	_, err = ts.InsertBatch([]record.Record{{Name: "x", Type: record.TypeFile}})
	require.NoError(t, err)

	all, err := ts.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Recorded.Equal(now))
}

func TestAllOrdersByCreated(t *testing.T) {
	ts, _ := newTestTimesheet(t, 0)
	undated := visit("undated", base)
	undated.Created = record.None
	recs := []record.Record{
		visit("late", base.Add(2*time.Hour)),
		undated,
		visit("early", base),
		visit("tie-first", base.Add(time.Hour)),
		visit("tie-second", base.Add(time.Hour)),
	}
	_, err := ts.InsertBatch(recs)
	require.NoError(t, err)

	all, err := ts.All()
	require.NoError(t, err)
	var names []string
	for _, r := range all {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"early", "tie-first", "tie-second", "late", "undated"}, names)
}

func TestUnparsableCreatedSurfacesAsAbsent(t *testing.T) {
	ts, _ := newTestTimesheet(t, 0)
	_, err := ts.InsertBatch([]record.Record{visit("ok", base), visit("broken", base.Add(time.Minute))})
	require.NoError(t, err)

	_, err = ts.Raw().Exec("UPDATE time_entries SET created = 'not a time' WHERE name = 'broken'")
	require.NoError(t, err)

	all, err := ts.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, r := range all {
		if r.Name == "broken" {
			assert.False(t, r.Created.Valid())
			assert.True(t, r.Modified.Valid())
		} else {
			assert.True(t, r.Created.Valid())
		}
	}
}

func TestReadsForeignTimeSpellings(t *testing.T) {
	ts, _ := newTestTimesheet(t, 0)
	_, err := ts.Raw().Exec(`INSERT INTO time_entries (name, path, type, created, recorded)
		VALUES ('ruby', '', 'File', '2014-03-01T09:00:00+00:00', '2014-03-02 10:00:00')`)
	require.NoError(t, err)

	all, err := ts.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	got, ok := all[0].Created.Get()
	require.True(t, ok)
	assert.True(t, got.Equal(base))
	assert.Equal(t, 10, all[0].Recorded.Hour())
}

func TestQueryFilters(t *testing.T) {
	ts, _ := newTestTimesheet(t, 0)
	file := visit("notes.txt", base.Add(48*time.Hour))
	file.Type = record.TypeFile
	file.Path = "/tmp/notes.txt"
	_, err := ts.InsertBatch([]record.Record{
		visit("golang", base),
		visit("rust", base.Add(24*time.Hour)),
		file,
	})
	require.NoError(t, err)

	recs, err := ts.Query(Filter{Type: record.TypeFile})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "notes.txt", recs[0].Name)

	recs, err = ts.Query(Filter{Text: "example.com/go"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "golang", recs[0].Name)

	recs, err = ts.Query(Filter{Since: base.Add(time.Hour)})
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	recs, err = ts.Query(Filter{Until: base.Add(24 * time.Hour)})
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	recs, err = ts.Query(Filter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestGetAndCountByType(t *testing.T) {
	ts, _ := newTestTimesheet(t, 0)
	file := visit("f", base)
	file.Type = record.TypeFile
	_, err := ts.InsertBatch([]record.Record{visit("a", base), visit("b", base), file})
	require.NoError(t, err)

	all, err := ts.All()
	require.NoError(t, err)
	got, err := ts.Get(all[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, all[0].Name, got.Name)

	missing, err := ts.Get(9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	counts, err := ts.CountByType()
	require.NoError(t, err)
	assert.Equal(t, 2, counts[record.TypeFirefox])
	assert.Equal(t, 1, counts[record.TypeFile])
}

func TestToTableAndReset(t *testing.T) {
	ts, _ := newTestTimesheet(t, 0)
	_, err := ts.InsertBatch([]record.Record{visit("b", base.Add(time.Minute)), visit("a", base)})
	require.NoError(t, err)

	rows, err := ts.ToTable()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0][0])
	assert.Len(t, rows[0], len(record.Columns))
	assert.Equal(t, "2014-03-01T09:00:00Z", rows[0][3])

	require.NoError(t, ts.Reset())
	n, err := ts.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}
