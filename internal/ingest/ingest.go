package ingest

import (
	"errors"
	"fmt"

	"github.com/Zuo-Peng/backtime/internal/source"
	"github.com/Zuo-Peng/backtime/internal/timesheet"
)

type Stats struct {
	Kind    source.Kind
	Read    int
	Stored  int
	Undated int
}

func (s Stats) String() string {
	return fmt.Sprintf("kind=%s read=%d stored=%d undated=%d",
		s.Kind, s.Read, s.Stored, s.Undated)
}

// Job is one import: a source kind and the handle (path) it reads.
type Job struct {
	Kind   source.Kind
	Handle string
}

// Run imports handle with the adapter for kind and stores the result.
// Records an adapter returns together with an error are still stored.
func Run(ts *timesheet.Timesheet, kind source.Kind, handle string, opts source.Options) (Stats, error) {
	stats := Stats{Kind: kind}

	adapter, err := source.New(kind, opts)
	if err != nil {
		return stats, err
	}

	recs, importErr := adapter.Import(handle)
	stats.Read = len(recs)
	for _, r := range recs {
		if !r.Created.Valid() {
			stats.Undated++
		}
	}
	if importErr != nil && len(recs) == 0 {
		return stats, fmt.Errorf("import %s %s: %w", kind, handle, importErr)
	}

	stored, err := ts.InsertBatch(recs)
	stats.Stored = stored
	if err != nil {
		return stats, errors.Join(importErr, fmt.Errorf("store %s %s: %w", kind, handle, err))
	}
	if importErr != nil {
		return stats, fmt.Errorf("import %s %s: %w", kind, handle, importErr)
	}
	return stats, nil
}

// RunAll runs jobs in order. A failed job does not stop the rest; its
// error is joined into the returned one.
func RunAll(ts *timesheet.Timesheet, jobs []Job, opts source.Options) ([]Stats, error) {
	all := make([]Stats, 0, len(jobs))
	var errs []error
	for _, job := range jobs {
		stats, err := Run(ts, job.Kind, job.Handle, opts)
		all = append(all, stats)
		if err != nil {
			if opts.Logger != nil {
				opts.Logger.Warn("import failed", "kind", job.Kind, "handle", job.Handle, "error", err)
			}
			errs = append(errs, err)
		}
	}
	return all, errors.Join(errs...)
}
