package source

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/Zuo-Peng/backtime/internal/record"
)

// Folder walks a directory tree and emits one record per file with its
// change, modification and access times. Unreadable entries are skipped.
type Folder struct {
	opts Options
}

func (f *Folder) Import(root string) ([]record.Record, error) {
	info, err := requireInput(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", root)
	}

	var recs []record.Record
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			f.opts.Logger.Warn("skipping unreadable entry", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			return nil
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		created, modified, accessed, err := statTimes(abs)
		if err != nil {
			f.opts.Logger.Warn("skipping unstatable file", "path", abs, "error", err)
			return nil
		}

		recs = append(recs, record.New(record.Record{
			Name:     filepath.Base(abs),
			Path:     abs,
			Type:     record.TypeFile,
			Created:  record.At(created.In(f.opts.Location)),
			Modified: record.At(modified.In(f.opts.Location)),
			Accessed: record.At(accessed.In(f.opts.Location)),
		}, f.opts.Now))
		return nil
	})
	return recs, err
}
