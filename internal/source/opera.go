package source

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Zuo-Peng/backtime/internal/record"
)

const maxLineSize = 1024 * 1024

// Opera reads a legacy global_history.dat style log: groups of four lines
// (title, url, unix seconds, unused). A trailing partial group is ignored.
type Opera struct {
	opts Options
}

func (o *Opera) Import(path string) ([]record.Record, error) {
	if _, err := requireInput(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var recs []record.Record
	var group []string
	for scanner.Scan() {
		group = append(group, strings.TrimRight(scanner.Text(), "\r"))
		if len(group) < 4 {
			continue
		}

		at := record.None
		if secs, err := strconv.ParseInt(strings.TrimSpace(group[2]), 10, 64); err == nil {
			at = record.At(time.Unix(secs, 0).In(o.opts.Location))
		} else {
			o.opts.Logger.Warn("unparsable visit time", "path", path, "url", group[1], "value", group[2])
		}
		recs = append(recs, visit(o.opts, record.TypeOpera, group[0], group[1], at))
		group = group[:0]
	}
	if err := scanner.Err(); err != nil {
		return recs, fmt.Errorf("read %s: %w", path, err)
	}
	if len(group) > 0 {
		o.opts.Logger.Debug("ignoring incomplete trailing group", "path", path, "lines", len(group))
	}
	return recs, nil
}
