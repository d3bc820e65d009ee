package source

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/Zuo-Peng/backtime/internal/record"
)

// ieDateLayout is month/day/year hour:minute:second am/pm, as IE History Viewer writes it.
// The am/pm marker is matched case-insensitively.
const ieDateLayout = "1/2/2006 3:04:05 PM"

type ieItem struct {
	URL          string `xml:"url"`
	Title        string `xml:"title"`
	ModifiedDate string `xml:"modified_date"`
}

// IEHistory reads an Internet Explorer History Viewer XML export
// (<visited_links_list><item>...</item></visited_links_list>).
type IEHistory struct {
	opts Options
}

func (ie *IEHistory) Import(path string) ([]record.Record, error) {
	var recs []record.Record
	err := eachElement(path, "visited_links_list", "item", func(dec *xml.Decoder, start xml.StartElement) error {
		var item ieItem
		if err := dec.DecodeElement(&item, &start); err != nil {
			return err
		}

		at := record.None
		raw := strings.TrimSpace(item.ModifiedDate)
		if t, err := time.ParseInLocation(ieDateLayout, strings.ToUpper(raw), ie.opts.Location); err == nil {
			at = record.At(t)
		} else {
			ie.opts.Logger.Warn("unparsable visit date", "path", path, "url", item.URL, "value", raw)
		}

		recs = append(recs, visit(ie.opts, record.TypeIEHistory,
			strings.TrimSpace(item.Title), strings.TrimSpace(item.URL), at))
		return nil
	})
	if err != nil {
		return recs, fmt.Errorf("read %s: %w", path, err)
	}
	return recs, nil
}
