package source

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/araddon/dateparse"

	"github.com/Zuo-Peng/backtime/internal/record"
)

type mailItem struct {
	From     string `xml:"from"`
	To       string `xml:"to"`
	Folder   string `xml:"folder"`
	Sent     string `xml:"sent"`
	Received string `xml:"received"`
}

// Mail reads a mail client XML export with one <item> per message.
// The sent time is required; messages without one are skipped.
type Mail struct {
	opts Options
}

func (m *Mail) Import(path string) ([]record.Record, error) {
	var recs []record.Record
	err := eachElement(path, "", "item", func(dec *xml.Decoder, start xml.StartElement) error {
		var item mailItem
		if err := dec.DecodeElement(&item, &start); err != nil {
			return err
		}
		from := strings.TrimSpace(item.From)
		to := strings.TrimSpace(item.To)

		sent, err := dateparse.ParseIn(strings.TrimSpace(item.Sent), m.opts.Location)
		if err != nil {
			m.opts.Logger.Warn("skipping message without sent time", "path", path, "from", from, "value", item.Sent)
			return nil
		}

		received := record.None
		if raw := strings.TrimSpace(item.Received); raw != "" {
			if t, err := dateparse.ParseIn(raw, m.opts.Location); err == nil {
				received = record.At(t)
			}
		}

		recs = append(recs, record.New(record.Record{
			Name:     fmt.Sprintf("Email from %s to %s", from, to),
			Path:     from + "/" + strings.TrimSpace(item.Folder),
			Type:     record.TypeEmail,
			Created:  record.At(sent),
			Modified: received,
			Accessed: received,
		}, m.opts.Now))
		return nil
	})
	if err != nil {
		return recs, fmt.Errorf("read %s: %w", path, err)
	}
	return recs, nil
}
