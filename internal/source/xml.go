package source

import (
	"encoding/xml"
	"io"
	"os"
	"slices"

	"golang.org/x/net/html/charset"
)

// eachElement streams the XML file at path and calls fn for every <name>
// element; with a non-empty within, only for those nested inside <within>.
// fn must consume the element (e.g. with DecodeElement).
func eachElement(path, within, name string, fn func(dec *xml.Decoder, start xml.StartElement) error) error {
	if _, err := requireInput(path); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return walkElements(f, within, name, fn)
}

func walkElements(r io.Reader, within, name string, fn func(dec *xml.Decoder, start xml.StartElement) error) error {
	dec := xml.NewDecoder(r)
	// exports are often ISO-8859-1 or UTF-16
	dec.CharsetReader = charset.NewReaderLabel

	var stack []string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == name && (within == "" || slices.Contains(stack, within)) {
				if err := fn(dec, t); err != nil {
					return err
				}
				continue
			}
			stack = append(stack, t.Name.Local)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
}
