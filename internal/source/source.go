// Package source turns local activity data (files, browser history, XML
// exports, legacy logs) into timesheet records.
package source

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Zuo-Peng/backtime/internal/record"
)

type Kind string

const (
	KindFolder  Kind = "folder"
	KindFirefox Kind = "firefox"
	KindChrome  Kind = "chrome"
	KindIE      Kind = "iehv"
	KindMail    Kind = "mail"
	KindOpera   Kind = "opera"
)

// Kinds lists every supported kind in help-text order.
var Kinds = []Kind{KindFolder, KindFirefox, KindChrome, KindIE, KindMail, KindOpera}

var (
	ErrUnknownKind = errors.New("unknown source kind")
	ErrNoInput     = errors.New("input not found")
)

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Adapter reads one input handle (a path) into records. Records are not stored.
type Adapter interface {
	Import(handle string) ([]record.Record, error)
}

type Options struct {
	Logger   *slog.Logger
	Now      func() time.Time // stamps Recorded
	Location *time.Location   // zone for timestamps written without one
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

func New(kind Kind, opts Options) (Adapter, error) {
	opts = opts.withDefaults()
	switch kind {
	case KindFolder:
		return &Folder{opts: opts}, nil
	case KindFirefox:
		return &Firefox{opts: opts}, nil
	case KindChrome:
		return &Chrome{opts: opts}, nil
	case KindIE:
		return &IEHistory{opts: opts}, nil
	case KindMail:
		return &Mail{opts: opts}, nil
	case KindOpera:
		return &Opera{opts: opts}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func requireInput(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoInput, path)
		}
		return nil, err
	}
	return info, nil
}

// visit builds a history record where every time field is the visit time.
func visit(opts Options, typ record.SourceType, name, path string, at record.OptTime) record.Record {
	return record.New(record.Record{
		Name:     name,
		Path:     path,
		Type:     typ,
		Created:  at,
		Modified: at,
		Accessed: at,
	}, opts.Now)
}
