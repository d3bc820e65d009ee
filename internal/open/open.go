package open

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/Zuo-Peng/backtime/internal/record"
)

var ErrNoTarget = errors.New("record has no path to open")

// Record opens a File record in $EDITOR (default less) and anything with a
// URL-like path in the desktop's browser. Mail records only carry a folder
// and cannot be opened.
func Record(rec record.Record) error {
	cmd, err := command(rec, os.Getenv("EDITOR"), runtime.GOOS)
	if err != nil {
		return err
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func command(rec record.Record, editor, goos string) (*exec.Cmd, error) {
	path := strings.TrimSpace(rec.Path)
	if path == "" {
		return nil, ErrNoTarget
	}

	switch {
	case rec.Type == record.TypeFile:
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		if editor == "" {
			editor = "less"
		}
		return exec.Command(editor, path), nil
	case isURL(path):
		return browserCommand(path, goos), nil
	default:
		return nil, fmt.Errorf("%w: %s %q", ErrNoTarget, rec.Type, path)
	}
}

func isURL(s string) bool {
	for _, scheme := range []string{"http://", "https://", "file://", "ftp://"} {
		if strings.HasPrefix(strings.ToLower(s), scheme) {
			return true
		}
	}
	return false
}

func browserCommand(url, goos string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", url)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return exec.Command("xdg-open", url)
	}
}
