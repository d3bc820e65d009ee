//go:build !linux && !darwin && !freebsd

package source

import (
	"os"
	"time"
)

// statTimes falls back to the modification time for all three stamps.
func statTimes(path string) (created, modified, accessed time.Time, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	modified = info.ModTime()
	return modified, modified, modified, nil
}
