//go:build darwin || freebsd

package source

import (
	"time"

	"golang.org/x/sys/unix"
)

// statTimes follows symlinks; "created" is the birth time.
func statTimes(path string) (created, modified, accessed time.Time, err error) {
	var st unix.Stat_t
	if err = unix.Stat(path, &st); err != nil {
		return
	}
	created = time.Unix(st.Btim.Unix())
	modified = time.Unix(st.Mtim.Unix())
	accessed = time.Unix(st.Atim.Unix())
	return
}
