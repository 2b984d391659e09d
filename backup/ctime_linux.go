package backup

import (
	"os"
	"syscall"
	"time"
)

// creationTime uses the inode change time, the closest Linux has to a
// creation time for directories.
func creationTime(fi os.FileInfo) time.Time {
	if st, ok := fi.Sys().(*syscall.Stat_t); ok {
		return time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec))
	}
	return fi.ModTime()
}
