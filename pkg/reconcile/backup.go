package reconcile

import (
	"fmt"
	"path/filepath"

	"github.com/ncruces/go-strftime"
)

// backupPath names the backup for target: the file name followed by the
// formatted suffix, and a counter when that name is taken
func (e *Engine) backupPath(target string) string {
	base := target + strftime.Format(e.opts.BackupSuffix, e.clock.Now())
	candidate := base
	for n := 1; e.taken(candidate); n++ {
		candidate = fmt.Sprintf("%s.%d", base, n)
	}
	return filepath.Clean(candidate)
}

func (e *Engine) taken(path string) bool {
	_, err := e.fs.Lstat(path)
	return err == nil
}
