package history

import (
	"log/slog"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// WarnIfBrowserRunning logs a warning when a Firefox process is live, since
// the snapshot may then lag the browser's in-memory state. Best-effort:
// enumeration failures are ignored.
func WarnIfBrowserRunning(log *slog.Logger) {
	procs, err := process.Processes()
	if err != nil {
		return
	}
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(name), "firefox") {
			log.Warn("firefox appears to be running; recent bookmarks may be missing from the snapshot",
				"pid", p.Pid)
			return
		}
	}
}
