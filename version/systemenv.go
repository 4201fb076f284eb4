package version

import (
	"bytes"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// hostFiles are reported by SystemEnv, which tolerates missing ones.
var hostFiles = []string{
	"/etc/os-release",
	"/etc/timezone",
	"/proc/version",
	"/proc/loadavg",
	"/proc/uptime",
}

// SystemEnv returns a snapshot of the process and of the host it runs on.
func SystemEnv() map[string]string {
	env := map[string]string{
		"os":   runtime.GOOS,
		"arch": runtime.GOARCH,
		"cpus": strconv.Itoa(runtime.NumCPU()),
		"pid":  strconv.Itoa(os.Getpid()),
	}
	for _, name := range hostFiles {
		env[name] = readHostFile(name)
	}
	return env
}

func readHostFile(name string) string {
	b, err := os.ReadFile(name)
	switch {
	case err != nil:
		return "error: " + err.Error()
	case len(bytes.TrimSpace(b)) == 0:
		return "empty"
	default:
		return strings.TrimSpace(string(b))
	}
}
