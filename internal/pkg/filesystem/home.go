package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// AppDirName is the per-user directory holding config and history data.
const AppDirName = ".rxdbg"

// UserHomeDir returns the current user's home directory.
// If the home directory cannot be determined, it returns "." as a fallback.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// AppDir returns ~/.rxdbg.
func AppDir() string {
	return filepath.Join(UserHomeDir(), AppDirName)
}

// ExpandPath resolves a leading "~/" against the home directory and cleans the result.
func ExpandPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if path == "~" {
		return UserHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}
