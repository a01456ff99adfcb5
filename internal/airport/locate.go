package airport

import (
	"fmt"
	"os"
)

// DefaultUtilityPath is where macOS keeps the Apple80211 command line tool.
const DefaultUtilityPath = "/System/Library/PrivateFrameworks/Apple80211.framework/Versions/Current/Resources/airport"

// LocateUtility checks that path names an executable file and returns it.
// An empty path means DefaultUtilityPath.
func LocateUtility(path string) (string, error) {
	if path == "" {
		path = DefaultUtilityPath
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUtilityNotFound, path)
	}
	if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
		return "", fmt.Errorf("%w: %s is not an executable file", ErrUtilityNotFound, path)
	}
	return path, nil
}
