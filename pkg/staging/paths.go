package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// workDirPattern names the per-task working directories created under
	// the work root.
	workDirPattern = "dray-work-"

	// cacheSubdir is where the staging cache is relocated to when a
	// node-local storage root is configured.
	cacheSubdir = "cache"
)

// WorkRoot creates and returns a fresh working directory. When a storage
// root is configured the directory is placed under it (typically a fast
// node-local disk); otherwise it goes under the system temp area. Each call
// creates a new directory, so work dirs are never shared across tasks or
// across repeated stagings of the same task.
func WorkRoot(storageRoot string) (string, error) {
	if storageRoot != "" {
		if err := os.MkdirAll(storageRoot, 0755); err != nil {
			return "", fmt.Errorf("failed to create storage root %s: %w", storageRoot, err)
		}
		dir, err := os.MkdirTemp(storageRoot, workDirPattern)
		if err != nil {
			return "", fmt.Errorf("failed to create working directory under %s: %w", storageRoot, err)
		}
		return dir, nil
	}

	dir, err := os.MkdirTemp("", workDirPattern)
	if err != nil {
		return "", fmt.Errorf("failed to create working directory: %w", err)
	}
	return dir, nil
}

// CacheRoot resolves where the node-local staging cache lives. Without a
// storage root the process-wide cache directory is used as-is. With one,
// the cache is relocated underneath it (storageRoot/cache/<processCacheDir
// with its leading separator stripped>) so cache content shares a volume
// with the configured storage root instead of the default temp filesystem.
func CacheRoot(processCacheDir, storageRoot string) string {
	if storageRoot == "" {
		return processCacheDir
	}
	stripped := strings.TrimPrefix(processCacheDir, string(os.PathSeparator))
	return filepath.Join(storageRoot, cacheSubdir, stripped)
}
