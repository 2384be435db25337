package lock

import (
	"os"
	"path/filepath"
	"strings"
)

// TempPath is where a writer stages the content of target before renaming.
func TempPath(target string) string {
	return target + ".tmp"
}

// CleanupTempFiles removes staging files left next to target by an earlier
// run that died before renaming. Call it only while holding the lock.
func CleanupTempFiles(target string) (int, error) {
	dir := filepath.Dir(target)
	base := filepath.Base(target)

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var cleaned int
	var firstErr error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !isTempFor(name, base) {
			continue
		}
		if removeErr := os.Remove(filepath.Join(dir, name)); removeErr == nil {
			cleaned++
		} else if firstErr == nil {
			firstErr = removeErr
		}
	}
	return cleaned, firstErr
}

// isTempFor matches <base>.tmp and <base>.<digits>.tmp only, so staging files
// of a sibling output such as <base>.csv.tmp are left alone.
func isTempFor(name, base string) bool {
	if name == base+".tmp" {
		return true
	}
	rest, ok := strings.CutPrefix(name, base+".")
	if !ok {
		return false
	}
	digits, ok := strings.CutSuffix(rest, ".tmp")
	if !ok || digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
