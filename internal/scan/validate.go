package scan

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/docfind/docfind/internal/errors"
)

const maxPathLength = 4096

// systemDirs are directory trees never accepted as a scan root.
var systemDirs = []string{"/proc", "/sys", "/dev", "/etc", "/boot"}

// ValidateRoot checks that root is a scannable directory: a real path
// of sane length and depth, outside system directories, and not a
// symlink.
func ValidateRoot(root string, maxDepth int) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", errors.New(errors.ErrCodeInvalidPath, "scan root is empty", nil)
	}
	if len(root) > maxPathLength {
		return "", errors.Newf(errors.ErrCodeInvalidPath,
			"scan root exceeds %d characters", maxPathLength)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err)
	}

	for _, sys := range systemDirs {
		if abs == sys || strings.HasPrefix(abs, sys+string(filepath.Separator)) {
			return "", errors.Newf(errors.ErrCodeInvalidPath,
				"refusing to scan system directory: %s", abs)
		}
	}

	if depth := strings.Count(abs, string(filepath.Separator)); depth > maxDepth {
		return "", errors.Newf(errors.ErrCodeInvalidPath,
			"scan root deeper than %d levels: %s", maxDepth, abs)
	}

	info, err := os.Lstat(abs)
	if err != nil {
		return "", errors.FileAccessError(abs, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return "", errors.Newf(errors.ErrCodeInvalidPath,
			"scan root is a symlink: %s", abs)
	}
	if !info.IsDir() {
		return "", errors.Newf(errors.ErrCodeInvalidPath,
			"scan root is not a directory: %s", abs)
	}
	return abs, nil
}

// ValidateFile applies the same rules to a candidate document: sane
// length and depth, outside system directories, a regular file rather
// than a symlink.
func ValidateFile(path string, maxDepth int) (string, error) {
	if len(path) > maxPathLength {
		return "", errors.Newf(errors.ErrCodeInvalidPath,
			"path exceeds %d characters", maxPathLength)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err)
	}

	for _, sys := range systemDirs {
		if strings.HasPrefix(abs, sys+string(filepath.Separator)) {
			return "", errors.Newf(errors.ErrCodeInvalidPath,
				"refusing file in system directory: %s", abs)
		}
	}

	if depth := strings.Count(abs, string(filepath.Separator)); depth > maxDepth {
		return "", errors.Newf(errors.ErrCodeInvalidPath,
			"path deeper than %d levels: %s", maxDepth, abs)
	}

	info, err := os.Lstat(abs)
	if err != nil {
		return "", errors.FileAccessError(abs, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return "", errors.Newf(errors.ErrCodeInvalidPath,
			"path is a symlink: %s", abs)
	}
	if !info.Mode().IsRegular() {
		return "", errors.Newf(errors.ErrCodeInvalidPath,
			"not a regular file: %s", abs)
	}
	return abs, nil
}
