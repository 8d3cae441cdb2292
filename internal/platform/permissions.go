package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Permission modes for files nodebridge writes on behalf of the user.
const (
	DirPerm         os.FileMode = 0755
	PrivateFilePerm os.FileMode = 0600
)

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// WriteFilePrivate writes data to path readable only by the current user,
// creating the parent directory when needed. An existing file keeps no wider
// permissions than PrivateFilePerm.
func WriteFilePrivate(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, PrivateFilePerm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	// WriteFile leaves the mode of an existing file untouched.
	if err := Chmod(path, PrivateFilePerm); err != nil {
		return fmt.Errorf("restricting permissions on %s: %w", path, err)
	}
	return nil
}
