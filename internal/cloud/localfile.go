package cloud

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// writeLocalFile copies r into localPath through a temporary sibling file,
// so an interrupted transfer never leaves a truncated file behind.
func writeLocalFile(localPath string, r io.Reader) (int64, error) {
	dir := filepath.Dir(localPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to ensure directory for %s: %w", localPath, err)
	}

	tmpPath := filepath.Join(dir, "."+filepath.Base(localPath)+"."+uuid.NewString()+".part")
	file, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file %s: %w", tmpPath, err)
	}

	n, err := io.Copy(file, r)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return n, fmt.Errorf("failed to write %s: %w", localPath, err)
	}

	if err := os.Rename(tmpPath, localPath); err != nil {
		os.Remove(tmpPath)
		return n, fmt.Errorf("failed to move download into %s: %w", localPath, err)
	}
	return n, nil
}
