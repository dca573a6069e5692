package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloud-filemanager/go/internal/types"
	"github.com/rs/zerolog/log"
)

// Scanner collects the files of a local directory tree for upload
type Scanner struct {
	RootPath string
	MaxDepth int
}

// New creates a new Scanner instance. A MaxDepth of zero or less means unlimited.
func New(path string, maxDepth int) (*Scanner, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", path)
	}

	return &Scanner{
		RootPath: absPath,
		MaxDepth: maxDepth,
	}, nil
}

// Scan walks the directory tree and returns the regular files in lexical order
func (s *Scanner) Scan() ([]types.LocalFile, error) {
	var files []types.LocalFile

	err := filepath.Walk(s.RootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error accessing path")
			return nil // Continue walking
		}

		relPath, err := filepath.Rel(s.RootPath, path)
		if err != nil {
			return nil
		}
		if relPath == "." {
			return nil
		}

		depth := len(strings.Split(relPath, string(os.PathSeparator)))
		if s.MaxDepth > 0 && depth > s.MaxDepth {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if shouldSkip(info) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		files = append(files, types.LocalFile{
			Path:     path,
			Rel:      filepath.ToSlash(relPath),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
		return nil
	})

	if err != nil {
		return nil, err
	}

	log.Debug().Int("count", len(files)).Str("root", s.RootPath).Msg("Scanner found files")
	return files, nil
}

// shouldSkip filters hidden entries, partial downloads and known system directories
func shouldSkip(info os.FileInfo) bool {
	name := info.Name()

	if strings.HasPrefix(name, ".") {
		return true
	}

	if !info.IsDir() && strings.HasSuffix(name, ".part") {
		return true
	}

	for _, d := range []string{"node_modules", "__pycache__"} {
		if info.IsDir() && name == d {
			return true
		}
	}

	return false
}
