package cloud

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/cloud-filemanager/go/internal/config"
	"github.com/cloud-filemanager/go/internal/types"
	"github.com/rs/zerolog/log"
)

// LocalManager implements Manager on a directory of the local filesystem.
// Remote paths are resolved below the root directory.
type LocalManager struct {
	root string
}

// NewLocalManager creates a manager rooted at settings.RootPath.
func NewLocalManager(settings config.Settings) (*LocalManager, error) {
	root, err := GetLocalHandler(settings)
	if err != nil {
		return nil, err
	}
	return &LocalManager{root: root}, nil
}

// GetLocalHandler resolves and creates the root directory named by settings.
func GetLocalHandler(settings config.Settings) (string, error) {
	if settings.RootPath == "" {
		return "", newOpError("connect", "", ErrInvalidPath, errors.New("root_path is empty"))
	}
	absPath, err := filepath.Abs(settings.RootPath)
	if err != nil {
		return "", newOpError("connect", settings.RootPath, ErrInvalidPath, err)
	}
	if err := os.MkdirAll(absPath, 0o755); err != nil {
		return "", newOpError("connect", settings.RootPath, localKind(err), err)
	}
	return absPath, nil
}

// Root returns the absolute root directory.
func (m *LocalManager) Root() string {
	return m.root
}

// Name implements Manager.
func (m *LocalManager) Name() string {
	return config.TypeLocal
}

func (m *LocalManager) fullPath(remote string) string {
	return filepath.Join(m.root, filepath.FromSlash(remote))
}

// UploadFile writes content to remotePath, creating parent folders.
func (m *LocalManager) UploadFile(content []byte, remotePath string) error {
	target, err := resolveFile("upload", "", remotePath)
	if err != nil {
		return err
	}

	full := m.fullPath(target)
	if info, err := os.Stat(full); err == nil && info.IsDir() {
		return newOpError("upload", target, ErrInvalidPath, errors.New("path is a folder"))
	}

	log.Debug().Str("path", full).Int("bytes", len(content)).Msg("Writing local file")
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return newOpError("upload", target, localKind(err), err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return newOpError("upload", target, localKind(err), err)
	}
	return nil
}

// DownloadFile copies remotePath to localPath.
func (m *LocalManager) DownloadFile(remotePath, localPath string) error {
	source, err := resolveFile("download", "", remotePath)
	if err != nil {
		return err
	}

	file, err := os.Open(m.fullPath(source))
	if err != nil {
		return newOpError("download", source, localKind(err), err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return newOpError("download", source, localKind(err), err)
	}
	if info.IsDir() {
		return newOpError("download", source, ErrInvalidPath, errors.New("path is a folder"))
	}

	log.Debug().Str("path", source).Str("local", localPath).Msg("Copying local file")
	if _, err := writeLocalFile(localPath, file); err != nil {
		return err
	}
	return nil
}

// DeleteFile removes remotePath and everything below it.
func (m *LocalManager) DeleteFile(remotePath string) error {
	target, err := resolveFile("delete", "", remotePath)
	if err != nil {
		return err
	}

	full := m.fullPath(target)
	if _, err := os.Lstat(full); err != nil {
		return newOpError("delete", target, localKind(err), err)
	}

	log.Debug().Str("path", full).Msg("Deleting local path")
	if err := os.RemoveAll(full); err != nil {
		return newOpError("delete", target, localKind(err), err)
	}
	return nil
}

// Ls lists the immediate children of remotePath.
func (m *LocalManager) Ls(remotePath string) (types.Listing, error) {
	folder, err := resolve("ls", "", remotePath)
	if err != nil {
		return nil, err
	}

	full := m.fullPath(folder)
	info, err := os.Stat(full)
	if err != nil {
		return nil, newOpError("ls", folder, localKind(err), err)
	}
	if !info.IsDir() {
		return nil, newOpError("ls", folder, ErrInvalidPath, errors.New("path is not a folder"))
	}

	dirEntries, err := os.ReadDir(full)
	if err != nil {
		return nil, newOpError("ls", folder, localKind(err), err)
	}

	listing := make(types.Listing, len(dirEntries))
	for _, d := range dirEntries {
		info, err := d.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		entry := types.Entry{
			Name:     d.Name(),
			Path:     folder + "/" + d.Name(),
			Kind:     types.KindFile,
			Modified: info.ModTime(),
		}
		if d.IsDir() {
			entry.Kind = types.KindFolder
		} else {
			entry.Size = uint64(info.Size())
		}
		listing[entry.Name] = entry
	}
	return listing, nil
}

// localKind maps filesystem errors onto the Manager error kinds.
func localKind(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case errors.Is(err, syscall.ENOTDIR), errors.Is(err, syscall.EISDIR), errors.Is(err, syscall.ENAMETOOLONG):
		return ErrInvalidPath
	default:
		return ErrRemoteIO
	}
}
