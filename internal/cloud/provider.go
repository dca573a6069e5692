package cloud

import (
	"github.com/cloud-filemanager/go/internal/types"
)

// Manager is the capability set every storage backend implements.
//
// Remote paths are slash separated; "", "/" and "." name the root.
// Implementations are not safe for concurrent use unless stated otherwise.
type Manager interface {
	// UploadFile writes content to remotePath, replacing any existing file.
	UploadFile(content []byte, remotePath string) error

	// DownloadFile copies the file at remotePath to localPath,
	// replacing any existing local file.
	DownloadFile(remotePath, localPath string) error

	// DeleteFile removes the file or folder at remotePath, recursively for
	// folders. It returns ErrNotFound when nothing exists at remotePath.
	DeleteFile(remotePath string) error

	// Ls lists the immediate children of remotePath keyed by name.
	Ls(remotePath string) (types.Listing, error)

	// Name returns the backend name used in logs and metrics.
	Name() string
}

var (
	_ Manager = (*DropboxManager)(nil)
	_ Manager = (*LocalManager)(nil)
	_ Manager = (*instrumentedManager)(nil)
)
