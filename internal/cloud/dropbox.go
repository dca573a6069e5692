package cloud

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"net/http"
	"strings"

	"github.com/cloud-filemanager/go/internal/config"
	"github.com/cloud-filemanager/go/internal/types"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/auth"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MaxUploadSize is the largest buffer Dropbox accepts in a single upload request.
const MaxUploadSize = 150 << 20

// DropboxClient is the subset of the Dropbox SDK files.Client used by
// DropboxManager. The client returned by files.New satisfies it.
type DropboxClient interface {
	Upload(arg *files.UploadArg, content io.Reader) (*files.FileMetadata, error)
	Download(arg *files.DownloadArg) (*files.FileMetadata, io.ReadCloser, error)
	DeleteV2(arg *files.DeleteArg) (*files.DeleteResult, error)
	ListFolder(arg *files.ListFolderArg) (*files.ListFolderResult, error)
	ListFolderContinue(arg *files.ListFolderContinueArg) (*files.ListFolderResult, error)
}

// DropboxManager implements Manager on top of the Dropbox API.
type DropboxManager struct {
	handler  DropboxClient
	rootPath string
	pageSize uint32
}

// NewDropboxManager creates a manager authenticated with settings.APIKey.
//
// A malformed key fails here with ErrAuthentication. A key the service
// rejects fails on first use, or here when settings.Verify is set.
func NewDropboxManager(settings config.Settings) (*DropboxManager, error) {
	handler, err := GetDropboxHandler(settings)
	if err != nil {
		return nil, err
	}

	if settings.Verify {
		if err := verifyDropboxAccount(settings); err != nil {
			return nil, err
		}
	}

	return NewDropboxManagerWithHandler(handler, settings)
}

// NewDropboxManagerWithHandler creates a manager around an existing handler.
func NewDropboxManagerWithHandler(handler DropboxClient, settings config.Settings) (*DropboxManager, error) {
	if handler == nil {
		return nil, newOpError("connect", "", ErrAuthentication, errors.New("nil dropbox handler"))
	}

	root, err := CleanPath(settings.RootPath)
	if err != nil {
		return nil, newOpError("connect", settings.RootPath, ErrInvalidPath, err)
	}

	return &DropboxManager{
		handler:  handler,
		rootPath: root,
		pageSize: settings.PageSize,
	}, nil
}

// GetDropboxHandler returns an SDK client for the credentials in settings.
// It performs no network call.
func GetDropboxHandler(settings config.Settings) (DropboxClient, error) {
	if err := checkToken(settings.APIKey); err != nil {
		return nil, newOpError("connect", "", ErrAuthentication, err)
	}
	return files.New(sdkConfig(settings)), nil
}

func checkToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("api_key is empty")
	}
	if strings.ContainsAny(token, " \t\r\n") {
		return errors.New("api_key contains whitespace")
	}
	return nil
}

func sdkConfig(settings config.Settings) dropbox.Config {
	cfg := dropbox.Config{
		Token:    settings.APIKey,
		LogLevel: dropbox.LogOff,
	}
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		cfg.LogLevel = dropbox.LogInfo
		cfg.Logger = stdlog.New(log.Logger, "dropbox: ", 0)
	}
	if settings.Timeout > 0 {
		cfg.Client = &http.Client{Timeout: settings.Timeout}
	}
	return cfg
}

func verifyDropboxAccount(settings config.Settings) error {
	account, err := users.New(sdkConfig(settings)).GetCurrentAccount()
	if err != nil {
		return dropboxError("connect", "", err)
	}
	log.Debug().Str("account", account.Email).Msg("Dropbox credentials verified")
	return nil
}

// Name implements Manager.
func (m *DropboxManager) Name() string {
	return config.TypeDropbox
}

// UploadFile uploads content in a single request, overwriting remotePath.
func (m *DropboxManager) UploadFile(content []byte, remotePath string) error {
	target, err := resolveFile("upload", m.rootPath, remotePath)
	if err != nil {
		return err
	}
	if len(content) > MaxUploadSize {
		return newOpError("upload", target, ErrRemoteIO,
			fmt.Errorf("%d bytes exceeds the single request limit of %d", len(content), MaxUploadSize))
	}

	arg := files.NewUploadArg(target)
	arg.Mode = &files.WriteMode{Tagged: dropbox.Tagged{Tag: files.WriteModeOverwrite}}
	arg.Mute = true

	log.Debug().Str("path", target).Int("bytes", len(content)).Msg("Uploading to Dropbox")
	if _, err := m.handler.Upload(arg, bytes.NewReader(content)); err != nil {
		return dropboxError("upload", target, err)
	}
	return nil
}

// DownloadFile fetches remotePath in full, then writes it to localPath.
func (m *DropboxManager) DownloadFile(remotePath, localPath string) error {
	source, err := resolveFile("download", m.rootPath, remotePath)
	if err != nil {
		return err
	}

	log.Debug().Str("path", source).Str("local", localPath).Msg("Downloading from Dropbox")
	_, content, err := m.handler.Download(files.NewDownloadArg(source))
	if err != nil {
		return dropboxError("download", source, err)
	}
	defer content.Close()

	data, err := io.ReadAll(content)
	if err != nil {
		return newOpError("download", source, ErrRemoteIO, err)
	}

	if _, err := writeLocalFile(localPath, bytes.NewReader(data)); err != nil {
		return err
	}
	return nil
}

// DeleteFile deletes remotePath, recursively for folders.
func (m *DropboxManager) DeleteFile(remotePath string) error {
	target, err := resolveFile("delete", m.rootPath, remotePath)
	if err != nil {
		return err
	}

	log.Debug().Str("path", target).Msg("Deleting from Dropbox")
	if _, err := m.handler.DeleteV2(files.NewDeleteArg(target)); err != nil {
		return dropboxError("delete", target, err)
	}
	return nil
}

// Ls lists the immediate children of remotePath, following every page.
func (m *DropboxManager) Ls(remotePath string) (types.Listing, error) {
	folder, err := resolve("ls", m.rootPath, remotePath)
	if err != nil {
		return nil, err
	}

	arg := files.NewListFolderArg(folder)
	if m.pageSize > 0 {
		arg.Limit = m.pageSize
	}

	res, err := m.handler.ListFolder(arg)
	if err != nil {
		return nil, dropboxError("ls", folder, err)
	}

	listing := make(types.Listing)
	pages := 1
	for {
		for _, e := range res.Entries {
			if entry, ok := entryFromMetadata(e); ok {
				listing[entry.Name] = entry
			}
		}
		if !res.HasMore {
			break
		}

		res, err = m.handler.ListFolderContinue(files.NewListFolderContinueArg(res.Cursor))
		if err != nil {
			return nil, dropboxError("ls", folder, err)
		}
		pages++
	}

	log.Debug().Str("path", folder).Int("entries", len(listing)).Int("pages", pages).Msg("Listed Dropbox folder")
	return listing, nil
}

func entryFromMetadata(meta files.IsMetadata) (types.Entry, bool) {
	switch e := meta.(type) {
	case *files.FileMetadata:
		modified := e.ClientModified
		if modified.IsZero() {
			modified = e.ServerModified
		}
		return types.Entry{
			Name:        e.Name,
			Path:        e.PathDisplay,
			Kind:        types.KindFile,
			Size:        e.Size,
			Modified:    modified,
			ID:          e.Id,
			Rev:         e.Rev,
			ContentHash: e.ContentHash,
		}, true
	case *files.FolderMetadata:
		return types.Entry{
			Name: e.Name,
			Path: e.PathDisplay,
			Kind: types.KindFolder,
			ID:   e.Id,
		}, true
	default:
		// Deleted entries only show up when include_deleted is requested.
		return types.Entry{}, false
	}
}

// dropboxError classifies an SDK error, preferring the typed endpoint error
// and falling back to the error summary.
func dropboxError(op, path string, err error) error {
	return newOpError(op, path, classifyDropboxError(err), err)
}

func classifyDropboxError(err error) error {
	if kind := classifyAPIError(err); kind != nil {
		return kind
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg,
		"invalid_access_token",
		"expired_access_token",
		"access token is malformed",
		"invalid authorization value",
		"missing_scope",
		"user_suspended",
		"invalid_select_user",
		"401 unauthorized",
	):
		return ErrAuthentication
	case containsAny(msg, "not_found"):
		return ErrNotFound
	case containsAny(msg,
		"malformed_path",
		"not_folder",
		"not_file",
		"disallowed_name",
		"invalid_path_root",
		"conflict/folder",
		"conflict/file",
	):
		return ErrInvalidPath
	default:
		return ErrRemoteIO
	}
}

// classifyAPIError maps the typed errors of the SDK routes in use.
// It returns nil when err carries no usable endpoint error.
func classifyAPIError(err error) error {
	var authErr auth.AuthAPIError
	if errors.As(err, &authErr) {
		return ErrAuthentication
	}
	var accessErr auth.AccessAPIError
	if errors.As(err, &accessErr) {
		return ErrAuthentication
	}

	var uploadErr files.UploadAPIError
	if errors.As(err, &uploadErr) && uploadErr.EndpointError != nil {
		if uploadErr.EndpointError.Path != nil {
			return writeErrorKind(uploadErr.EndpointError.Path.Reason)
		}
		return ErrRemoteIO
	}

	var downloadErr files.DownloadAPIError
	if errors.As(err, &downloadErr) && downloadErr.EndpointError != nil {
		return lookupErrorKind(downloadErr.EndpointError.Path)
	}

	var deleteErr files.DeleteV2APIError
	if errors.As(err, &deleteErr) && deleteErr.EndpointError != nil {
		switch deleteErr.EndpointError.Tag {
		case files.DeleteErrorPathLookup:
			return lookupErrorKind(deleteErr.EndpointError.PathLookup)
		case files.DeleteErrorPathWrite:
			return writeErrorKind(deleteErr.EndpointError.PathWrite)
		}
		return ErrRemoteIO
	}

	var listErr files.ListFolderAPIError
	if errors.As(err, &listErr) && listErr.EndpointError != nil {
		return lookupErrorKind(listErr.EndpointError.Path)
	}

	var continueErr files.ListFolderContinueAPIError
	if errors.As(err, &continueErr) && continueErr.EndpointError != nil {
		return lookupErrorKind(continueErr.EndpointError.Path)
	}

	return nil
}

func lookupErrorKind(e *files.LookupError) error {
	if e == nil {
		return ErrRemoteIO
	}
	switch e.Tag {
	case files.LookupErrorNotFound:
		return ErrNotFound
	case files.LookupErrorMalformedPath, files.LookupErrorNotFile, files.LookupErrorNotFolder:
		return ErrInvalidPath
	}
	return ErrRemoteIO
}

// writeErrorKind treats a conflict as an invalid target, like writing a file
// over a folder.
func writeErrorKind(e *files.WriteError) error {
	if e == nil {
		return ErrRemoteIO
	}
	switch e.Tag {
	case files.WriteErrorMalformedPath, files.WriteErrorDisallowedName, files.WriteErrorConflict:
		return ErrInvalidPath
	}
	return ErrRemoteIO
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
