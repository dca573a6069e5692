package cloud

import (
	"bytes"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/auth"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"
)

// apiError is an untyped error carrying only an error summary.
type apiError struct {
	summary string
}

func (e apiError) Error() string {
	return e.summary
}

func tagged(tag string) dropbox.Tagged {
	return dropbox.Tagged{Tag: tag}
}

func summary(s string) dropbox.APIError {
	return dropbox.APIError{ErrorSummary: s}
}

func lookupError(tag string) *files.LookupError {
	return &files.LookupError{Tagged: tagged(tag)}
}

// fakeDropbox is an in-memory DropboxClient. Folders are created implicitly
// by uploads and survive the deletion of their last file, as on Dropbox.
type fakeDropbox struct {
	token      string
	validToken string
	pageSize   int

	files   map[string][]byte
	folders map[string]bool
	calls   map[string]int
	pages   []files.IsMetadata
}

func newFakeDropbox(token string) *fakeDropbox {
	return &fakeDropbox{
		token:      token,
		validToken: token,
		pageSize:   2,
		files:      make(map[string][]byte),
		folders:    make(map[string]bool),
		calls:      make(map[string]int),
	}
}

var _ DropboxClient = (*fakeDropbox)(nil)

func (f *fakeDropbox) auth(endpoint string) error {
	f.calls[endpoint]++
	if f.token != f.validToken {
		return auth.AuthAPIError{
			APIError:  summary("invalid_access_token/..."),
			AuthError: &auth.AuthError{Tagged: tagged(auth.AuthErrorInvalidAccessToken)},
		}
	}
	return nil
}

func (f *fakeDropbox) Upload(arg *files.UploadArg, content io.Reader) (*files.FileMetadata, error) {
	if err := f.auth("upload"); err != nil {
		return nil, err
	}
	if f.folders[arg.Path] {
		return nil, files.UploadAPIError{
			APIError: summary("path/conflict/folder/"),
			EndpointError: &files.UploadError{
				Tagged: tagged(files.UploadErrorPath),
				Path: &files.UploadWriteFailed{Reason: &files.WriteError{
					Tagged:   tagged(files.WriteErrorConflict),
					Conflict: &files.WriteConflictError{Tagged: tagged(files.WriteConflictErrorFolder)},
				}},
			},
		}
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	f.files[arg.Path] = data
	for dir := path.Dir(arg.Path); dir != "/"; dir = path.Dir(dir) {
		f.folders[dir] = true
	}
	return f.fileMetadata(arg.Path), nil
}

func (f *fakeDropbox) Download(arg *files.DownloadArg) (*files.FileMetadata, io.ReadCloser, error) {
	if err := f.auth("download"); err != nil {
		return nil, nil, err
	}
	data, ok := f.files[arg.Path]
	if !ok {
		tag := files.LookupErrorNotFound
		if f.folders[arg.Path] {
			tag = files.LookupErrorNotFile
		}
		return nil, nil, files.DownloadAPIError{
			APIError:      summary("path/" + tag + "/.."),
			EndpointError: &files.DownloadError{Tagged: tagged(files.DownloadErrorPath), Path: lookupError(tag)},
		}
	}
	return f.fileMetadata(arg.Path), io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeDropbox) DeleteV2(arg *files.DeleteArg) (*files.DeleteResult, error) {
	if err := f.auth("delete"); err != nil {
		return nil, err
	}
	if _, ok := f.files[arg.Path]; ok {
		delete(f.files, arg.Path)
		return &files.DeleteResult{}, nil
	}
	if !f.folders[arg.Path] {
		return nil, files.DeleteV2APIError{
			APIError: summary("path_lookup/not_found/..."),
			EndpointError: &files.DeleteError{
				Tagged:     tagged(files.DeleteErrorPathLookup),
				PathLookup: lookupError(files.LookupErrorNotFound),
			},
		}
	}
	prefix := arg.Path + "/"
	for p := range f.files {
		if strings.HasPrefix(p, prefix) {
			delete(f.files, p)
		}
	}
	for p := range f.folders {
		if p == arg.Path || strings.HasPrefix(p, prefix) {
			delete(f.folders, p)
		}
	}
	return &files.DeleteResult{}, nil
}

func (f *fakeDropbox) ListFolder(arg *files.ListFolderArg) (*files.ListFolderResult, error) {
	if err := f.auth("list_folder"); err != nil {
		return nil, err
	}
	if _, ok := f.files[arg.Path]; ok {
		return nil, listFolderError(files.LookupErrorNotFolder)
	}
	if arg.Path != "" && !f.folders[arg.Path] {
		return nil, listFolderError(files.LookupErrorNotFound)
	}

	var entries []files.IsMetadata
	for p := range f.files {
		if path.Dir(p) == parentKey(arg.Path) {
			entries = append(entries, f.fileMetadata(p))
		}
	}
	for p := range f.folders {
		if path.Dir(p) == parentKey(arg.Path) {
			entries = append(entries, &files.FolderMetadata{
				Metadata: files.Metadata{Name: path.Base(p), PathDisplay: p, PathLower: strings.ToLower(p)},
				Id:       "id:" + p,
			})
		}
	}
	entries = append(entries, &files.DeletedMetadata{
		Metadata: files.Metadata{Name: "ghost", PathDisplay: arg.Path + "/ghost"},
	})
	sort.Slice(entries, func(i, j int) bool {
		return metadataName(entries[i]) < metadataName(entries[j])
	})

	if arg.Limit > 0 {
		f.pageSize = int(arg.Limit)
	}
	f.pages = entries
	return f.page(0), nil
}

func (f *fakeDropbox) ListFolderContinue(arg *files.ListFolderContinueArg) (*files.ListFolderResult, error) {
	if err := f.auth("list_folder/continue"); err != nil {
		return nil, err
	}
	offset, err := strconv.Atoi(arg.Cursor)
	if err != nil {
		return nil, files.ListFolderContinueAPIError{
			APIError:      summary("reset/.."),
			EndpointError: &files.ListFolderContinueError{Tagged: tagged(files.ListFolderContinueErrorReset)},
		}
	}
	return f.page(offset), nil
}

func listFolderError(tag string) error {
	return files.ListFolderAPIError{
		APIError:      summary("path/" + tag + "/..."),
		EndpointError: &files.ListFolderError{Tagged: tagged(files.ListFolderErrorPath), Path: lookupError(tag)},
	}
}

func (f *fakeDropbox) page(offset int) *files.ListFolderResult {
	end := offset + f.pageSize
	if end > len(f.pages) {
		end = len(f.pages)
	}
	return &files.ListFolderResult{
		Entries: f.pages[offset:end],
		Cursor:  strconv.Itoa(end),
		HasMore: end < len(f.pages),
	}
}

func (f *fakeDropbox) fileMetadata(p string) *files.FileMetadata {
	return &files.FileMetadata{
		Metadata:       files.Metadata{Name: path.Base(p), PathDisplay: p, PathLower: strings.ToLower(p)},
		Id:             "id:" + p,
		ClientModified: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Rev:            "015f0a",
		Size:           uint64(len(f.files[p])),
		ContentHash:    "hash:" + p,
	}
}

// parentKey maps the Dropbox root "" onto the path.Dir form "/".
func parentKey(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

func metadataName(m files.IsMetadata) string {
	switch e := m.(type) {
	case *files.FileMetadata:
		return e.Name
	case *files.FolderMetadata:
		return e.Name
	case *files.DeletedMetadata:
		return e.Name
	}
	return ""
}
