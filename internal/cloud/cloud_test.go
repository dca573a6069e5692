package cloud

import (
	"path/filepath"
	"testing"

	"github.com/cloud-filemanager/go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendString(t *testing.T) {
	assert.Equal(t, "Dropbox", Dropbox.String())
	assert.Equal(t, "Local", Local.String())
	assert.Equal(t, "Unknown", Backend(99).String())
}

func TestParseBackend(t *testing.T) {
	b, err := ParseBackend("dropbox")
	assert.NoError(t, err)
	assert.Equal(t, Dropbox, b)

	b, err = ParseBackend(" Local ")
	assert.NoError(t, err)
	assert.Equal(t, Local, b)

	_, err = ParseBackend("gdrive")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	root := filepath.Join(t.TempDir(), "store")
	m, err := New(config.BackendConfig{Type: "local", Config: config.Settings{RootPath: root}})
	require.NoError(t, err)
	assert.Equal(t, "local", m.Name())

	m, err = New(config.BackendConfig{Type: "dropbox", Config: config.Settings{APIKey: "sl.token"}})
	require.NoError(t, err)
	assert.Equal(t, "dropbox", m.Name())

	m, err = New(config.BackendConfig{Type: "dropbox"})
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.Nil(t, m)

	m, err = New(config.BackendConfig{Type: "s3"})
	assert.Error(t, err)
	assert.Nil(t, m)
}
