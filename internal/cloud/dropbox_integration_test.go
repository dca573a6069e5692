package cloud

import (
	"os"
	"testing"

	"github.com/cloud-filemanager/go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dropboxKey returns the key of a real Dropbox account, skipping the test
// when none is available.
func dropboxKey(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Dropbox integration test in short mode")
	}
	key := os.Getenv(config.EnvDropboxKey)
	if key == "" {
		t.Skipf("%s is not set", config.EnvDropboxKey)
	}
	return key
}

func TestDropboxIntegration(t *testing.T) {
	key := dropboxKey(t)

	m, err := NewDropboxManager(config.Settings{APIKey: key, Verify: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := m.DeleteFile("/tests"); err != nil && !IsNotFound(err) {
			t.Logf("cleanup of /tests failed: %v", err)
		}
	})

	testManagerContract(t, m)
}

func TestDropboxIntegrationWrongKey(t *testing.T) {
	key := dropboxKey(t)

	m, err := NewDropboxManager(config.Settings{APIKey: key + "wrong_key"})
	require.NoError(t, err)

	_, err = m.Ls("")
	assert.ErrorIs(t, err, ErrAuthentication)

	_, err = NewDropboxManager(config.Settings{APIKey: "wrong_key", Verify: true})
	assert.ErrorIs(t, err, ErrAuthentication)
}
