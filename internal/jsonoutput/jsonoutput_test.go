package jsonoutput

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cloud-filemanager/go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromListing(t *testing.T) {
	listing := types.Listing{
		"b.txt": {Name: "b.txt", Path: "/b.txt", Kind: types.KindFile, Size: 3},
		"a":     {Name: "a", Path: "/a", Kind: types.KindFolder},
	}

	output := FromListing("dropbox", "", listing)
	assert.Equal(t, "/", output.Path)
	require.Len(t, output.Entries, 2)
	assert.Equal(t, "a", output.Entries[0].Name)
	assert.Equal(t, "b.txt", output.Entries[1].Name)
}

func TestFromListingEmptyHasNoNullEntries(t *testing.T) {
	output := FromListing("local", "/tests", types.Listing{})

	s, err := ToJSON(output)
	require.NoError(t, err)
	assert.Contains(t, s, `"entries": []`)
	assert.Contains(t, s, `"path": "/tests"`)
}

func TestFromResultsIsDeterministic(t *testing.T) {
	results := []types.OperationResult{
		{Op: "delete", Remote: "/z.txt"},
		{Op: "delete", Remote: "/a.txt", Error: "delete /a.txt: not found"},
		{Op: "upload", Remote: "/m.txt", Local: "m.txt", Bytes: 10},
	}

	output := FromResults("local", results)
	assert.Equal(t, "/a.txt", output.Operations[0].Remote)
	assert.Equal(t, "/m.txt", output.Operations[1].Remote)
	assert.Equal(t, "/z.txt", output.Operations[2].Remote)

	// The input slice is left untouched
	assert.Equal(t, "/z.txt", results[0].Remote)
}

func TestToJSONRoundTrip(t *testing.T) {
	modified := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	output := FromListing("dropbox", "/docs", types.Listing{
		"r.pdf": {Name: "r.pdf", Path: "/docs/r.pdf", Kind: types.KindFile, Size: 1024, Modified: modified, Rev: "015f"},
	})

	s, err := ToJSON(output)
	require.NoError(t, err)

	var decoded types.ListOutput
	require.NoError(t, json.Unmarshal([]byte(s), &decoded))
	assert.Equal(t, "dropbox", decoded.Backend)
	require.Len(t, decoded.Entries, 1)
	assert.True(t, modified.Equal(decoded.Entries[0].Modified))
	assert.Equal(t, "015f", decoded.Entries[0].Rev)
	assert.NotContains(t, s, "content_hash")
}

func TestFolderEntriesOmitModified(t *testing.T) {
	output := FromListing("local", "", types.Listing{
		"docs": {Name: "docs", Path: "/docs", Kind: types.KindFolder},
	})

	s, err := ToJSON(output)
	require.NoError(t, err)
	assert.Contains(t, s, `"kind": "folder"`)
	assert.NotContains(t, s, "modified")
	assert.NotContains(t, s, "0001-01-01")
}
