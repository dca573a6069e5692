package jsonoutput

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cloud-filemanager/go/internal/types"
)

// FromListing creates a ListOutput from an ls result
func FromListing(backend, path string, listing types.Listing) *types.ListOutput {
	if path == "" {
		path = "/"
	}
	return &types.ListOutput{
		Backend: backend,
		Path:    path,
		Entries: listing.Sorted(),
	}
}

// FromResults creates an OperationsOutput from per-path operation results
func FromResults(backend string, results []types.OperationResult) *types.OperationsOutput {
	operations := make([]types.OperationResult, len(results))
	copy(operations, results)

	// Sort by remote path for deterministic output, keeping the order of
	// repeated operations on the same path
	sort.SliceStable(operations, func(i, j int) bool {
		return operations[i].Remote < operations[j].Remote
	})

	return &types.OperationsOutput{
		Backend:    backend,
		Operations: operations,
	}
}

// ToJSON converts an output document to an indented JSON string
func ToJSON(output any) (string, error) {
	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return "", fmt.Errorf("JSON serialization failed: %w", err)
	}
	return string(jsonBytes), nil
}
