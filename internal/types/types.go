package types

import (
	"sort"
	"time"
)

// EntryKind tells files and folders apart in a listing
type EntryKind string

const (
	KindFile   EntryKind = "file"
	KindFolder EntryKind = "folder"
)

// Entry represents the metadata a backend reports for one remote child
type Entry struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Kind        EntryKind `json:"kind"`
	Size        uint64    `json:"size"`
	Modified    time.Time `json:"modified,omitzero"`
	ID          string    `json:"id,omitempty"`
	Rev         string    `json:"rev,omitempty"`
	ContentHash string    `json:"content_hash,omitempty"`
}

// IsFolder reports whether the entry is a folder
func (e Entry) IsFolder() bool {
	return e.Kind == KindFolder
}

// Listing maps entry names to their metadata for the immediate children of a folder
type Listing map[string]Entry

// Names returns the entry names in lexical order
func (l Listing) Names() []string {
	names := make([]string, 0, len(l))
	for name := range l {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sorted returns the entries ordered by name
func (l Listing) Sorted() []Entry {
	entries := make([]Entry, 0, len(l))
	for _, name := range l.Names() {
		entries = append(entries, l[name])
	}
	return entries
}

// Has reports whether name is a child in the listing
func (l Listing) Has(name string) bool {
	_, ok := l[name]
	return ok
}

// LocalFile represents a regular file found while scanning a local directory
type LocalFile struct {
	Path     string    // absolute local path
	Rel      string    // slash separated path below the scanned directory
	Size     int64
	Modified time.Time
}

// OperationResult represents the outcome of one CLI file operation
type OperationResult struct {
	Op     string `json:"op"`
	Remote string `json:"remote"`
	Local  string `json:"local,omitempty"`
	Bytes  int64  `json:"bytes,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ListOutput represents the JSON document printed by the ls command
type ListOutput struct {
	Backend string  `json:"backend"`
	Path    string  `json:"path"`
	Entries []Entry `json:"entries"`
}

// OperationsOutput represents the JSON document printed by mutating commands
type OperationsOutput struct {
	Backend    string            `json:"backend"`
	Operations []OperationResult `json:"operations"`
}

// Options holds the command line configuration
type Options struct {
	ConfigFile  string
	Backend     string
	Verbose     bool
	Json        bool
	MetricsFile string
	Force       bool
	Recursive   bool
	MaxDepth    int
}
