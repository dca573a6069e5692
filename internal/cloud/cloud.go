package cloud

import (
	"fmt"
	"strings"

	"github.com/cloud-filemanager/go/internal/config"
	"github.com/rs/zerolog/log"
)

// Backend represents a cloud storage provider
type Backend int

const (
	Dropbox Backend = iota
	Local
)

func (b Backend) String() string {
	switch b {
	case Dropbox:
		return "Dropbox"
	case Local:
		return "Local"
	default:
		return "Unknown"
	}
}

// ParseBackend maps a configuration type name to a Backend
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case config.TypeDropbox:
		return Dropbox, nil
	case config.TypeLocal:
		return Local, nil
	default:
		return 0, fmt.Errorf("unsupported backend type %q", name)
	}
}

// New constructs the Manager described by a configuration entry
func New(bc config.BackendConfig) (Manager, error) {
	backend, err := ParseBackend(bc.Type)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("backend", backend.String()).Str("root", bc.Config.RootPath).Msg("Connecting to storage backend")

	switch backend {
	case Dropbox:
		m, err := NewDropboxManager(bc.Config)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		m, err := NewLocalManager(bc.Config)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}
