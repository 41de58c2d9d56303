package ports

import "github.com/klawr-dev/klawr-sdk/go/domain/entities"

// ConfigParser decodes raw configuration bytes into a BridgeConfig.
type ConfigParser interface {
	// Parse decodes data. filename is used for diagnostics only.
	Parse(filename string, data []byte) (*entities.BridgeConfig, error)

	// Extensions lists the file extensions the parser handles, with the dot.
	Extensions() []string
}
