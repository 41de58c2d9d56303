// Package parser decodes bridge configuration files.
package parser

import (
	"fmt"

	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
	"github.com/klawr-dev/klawr-sdk/go/domain/ports"
	"gopkg.in/yaml.v3"
)

// YamlConfigParser implements ConfigParser for YAML.
type YamlConfigParser struct{}

// NewYamlConfigParser creates a new YamlConfigParser.
func NewYamlConfigParser() ports.ConfigParser {
	return &YamlConfigParser{}
}

// Parse unmarshals YAML bytes into a BridgeConfig struct.
func (p *YamlConfigParser) Parse(filename string, data []byte) (*entities.BridgeConfig, error) {
	var cfg entities.BridgeConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config %s: %w", filename, err)
	}
	return &cfg, nil
}

// Extensions implements ConfigParser.
func (p *YamlConfigParser) Extensions() []string {
	return []string{".yaml", ".yml"}
}
