package parser

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
	"github.com/klawr-dev/klawr-sdk/go/domain/ports"
)

// HCLConfigParser implements ConfigParser for HCL. Settings are top-level
// attributes:
//
//	game_scripts_assembly = "Game.Scripts"
//	assemblies            = ["Game.Extras"]
type HCLConfigParser struct{}

// NewHCLConfigParser creates a new HCLConfigParser.
func NewHCLConfigParser() ports.ConfigParser {
	return &HCLConfigParser{}
}

// Parse decodes HCL bytes into a BridgeConfig struct.
func (p *HCLConfigParser) Parse(filename string, data []byte) (*entities.BridgeConfig, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL config %s: %w", filename, diags)
	}

	var cfg entities.BridgeConfig
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL config %s: %w", filename, diags)
	}
	return &cfg, nil
}

// Extensions implements ConfigParser.
func (p *HCLConfigParser) Extensions() []string {
	return []string{".hcl"}
}
