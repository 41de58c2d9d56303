package entities

// DefaultExportPath is the file the metadata document is written to when no
// other path is configured.
const DefaultExportPath = "assemblyInfo.json"

// DefaultEngineWrapperAssembly names the assembly holding the native object
// wrappers generated for the engine.
const DefaultEngineWrapperAssembly = "Klawr.UnrealEngine"

// BridgeConfig holds the settings of one execution domain.
type BridgeConfig struct {
	// GameScriptsAssembly is loaded automatically when the domain starts.
	GameScriptsAssembly string `json:"game_scripts_assembly" yaml:"game_scripts_assembly" hcl:"game_scripts_assembly" validate:"required,assembly_name"`

	// EngineWrapperAssembly holds the native object wrapper classes.
	EngineWrapperAssembly string `json:"engine_wrapper_assembly,omitempty" yaml:"engine_wrapper_assembly,omitempty" hcl:"engine_wrapper_assembly,optional" validate:"omitempty,assembly_name"`

	// ExportPath is where the metadata document is persisted.
	ExportPath string `json:"export_path,omitempty" yaml:"export_path,omitempty" hcl:"export_path,optional" validate:"omitempty,filepath"`

	// LogLevel is the logging verbosity ("debug", "info", "warn", "error").
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty" hcl:"log_level,optional" validate:"omitempty,oneof=debug info warn error"`

	// Assemblies are loaded in order after the wrapper and game assemblies.
	Assemblies []string `json:"assemblies,omitempty" yaml:"assemblies,omitempty" hcl:"assemblies,optional" validate:"dive,assembly_name"`

	// ValidateExport checks every exported document against its JSON schema.
	ValidateExport bool `json:"validate_export,omitempty" yaml:"validate_export,omitempty" hcl:"validate_export,optional"`
}

// DefaultBridgeConfig returns the configuration used when nothing is set.
func DefaultBridgeConfig() BridgeConfig {
	return BridgeConfig{
		EngineWrapperAssembly: DefaultEngineWrapperAssembly,
		ExportPath:            DefaultExportPath,
		LogLevel:              "info",
	}
}

// ApplyDefaults fills empty fields with their defaults.
func (c *BridgeConfig) ApplyDefaults() {
	d := DefaultBridgeConfig()
	if c.EngineWrapperAssembly == "" {
		c.EngineWrapperAssembly = d.EngineWrapperAssembly
	}
	if c.ExportPath == "" {
		c.ExportPath = d.ExportPath
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}
