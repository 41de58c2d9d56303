package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/klawr-dev/klawr-sdk/go/application/config"
	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
)

// ExitError carries the process exit code for a failed run.
type ExitError struct {
	Message string
	Code    int
}

func (e *ExitError) Error() string {
	return e.Message
}

// options is the parsed command line.
type options struct {
	logFormat string
	logLevel  slog.Level
	print     bool
	schema    string
	bridge    entities.BridgeConfig
}

// parse processes the command line. It reports exit=true when the program
// should stop without error, as after -h.
func parse(args []string, output io.Writer) (*options, bool, error) {
	fs := flag.NewFlagSet("klawr-export", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprint(output, `
klawr-export - writes the metadata document of the script assemblies.

Usage:
  klawr-export [options]

Options:
`)
		fs.PrintDefaults()
	}

	configFlag := fs.String("config", "", "Path to a bridge config file (.yaml, .yml or .hcl).")
	assemblyFlag := fs.String("assembly", "", "Game scripts assembly to load. Overrides the config file.")
	wrappersFlag := fs.String("wrappers", "", "Engine wrapper assembly to load. Overrides the config file.")
	outFlag := fs.String("out", "", "Where to write the document. Overrides the config file.")
	validateFlag := fs.Bool("validate", false, "Check the document against its JSON schema.")
	printFlag := fs.Bool("print", false, "Also print the document to standard output.")
	schemaFlag := fs.String("schema", "", "Print a JSON schema and exit. Options: 'document' or 'config'.")
	logFormatFlag := fs.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := fs.String("log-level", "", "Logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if fs.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected argument %q", fs.Arg(0))}
	}
	switch *schemaFlag {
	case "":
	case "document", "config":
		return &options{schema: *schemaFlag}, false, nil
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid schema: must be 'document' or 'config'"}
	}

	cfg := entities.DefaultBridgeConfig()
	if *configFlag != "" {
		loaded, err := config.NewLoader().Load(*configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		cfg = *loaded
	}
	if *assemblyFlag != "" {
		cfg.GameScriptsAssembly = *assemblyFlag
	}
	if *wrappersFlag != "" {
		cfg.EngineWrapperAssembly = *wrappersFlag
	}
	if *outFlag != "" {
		cfg.ExportPath = *outFlag
	}
	if *logLevelFlag != "" {
		cfg.LogLevel = strings.ToLower(*logLevelFlag)
	}
	cfg.ValidateExport = cfg.ValidateExport || *validateFlag

	if cfg.GameScriptsAssembly == "" {
		fs.Usage()
		return nil, false, &ExitError{Code: 2, Message: "no game scripts assembly: pass -assembly or -config"}
	}
	if err := config.Validate(&cfg); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return &options{
		bridge:    cfg,
		logFormat: logFormat,
		logLevel:  level,
		print:     *printFlag,
	}, false, nil
}

func (o *options) logger(w io.Writer) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: o.logLevel}
	if o.logFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}
