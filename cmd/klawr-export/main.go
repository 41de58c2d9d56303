// Command klawr-export loads the configured script assemblies and writes
// their metadata document for the code generator.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/klawr-dev/klawr-sdk/go/application/schema"
	"github.com/klawr-dev/klawr-sdk/go/domain/entities"
	"github.com/klawr-dev/klawr-sdk/go/host"

	_ "github.com/klawr-dev/klawr-sdk/go/examples/scripts"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printSchema(w io.Writer, which string) error {
	var (
		doc []byte
		err error
	)
	if which == "config" {
		doc, err = schema.GenerateSchema(entities.BridgeConfig{})
	} else {
		doc, err = schema.DocumentSchema()
	}
	if err != nil {
		return fmt.Errorf("generate %s schema: %w", which, err)
	}
	_, err = fmt.Fprintf(w, "%s\n", doc)
	return err
}

// run parses args, exports the document and reports problems as an
// *ExitError. The document goes to outW when -print is set; logs go to logW.
func run(ctx context.Context, outW, logW io.Writer, args []string) error {
	opts, exit, err := parse(args, outW)
	if err != nil || exit {
		return err
	}
	if opts.schema != "" {
		return printSchema(outW, opts.schema)
	}

	logger := opts.logger(logW)
	session := host.NewSession(host.WithLogger(logger), host.WithConfig(opts.bridge))
	if !session.LoadConfigured() {
		return &ExitError{Code: 1, Message: "failed to load assemblies, see log for details"}
	}

	doc := session.AssemblyInfo(ctx)
	if opts.print {
		fmt.Fprintln(outW, doc)
	}

	var info entities.AssemblyInfo
	if err := json.Unmarshal([]byte(doc), &info); err != nil {
		return fmt.Errorf("read back metadata document: %w", err)
	}
	if n := len(info.Errors); n > 0 {
		return &ExitError{Code: 1, Message: fmt.Sprintf("export finished with %d error(s): %s", n, info.Errors[0])}
	}

	logger.Info("export complete",
		"path", session.Config().ExportPath,
		"assemblies", session.LoadedAssemblies(),
		"classes", len(info.ClassInfos),
		"enums", len(info.EnumInfos))
	return nil
}
