// ledger-export writes the export envelope for the configured backend to a
// file from the command line, without running the server.
package main

import (
	"context"
	"flag"
	"os"

	"ledger/internal/cli"
	"ledger/internal/core"
	applog "ledger/internal/log"
)

func main() {
	file := flag.String("file", "", "destination path for the export envelope")
	flag.Parse()

	logger := cli.SetupLogger("export")
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	if *file == "" {
		logger.Error("Missing required -file flag")
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	result := cli.OpenBackend(logger, cfg)
	defer func() {
		if result.Cleanup != nil {
			_ = result.Cleanup()
		}
	}()

	engine := cli.NewEngine(ctx, logger, cfg, result)

	if err := engine.Export(ctx, *file); err != nil {
		logger.Error("Export failed", applog.FieldError, err, applog.FieldPath, *file)
		os.Exit(1)
	}

	logger.Info("Export completed",
		applog.FieldPath, *file,
		"records", len(engine.List(ctx)),
		"total", core.FormatCurrency(engine.Total(ctx)))
}
