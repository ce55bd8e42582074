// ledger-import merges an external snapshot or export file into the
// configured backend from the command line, without running the server.
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
	file := flag.String("file", "", "snapshot or export JSON file to merge")
	flag.Parse()

	logger := cli.SetupLogger("import")
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

	before := len(engine.List(ctx))
	added, err := engine.MergeLoad(ctx, *file)
	if err != nil {
		logger.Error("Merge failed", applog.FieldError, err, applog.FieldPath, *file, "added", added)
		os.Exit(1)
	}

	logger.Info("Merge completed",
		applog.FieldPath, *file,
		"added", added,
		"records_before", before,
		"records_after", before+added,
		"total", core.FormatCurrency(engine.Total(ctx)))
}
