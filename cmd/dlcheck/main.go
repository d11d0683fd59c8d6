package main

import (
	"context"
	"io"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/hamed0406/downloadcheck/internal/config"
	"github.com/hamed0406/downloadcheck/internal/logging"
	"github.com/hamed0406/downloadcheck/internal/probe"
	"github.com/hamed0406/downloadcheck/internal/report"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	run(context.Background(), cfg, os.Stdout, logger)
}

// run prints the banner, fires every check and waits for the last line so the
// process does not exit underneath in-flight requests. Individual failures
// never change the outcome of the run.
func run(ctx context.Context, cfg config.Config, out io.Writer, logger *zap.Logger) {
	console := report.NewConsole(out, logger)
	console.Banner()

	d := probe.NewDispatcher(logger, probe.NewHTTPChecker(cfg.HTTPTimeout), cfg.Origin)
	if cfg.DNSDiagnose {
		d.Diagnoser = probe.NewDNSDiagnoser(logger)
	}
	d.Dispatch(ctx, cfg.Targets, console.Result).Wait()
}
