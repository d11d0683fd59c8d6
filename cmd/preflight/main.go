// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/multierr"

	"github.com/hamed0406/downloadcheck/internal/config"
)

func main() {
	fail := func(msg string) { fmt.Fprintln(os.Stderr, "✖", msg) }
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg := config.FromEnv()

	if strings.TrimSpace(os.Getenv("DLCHECK_ORIGIN")) == "" {
		warn("DLCHECK_ORIGIN empty; checking the local origin at " + cfg.Origin)
	} else {
		ok("DLCHECK_ORIGIN=" + cfg.Origin)
	}
	if strings.TrimSpace(os.Getenv("DLCHECK_TARGETS")) == "" {
		warn("DLCHECK_TARGETS empty; using the published download list.")
	}
	ok(fmt.Sprintf("%d target(s), timeout %s", len(cfg.Targets), cfg.HTTPTimeout))

	if st, err := os.Stat(cfg.DownloadsDir); err != nil || !st.IsDir() {
		warn("DOWNLOADS_DIR " + cfg.DownloadsDir + " missing; cmd/origin will answer 404 for every download.")
	} else {
		ok("DOWNLOADS_DIR=" + cfg.DownloadsDir)
	}

	if err := cfg.Validate(); err != nil {
		for _, e := range multierr.Errors(err) {
			fail(e.Error())
		}
		os.Exit(1)
	}
	ok("preflight passed")
}
