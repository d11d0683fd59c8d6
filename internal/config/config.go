package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/hamed0406/downloadcheck/internal/domain"
	"github.com/hamed0406/downloadcheck/internal/probe"
)

type Config struct {
	Origin         string         // site the target paths are resolved against
	Targets        domain.Targets // paths to check, in order
	HTTPTimeout    time.Duration  // client timeout per HEAD request
	DNSDiagnose    bool           // log a DNS diagnosis after transport errors
	LogDir         string         // logs directory
	LogLevel       zapcore.Level  // minimum level written to the log file
	Addr           string         // origin server bind address
	DownloadsDir   string         // directory served under /downloads/
	AllowedOrigins []string       // CORS origins for the origin server; empty allows all
}

func FromEnv() Config {
	origin := strings.TrimSpace(os.Getenv("DLCHECK_ORIGIN"))
	if origin == "" {
		origin = "http://127.0.0.1:8080"
	}

	targets := domain.Targets(splitList(os.Getenv("DLCHECK_TARGETS")))
	if len(targets) == 0 {
		targets = append(domain.Targets(nil), domain.DefaultTargets...)
	}

	timeout := 10 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			timeout = time.Duration(ms) * time.Millisecond
		}
	}

	diagnose := true
	if v := os.Getenv("DNS_DIAGNOSE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			diagnose = b
		}
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	level := zapcore.InfoLevel
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if l, err := zapcore.ParseLevel(v); err == nil {
			level = l
		}
	}

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	downloads := os.Getenv("DOWNLOADS_DIR")
	if downloads == "" {
		downloads = "downloads"
	}

	return Config{
		Origin:         origin,
		Targets:        targets,
		HTTPTimeout:    timeout,
		DNSDiagnose:    diagnose,
		LogDir:         logDir,
		LogLevel:       level,
		Addr:           addr,
		DownloadsDir:   filepath.Clean(downloads),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
	}
}

// Validate reports every problem with the checker settings at once.
func (c Config) Validate() error {
	var err error
	if !probe.IsValidOrigin(c.Origin) {
		err = multierr.Append(err, fmt.Errorf("DLCHECK_ORIGIN %q is not an absolute http(s) URL", c.Origin))
	}
	if len(c.Targets) == 0 {
		err = multierr.Append(err, errors.New("DLCHECK_TARGETS is empty"))
	}
	for _, t := range c.Targets {
		if strings.Contains(t, "://") {
			err = multierr.Append(err, fmt.Errorf("target %q should be a path, not a URL", t))
		}
	}
	if c.HTTPTimeout <= 0 {
		err = multierr.Append(err, errors.New("HTTP_TIMEOUT_MS must be positive"))
	}
	if c.LogDir == "" {
		err = multierr.Append(err, errors.New("LOG_DIR is empty"))
	}
	return err
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
