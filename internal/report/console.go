package report

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/hamed0406/downloadcheck/internal/domain"
)

const BannerLine = "=== TESTING DOWNLOAD URLS ==="

// Console writes one human-readable line per event and mirrors it to the
// structured log. Lines from concurrent callers never interleave.
type Console struct {
	mu  sync.Mutex
	out io.Writer
	log *zap.Logger
}

func NewConsole(out io.Writer, log *zap.Logger) *Console {
	if log == nil {
		log = zap.NewNop()
	}
	return &Console{out: out, log: log}
}

func (c *Console) Banner() {
	c.writeLine(BannerLine)
	c.log.Info("check_started")
}

// Result is safe to pass directly as a Dispatcher callback.
func (c *Console) Result(r domain.CheckResult) {
	c.writeLine(Format(r))

	fields := []zap.Field{
		zap.String("target", r.Target),
		zap.String("url", r.URL),
		zap.String("outcome", r.Outcome.String()),
		zap.Float64("latency_ms", float64(r.Latency.Microseconds())/1000),
	}
	switch r.Outcome {
	case domain.Available:
		c.log.Info("check_result", append(fields, zap.Int("status", r.StatusCode))...)
	case domain.Unavailable:
		c.log.Warn("check_result", append(fields, zap.Int("status", r.StatusCode))...)
	default:
		c.log.Warn("check_result", append(fields, zap.Error(r.Err))...)
	}
}

// Format renders the console line for a result. The target is printed as
// listed, not resolved.
func Format(r domain.CheckResult) string {
	name := r.Target
	if name == "" {
		name = r.URL
	}
	switch r.Outcome {
	case domain.Available:
		return fmt.Sprintf("✅ %s - OK (%d)", name, r.StatusCode)
	case domain.Unavailable:
		return fmt.Sprintf("❌ %s - FAILED (%d)", name, r.StatusCode)
	default:
		return fmt.Sprintf("❌ %s - ERROR: %s", name, r.Message())
	}
}

func (c *Console) writeLine(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.out, s)
}
