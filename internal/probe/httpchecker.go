package probe

import (
	"context"
	"net/http"
	"time"

	"github.com/hamed0406/downloadcheck/internal/domain"
)

type HTTPChecker struct {
	Client *http.Client
}

// NewHTTPChecker returns a checker whose only deadline is the client timeout.
func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	return &HTTPChecker{
		Client: &http.Client{Timeout: timeout},
	}
}

// Check issues one HEAD request. The body is never read.
func (h *HTTPChecker) Check(ctx context.Context, target string) domain.CheckResult {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return domain.CheckResult{URL: target, Outcome: domain.TransportError, Err: err}
	}

	resp, err := h.Client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return domain.CheckResult{URL: target, Outcome: domain.TransportError, Err: err, Latency: latency}
	}
	resp.Body.Close()

	return domain.CheckResult{
		URL:        target,
		Outcome:    domain.Classify(resp.StatusCode),
		StatusCode: resp.StatusCode,
		Latency:    latency,
	}
}
