package probe

import (
	"context"

	"github.com/hamed0406/downloadcheck/internal/domain"
)

// Checker performs a single existence check for an absolute URL.
// Implementations never return an error: failures are encoded in the result.
type Checker interface {
	Check(ctx context.Context, url string) domain.CheckResult
}
