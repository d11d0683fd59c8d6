package probe

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/hamed0406/downloadcheck/internal/domain"
)

// Dispatcher fans a target list out to a Checker, one goroutine per target.
type Dispatcher struct {
	Logger    *zap.Logger
	Checker   Checker
	Origin    string
	Diagnoser *DNSDiagnoser // optional; consulted after transport errors
}

func NewDispatcher(logger *zap.Logger, checker Checker, origin string) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		Logger:  logger,
		Checker: checker,
		Origin:  origin,
	}
}

// Batch tracks the checks started by one Dispatch call.
type Batch struct {
	wg sync.WaitGroup
	n  int
}

// Len is the number of checks in flight or finished.
func (b *Batch) Len() int { return b.n }

// Wait blocks until every onResult call for the batch has returned.
func (b *Batch) Wait() { b.wg.Wait() }

// Dispatch starts every check immediately and returns without waiting.
// onResult runs once per target, on the goroutine that performed the check,
// in completion order. It must be safe for concurrent use.
func (d *Dispatcher) Dispatch(ctx context.Context, targets domain.Targets, onResult func(domain.CheckResult)) *Batch {
	b := &Batch{n: len(targets)}
	for _, path := range targets {
		path := path // per-iteration copy (pre-Go 1.22 loop semantics)
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()

			res := d.checkOne(ctx, path)
			onResult(res)

			if res.Outcome == domain.TransportError && d.Diagnoser != nil && res.URL != "" {
				d.Diagnoser.Diagnose(ctx, res.URL)
			}
		}()
	}
	d.Logger.Info("check_dispatched",
		zap.String("origin", d.Origin),
		zap.Int("targets", len(targets)),
	)
	return b
}

func (d *Dispatcher) checkOne(ctx context.Context, path string) domain.CheckResult {
	u, err := Resolve(d.Origin, path)
	if err != nil {
		return domain.CheckResult{Target: path, Outcome: domain.TransportError, Err: err}
	}
	res := d.Checker.Check(ctx, u)
	res.Target = path
	res.URL = u
	return res
}
