package probe

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hamed0406/downloadcheck/internal/domain"
)

// scripted answers by URL suffix; gates hold a check until closed
type fakeChecker struct {
	answers map[string]domain.CheckResult
	gates   map[string]chan struct{}

	mu    sync.Mutex
	calls []string
}

func (f *fakeChecker) Check(ctx context.Context, url string) domain.CheckResult {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()

	for suffix, gate := range f.gates {
		if strings.HasSuffix(url, suffix) {
			<-gate
		}
	}
	for suffix, r := range f.answers {
		if strings.HasSuffix(url, suffix) {
			r.URL = url
			return r
		}
	}
	return domain.CheckResult{URL: url, Outcome: domain.Unavailable, StatusCode: 404}
}

type collector struct {
	mu  sync.Mutex
	got []domain.CheckResult
}

func (c *collector) add(r domain.CheckResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, r)
}

func (c *collector) snapshot() []domain.CheckResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.CheckResult(nil), c.got...)
}

func TestDispatcher_MixedOutcomes(t *testing.T) {
	f := &fakeChecker{answers: map[string]domain.CheckResult{
		"/a.zip": {Outcome: domain.Available, StatusCode: 200},
		"/b.zip": {Outcome: domain.Unavailable, StatusCode: 404},
		"/c.zip": {Outcome: domain.TransportError, Err: errors.New("fetch failed")},
	}}
	d := NewDispatcher(zap.NewNop(), f, "https://origin.test")

	var c collector
	d.Dispatch(context.Background(), domain.Targets{"/a.zip", "/b.zip", "/c.zip"}, c.add).Wait()

	got := c.snapshot()
	if len(got) != 3 {
		t.Fatalf("want 3 results, got %d: %+v", len(got), got)
	}
	byTarget := map[string]domain.CheckResult{}
	for _, r := range got {
		if _, dup := byTarget[r.Target]; dup {
			t.Fatalf("duplicate result for %s", r.Target)
		}
		byTarget[r.Target] = r
	}

	if r := byTarget["/a.zip"]; r.Outcome != domain.Available || r.StatusCode != 200 {
		t.Fatalf("/a.zip: %+v", r)
	}
	if r := byTarget["/b.zip"]; r.Outcome != domain.Unavailable || r.StatusCode != 404 {
		t.Fatalf("/b.zip: %+v", r)
	}
	if r := byTarget["/c.zip"]; r.Outcome != domain.TransportError || r.StatusCode != 0 || r.Message() != "fetch failed" {
		t.Fatalf("/c.zip: %+v", r)
	}
	if r := byTarget["/a.zip"]; r.URL != "https://origin.test/a.zip" {
		t.Fatalf("want resolved URL, got %q", r.URL)
	}
}

func TestDispatcher_DuplicatesCheckedEachTime(t *testing.T) {
	f := &fakeChecker{answers: map[string]domain.CheckResult{
		"/a.zip": {Outcome: domain.Available, StatusCode: 200},
	}}
	d := NewDispatcher(nil, f, "https://origin.test")

	var c collector
	b := d.Dispatch(context.Background(), domain.Targets{"/a.zip", "/a.zip", "/a.zip"}, c.add)
	b.Wait()

	if b.Len() != 3 || len(c.snapshot()) != 3 {
		t.Fatalf("want 3 results for 3 entries, got %d", len(c.snapshot()))
	}
	if len(f.calls) != 3 {
		t.Fatalf("want 3 checks, got %d", len(f.calls))
	}
}

func TestDispatcher_DoesNotBlockOnSlowTargets(t *testing.T) {
	slow := make(chan struct{})
	f := &fakeChecker{
		answers: map[string]domain.CheckResult{
			"/slow.zip": {Outcome: domain.Available, StatusCode: 200},
			"/fast.zip": {Outcome: domain.Available, StatusCode: 200},
		},
		gates: map[string]chan struct{}{"/slow.zip": slow},
	}
	d := NewDispatcher(zap.NewNop(), f, "https://origin.test")

	results := make(chan domain.CheckResult, 2)
	b := d.Dispatch(context.Background(), domain.Targets{"/slow.zip", "/fast.zip"}, func(r domain.CheckResult) {
		results <- r
	})

	// the later entry completes first while the earlier one is held
	select {
	case r := <-results:
		if r.Target != "/fast.zip" {
			t.Fatalf("want /fast.zip first, got %s", r.Target)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("fast target never reported")
	}

	close(slow)
	b.Wait()
	if r := <-results; r.Target != "/slow.zip" {
		t.Fatalf("want /slow.zip second, got %s", r.Target)
	}
}

func TestDispatcher_InvalidOriginReportsEveryTarget(t *testing.T) {
	f := &fakeChecker{}
	d := NewDispatcher(zap.NewNop(), f, "not-a-url")

	var c collector
	d.Dispatch(context.Background(), domain.Targets{"/a.zip", "/b.zip"}, c.add).Wait()

	got := c.snapshot()
	if len(got) != 2 {
		t.Fatalf("want 2 results, got %d", len(got))
	}
	for _, r := range got {
		if r.Outcome != domain.TransportError || r.Err == nil {
			t.Fatalf("want transport error, got %+v", r)
		}
	}
	if len(f.calls) != 0 {
		t.Fatalf("checker should not run for unresolvable targets, got %d calls", len(f.calls))
	}
}

func TestDispatcher_DiagnosesTransportErrorsOnly(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	f := &fakeChecker{answers: map[string]domain.CheckResult{
		"/a.zip": {Outcome: domain.Available, StatusCode: 200},
		"/c.zip": {Outcome: domain.TransportError, Err: errors.New("connection refused")},
	}}
	d := NewDispatcher(logger, f, "http://127.0.0.1:1")
	d.Diagnoser = NewDNSDiagnoser(logger)

	d.Dispatch(context.Background(), domain.Targets{"/a.zip", "/c.zip"}, func(domain.CheckResult) {}).Wait()

	entries := logs.FilterMessage("dns_check").All()
	if len(entries) != 1 {
		t.Fatalf("want exactly one dns_check entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["class"] != string(DNSResolves) || fields["host"] != "127.0.0.1" {
		t.Fatalf("unexpected dns_check fields: %v", fields)
	}
	if logs.FilterMessage("check_dispatched").Len() != 1 {
		t.Fatalf("want one check_dispatched entry")
	}
}

func TestDispatcher_WaitLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	f := &fakeChecker{answers: map[string]domain.CheckResult{
		"/a.zip": {Outcome: domain.Available, StatusCode: 200},
	}}
	d := NewDispatcher(zap.NewNop(), f, "https://origin.test")

	var c collector
	targets := domain.Targets{"/a.zip", "/b.zip", "/c.zip", "/d.zip"}
	d.Dispatch(context.Background(), targets, c.add).Wait()

	var names []string
	for _, r := range c.snapshot() {
		names = append(names, r.Target)
	}
	sort.Strings(names)
	if strings.Join(names, ",") != "/a.zip,/b.zip,/c.zip,/d.zip" {
		t.Fatalf("unexpected targets: %v", names)
	}
}
