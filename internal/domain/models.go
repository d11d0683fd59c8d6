package domain

import "time"

// Outcome classifies a single availability check.
type Outcome int

const (
	Available      Outcome = iota + 1 // response received, 2xx
	Unavailable                       // response received, anything else
	TransportError                    // no response at all
)

func (o Outcome) String() string {
	switch o {
	case Available:
		return "available"
	case Unavailable:
		return "unavailable"
	case TransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Targets is the ordered list of paths checked in one run. Duplicates are
// legal and each entry is checked on its own.
type Targets []string

// DefaultTargets are the download artifacts published on the site.
var DefaultTargets = Targets{
	"/downloads/integrity-assistant-windows-protected.zip",
	"/downloads/integrity-assistant-macos-protected.zip",
	"/downloads/integrity-assistant-linux-protected.zip",
}

// CheckResult is the outcome of checking one target. It is handed to the
// sink as soon as it exists and never stored.
type CheckResult struct {
	Target     string // path as listed
	URL        string // Target resolved against the origin
	Outcome    Outcome
	StatusCode int // 0 when Outcome is TransportError
	Err        error
	Latency    time.Duration
}

func (r CheckResult) OK() bool {
	return r.Outcome == Available
}

// Message returns the transport error text, or "" when a response was received.
func (r CheckResult) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Classify maps a received status code to Available or Unavailable.
// Redirects, client and server errors are all treated as Unavailable.
func Classify(status int) Outcome {
	if status >= 200 && status < 300 {
		return Available
	}
	return Unavailable
}
