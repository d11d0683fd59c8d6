package probe

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DNSClass summarizes what the resolver said about a host.
type DNSClass string

const (
	DNSResolves    DNSClass = "RESOLVES"
	DNSNoARecord   DNSClass = "NO_A_RECORD"
	DNSNXDomain    DNSClass = "NXDOMAIN"
	DNSServFail    DNSClass = "SERVFAIL_or_TIMEOUT"
	DNSInvalidName DNSClass = "INVALID_NAME"
)

type DNSStatus struct {
	Host          string
	IPs           []net.IP
	CNAME         string
	Nameservers   []string
	Class         DNSClass
	ResolverError string
}

// DNSDiagnoser explains transport failures by looking at the origin host.
// Its findings go to the structured log only.
type DNSDiagnoser struct {
	Logger   *zap.Logger
	Resolver *net.Resolver
	Timeout  time.Duration
}

func NewDNSDiagnoser(logger *zap.Logger) *DNSDiagnoser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DNSDiagnoser{
		Logger:   logger,
		Resolver: net.DefaultResolver,
		Timeout:  3 * time.Second,
	}
}

func (d *DNSDiagnoser) Diagnose(ctx context.Context, rawURL string) DNSStatus {
	s := d.lookup(ctx, extractHost(rawURL))
	d.Logger.Info("dns_check",
		zap.String("url", rawURL),
		zap.String("host", s.Host),
		zap.String("class", string(s.Class)),
		zap.Int("ips", len(s.IPs)),
		zap.Strings("nameservers", s.Nameservers),
		zap.String("cname", s.CNAME),
		zap.String("resolver_error", s.ResolverError),
	)
	return s
}

func (d *DNSDiagnoser) lookup(ctx context.Context, host string) DNSStatus {
	s := DNSStatus{Host: strings.TrimSpace(host)}
	if s.Host == "" || strings.Contains(s.Host, "://") {
		s.Class = DNSInvalidName
		return s
	}
	if ip := net.ParseIP(s.Host); ip != nil {
		s.IPs = []net.IP{ip}
		s.Class = DNSResolves
		return s
	}

	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	ips, err := d.Resolver.LookupIP(ctx, "ip", s.Host)
	switch {
	case err == nil && len(ips) > 0:
		s.IPs = ips
		s.Class = DNSResolves
	case err != nil:
		s.ResolverError = err.Error()
		var de *net.DNSError
		if errors.As(err, &de) {
			if de.IsNotFound {
				s.Class = DNSNXDomain
			} else if de.IsTemporary || de.Timeout() {
				s.Class = DNSServFail
			}
		}
	}

	if cname, err := d.Resolver.LookupCNAME(ctx, s.Host); err == nil && !strings.EqualFold(cname, s.Host+".") {
		s.CNAME = strings.TrimSuffix(cname, ".")
	}

	if ns, err := d.Resolver.LookupNS(ctx, s.Host); err == nil && len(ns) > 0 {
		for _, n := range ns {
			s.Nameservers = append(s.Nameservers, strings.TrimSuffix(n.Host, "."))
		}
		// zone exists, just no address
		if s.Class == DNSNXDomain {
			s.Class = DNSNoARecord
		}
	}

	if s.Class == "" {
		switch {
		case len(s.Nameservers) > 0:
			s.Class = DNSNoARecord
		case s.ResolverError != "":
			s.Class = DNSServFail
		default:
			s.Class = DNSNXDomain
		}
	}
	return s
}
