package probe

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

// DNSStatus is a resolver-level diagnostic attached to failed checks.
// Class is one of "RESOLVES", "NXDOMAIN", "NO_A_RECORD",
// "SERVFAIL_or_TIMEOUT", "INVALID_NAME".
type DNSStatus struct {
	Host          string
	IPs           []net.IP
	CNAME         string
	Nameservers   []string
	Class         string
	ResolverError string
}

var dnsProbeTimeout = 3 * time.Second

// CheckDNS probes the OS resolver for the host's A/AAAA, CNAME and NS
// records to explain why an HTTP check could not reach it.
func CheckDNS(host string) DNSStatus {
	s := DNSStatus{Host: strings.TrimSpace(host)}
	if s.Host == "" || strings.Contains(s.Host, "://") {
		s.Class = "INVALID_NAME"
		return s
	}

	ctx, cancel := context.WithTimeout(context.Background(), dnsProbeTimeout)
	defer cancel()
	r := &net.Resolver{}

	ips, err := r.LookupIP(ctx, "ip", s.Host)
	switch {
	case err == nil && len(ips) > 0:
		s.IPs = ips
		s.Class = "RESOLVES"
	case err != nil:
		s.ResolverError = err.Error()
		var de *net.DNSError
		if errors.As(err, &de) {
			if de.IsNotFound {
				s.Class = "NXDOMAIN"
			} else if de.IsTemporary || de.Timeout() {
				s.Class = "SERVFAIL_or_TIMEOUT"
			}
		}
	}

	if cname, err := r.LookupCNAME(ctx, s.Host); err == nil && !strings.EqualFold(cname, s.Host+".") {
		s.CNAME = strings.TrimSuffix(cname, ".")
	}

	// A zone with NS records but no address record is a configuration
	// problem, not a missing domain.
	if ns, err := r.LookupNS(ctx, s.Host); err == nil && len(ns) > 0 {
		for _, n := range ns {
			s.Nameservers = append(s.Nameservers, strings.TrimSuffix(n.Host, "."))
		}
		if s.Class == "NXDOMAIN" {
			s.Class = "NO_A_RECORD"
		}
	}

	if s.Class == "" {
		switch {
		case len(s.Nameservers) > 0:
			s.Class = "NO_A_RECORD"
		case s.ResolverError != "":
			s.Class = "SERVFAIL_or_TIMEOUT"
		default:
			s.Class = "NXDOMAIN"
		}
	}
	return s
}
