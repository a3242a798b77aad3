package utils

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// forwardedHeaders are read in order when requests come through a trusted proxy.
// X-Forwarded-For contributes its left-most entry.
var forwardedHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// ParseHostNoPort returns the host part (no port) from strings like "ip:port", "[v6]:port", or "ip".
func ParseHostNoPort(s string) string {
	if s == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(s); err == nil {
		return h
	}
	return s
}

// ParseIP reads an address with or without a port. IPv4-mapped IPv6
// addresses come back as plain IPv4.
func ParseIP(s string) (netip.Addr, bool) {
	s = strings.Trim(ParseHostNoPort(strings.TrimSpace(s)), "[]")
	ip, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, false
	}
	return ip.Unmap(), true
}

// ClientIP resolves the address a request comes from. It keys the auth rate
// limit, the CIDR allow-list and the access log.
//
// With trustProxy the forwarding headers are tried first; a value that is not
// an IP is skipped rather than trusted. RemoteAddr is the fallback, returned
// as-is when it does not parse.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		for _, h := range forwardedHeaders {
			first, _, _ := strings.Cut(r.Header.Get(h), ",")
			if ip, ok := ParseIP(first); ok {
				return ip.String()
			}
		}
	}
	if ip, ok := ParseIP(r.RemoteAddr); ok {
		return ip.String()
	}
	return ParseHostNoPort(r.RemoteAddr)
}

// IPMatcher matches addresses against CIDRs and single IPs. Single IPs are
// kept as full-length prefixes.
type IPMatcher struct {
	prefixes []netip.Prefix
}

// NewIPMatcher parses list, ignoring blank and malformed entries.
func NewIPMatcher(list []string) *IPMatcher {
	m := &IPMatcher{}
	for _, raw := range list {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if p, err := netip.ParsePrefix(s); err == nil {
			m.prefixes = append(m.prefixes, p.Masked())
			continue
		}
		if ip, ok := ParseIP(s); ok {
			m.prefixes = append(m.prefixes, netip.PrefixFrom(ip, ip.BitLen()))
		}
	}
	return m
}

func (m *IPMatcher) IsEmpty() bool {
	return len(m.prefixes) == 0
}

// Allow reports whether ip falls in one of the prefixes.
func (m *IPMatcher) Allow(ip string) bool {
	addr, ok := ParseIP(ip)
	if !ok {
		return false
	}
	for _, p := range m.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
