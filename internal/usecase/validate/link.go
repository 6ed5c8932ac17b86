package validate

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// LinkSuspicious reports whether raw is not a plausible product page link:
// it must be http(s) with a non-root path on a non-placeholder host.
func LinkSuspicious(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return true
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return true
	}
	if u.Path == "" || u.Path == "/" {
		return true
	}
	return placeholderHost(u.Hostname())
}

func placeholderHost(host string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	switch {
	case host == "", host == "localhost", host == "127.0.0.1":
		return true
	case host == "example.com", strings.HasSuffix(host, ".example.com"):
		return true
	case host == "example", strings.HasSuffix(host, ".example"):
		return true
	}
	return false
}

// SourceDomain returns the registrable domain of raw's host, or "" when it has none.
func SourceDomain(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return ""
	}
	if net.ParseIP(host) != nil {
		return host
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}
