package session

import (
	"net"
	"strings"
)

// RootDomain derives the registrable domain from a request Host header
// so logout can clear cookies set on any subdomain
// ("app.collasco.com" -> "collasco.com"). Ports are dropped. IP literals
// and hosts with fewer than three labels (bare domains, "localhost") are
// returned as-is minus the port.
func RootDomain(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if net.ParseIP(host) != nil {
		return host
	}

	labels := strings.Split(host, ".")
	if len(labels) < 3 {
		return host
	}
	return strings.Join(labels[len(labels)-2:], ".")
}
