package utils

import (
	"net"
	"regexp"
	"strconv"
)

// DomainRegex is the regex for validating domains
// It allows for subdomains and requires at least one dot (e.g. example.com)
// It does not allow for IP addresses or localhost
var DomainRegex = regexp.MustCompile(`^(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)

// IsValidDomain checks if the provided string is a valid domain name
func IsValidDomain(domain string) bool {
	if len(domain) > 253 {
		return false
	}
	return DomainRegex.MatchString(domain)
}

// IsValidHost checks a Host header value as it may appear in an app domain
// allow-list: a domain, localhost or an IP, with an optional port.
func IsValidHost(host string) bool {
	name := host
	if h, port, err := net.SplitHostPort(host); err == nil {
		p, err := strconv.Atoi(port)
		if err != nil || p < 1 || p > 65535 {
			return false
		}
		name = h
	}

	if name == "localhost" || net.ParseIP(name) != nil {
		return true
	}
	return IsValidDomain(name)
}
