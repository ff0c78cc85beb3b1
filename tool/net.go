package tool

import (
	"fmt"
	"net"
	"net/url"
)

// IsLoopbackHost reports whether host (an IP, optionally with port) is a loopback address.
func IsLoopbackHost(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return host == "localhost"
	}
	return ip.IsLoopback()
}

// ServerHost extracts the bare host name of the processing server URL.
func ServerHost(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse server URL: %v", err)
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("server URL %q has no host", serverURL)
	}
	return host, nil
}
