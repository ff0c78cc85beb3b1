package tool

import (
	"net/http"
	"time"
)

var ConnectionHttpClient *http.Client

func init() {
	ConnectionHttpClient = NewHTTPClient(0)
}

// NewHTTPClient creates the client used towards the processing server.
// timeout 0 leaves the overall request unbounded so large archives are only
// limited by the per-upload context; dialing and headers still time out.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 5 * time.Minute,
		ExpectContinueTimeout: time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

func GetHttpClient() *http.Client {
	return ConnectionHttpClient
}
