package utils

import "net/http"

const UserAgent = "Bellhop/1.0 (github.com/pranavarma/bellhop)"

// UARoundtripper stamps every outbound request with our User-Agent so
// upstream services can identify us. A nil RT falls through to the
// default transport at call time, which keeps test interception working.
type UARoundtripper struct {
	RT http.RoundTripper
}

func (uart *UARoundtripper) RoundTrip(req *http.Request) (*http.Response, error) {
	rt := uart.RT
	if rt == nil {
		rt = http.DefaultTransport
	}
	req.Header.Set("User-Agent", UserAgent)
	return rt.RoundTrip(req)
}

func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &UARoundtripper{},
	}
}
