package app

import (
	"net/http"
	"reflect"
	"testing"
)

func TestNewHTTPClient_Config(t *testing.T) {
	c := newHTTPClient()
	if c.Timeout != 0 {
		t.Fatalf("client timeout should be left to the fetch layer, got %v", c.Timeout)
	}
	if c.CheckRedirect != nil {
		t.Fatalf("redirect policy belongs to the fetch layer")
	}
	tr, ok := c.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected http.Transport")
	}
	if tr.Proxy == nil || tr.TLSHandshakeTimeout == 0 || tr.ResponseHeaderTimeout == 0 {
		t.Fatalf("transport missing proxy or timeouts: %+v", tr)
	}
	// Ensure we didn't return the default client's transport
	if reflect.ValueOf(http.DefaultTransport).Pointer() == reflect.ValueOf(tr).Pointer() {
		t.Fatalf("transport should not be default")
	}
}
