package httpclient

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGetDefaultClientIsSingleton(t *testing.T) {
	client := GetDefaultClient()
	if client == nil {
		t.Fatalf("GetDefaultClient returned nil")
	}
	if client.Timeout != DefaultTimeout {
		t.Fatalf("timeout = %v, want %v", client.Timeout, DefaultTimeout)
	}
	if GetDefaultClient() != client {
		t.Fatalf("expected the same client on every call")
	}
}

func TestNewClientTimeout(t *testing.T) {
	client := NewClient(5 * time.Second)
	if client.Timeout != 5*time.Second {
		t.Fatalf("timeout = %v, want 5s", client.Timeout)
	}
	if _, ok := client.Transport.(*http.Transport); !ok {
		t.Fatalf("transport = %T, want *http.Transport", client.Transport)
	}
}

func TestDoAndRead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "transcript text")
	}))
	defer server.Close()

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	body, resp, err := DoAndRead(GetDefaultClient(), req)
	if err != nil {
		t.Fatalf("DoAndRead: %v", err)
	}
	if string(body) != "transcript text" {
		t.Fatalf("body = %q", body)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %v", resp.Status)
	}
}

func TestDoAndReadConnectError(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://invalid.url.local", nil)
	if _, _, err := DoAndRead(GetDefaultClient(), req); err == nil {
		t.Fatalf("expected an error for an unreachable host")
	}
}

func TestDoAndReadRejectsOversizedBody(t *testing.T) {
	oversized := make([]byte, MaxResponseBytes+1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(oversized)))
		w.WriteHeader(http.StatusOK)
		w.Write(oversized)
	}))
	defer server.Close()

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	_, _, err := DoAndRead(GetDefaultClient(), req)
	if err == nil || !strings.Contains(err.Error(), "response body too large") {
		t.Fatalf("err = %v, want a too-large error", err)
	}
}

func TestSetDefaultClientForTesting(t *testing.T) {
	custom := &http.Client{Timeout: 3 * time.Second}
	restore := SetDefaultClientForTesting(custom)
	defer restore()

	if GetDefaultClient() != custom {
		t.Fatalf("override not in effect")
	}
}
