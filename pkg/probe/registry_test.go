package probe

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/miekg/dns"
)

func TestRegistry_RegisterAndBuild(t *testing.T) {
	reg := NewRegistry()

	err := reg.Register("stub", func(config map[string]any) (Func, error) {
		return func() bool { return true }, nil
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	p, err := reg.Build("stub", nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !p() {
		t.Error("expected stub probe to succeed")
	}
}

func TestRegistry_DuplicateRegister(t *testing.T) {
	reg := NewRegistry()
	factory := func(config map[string]any) (Func, error) {
		return func() bool { return true }, nil
	}

	if err := reg.Register("dup", factory); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if err := reg.Register("dup", factory); err == nil {
		t.Error("expected error on duplicate registration")
	}
}

func TestRegistry_BuildUnknownKind(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Build("nope", nil); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestDefaultRegistry_Kinds(t *testing.T) {
	kinds := DefaultRegistry().Kinds()
	sort.Strings(kinds)

	want := []string{"dns", "http", "tcp"}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d kinds, got %v", len(want), kinds)
	}
	for i, kind := range want {
		if kinds[i] != kind {
			t.Errorf("expected kind %q at %d, got %q", kind, i, kinds[i])
		}
	}
}

func TestTCPFactory(t *testing.T) {
	host, port := startListener(t)

	p, err := DefaultRegistry().Build("tcp", map[string]any{
		"host":    host,
		"port":    port,
		"timeout": "1s",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !p() {
		t.Error("expected tcp probe to reach open port")
	}
}

func TestTCPFactory_ConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		config map[string]any
	}{
		{"missing host", map[string]any{"port": 80}},
		{"missing port", map[string]any{"host": "localhost"}},
		{"bad port type", map[string]any{"host": "localhost", "port": "80"}},
		{"bad timeout", map[string]any{"host": "localhost", "port": 80, "timeout": "soon"}},
		{"negative timeout", map[string]any{"host": "localhost", "port": 80, "timeout": "-1s"}},
		{"bad retry delay", map[string]any{"host": "localhost", "port": 80, "retries": 2, "retry_delay": 5}},
	}
	reg := DefaultRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := reg.Build("tcp", tt.config); err == nil {
				t.Error("expected config error")
			}
		})
	}
}

func TestTCPFactory_RetryWrapping(t *testing.T) {
	port := freePort(t)

	p, err := DefaultRegistry().Build("tcp", map[string]any{
		"host":        "127.0.0.1",
		"port":        port,
		"timeout":     "100ms",
		"retries":     2,
		"retry_delay": "10ms",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if p() {
		t.Error("expected retried probe against closed port to fail")
	}
}

func TestHTTPFactory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p, err := DefaultRegistry().Build("http", map[string]any{"url": srv.URL})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !p() {
		t.Error("expected http probe to succeed")
	}
}

func TestHTTPFactory_MissingURL(t *testing.T) {
	if _, err := DefaultRegistry().Build("http", map[string]any{}); err == nil {
		t.Error("expected config error for missing url")
	}
}

func TestDNSFactory_WithServer(t *testing.T) {
	server := startDNSServer(t, func(w dns.ResponseWriter, req *dns.Msg) {
		resp := new(dns.Msg)
		resp.SetReply(req)
		rr, err := dns.NewRR(req.Question[0].Name + " 60 IN A 127.0.0.1")
		if err == nil {
			resp.Answer = append(resp.Answer, rr)
		}
		_ = w.WriteMsg(resp)
	})

	p, err := DefaultRegistry().Build("dns", map[string]any{
		"host":   "smoke.test",
		"server": server,
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !p() {
		t.Error("expected dns probe to resolve")
	}
}

func TestDNSFactory_MissingHost(t *testing.T) {
	if _, err := DefaultRegistry().Build("dns", map[string]any{}); err == nil {
		t.Error("expected config error for missing host")
	}
}
