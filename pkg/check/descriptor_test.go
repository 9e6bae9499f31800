package check

import (
	"testing"
)

func TestNewService_DefaultsToRequired(t *testing.T) {
	svc := NewService("External API", "REST API", "http://example/health", func() bool { return true })

	if !svc.Required {
		t.Error("expected new services to default to required")
	}
	if svc.Name != "External API" || svc.Kind != "REST API" || svc.URL != "http://example/health" {
		t.Errorf("unexpected fields: %+v", svc)
	}
	if svc.Probe == nil {
		t.Error("expected probe to be set")
	}
}

func TestContainer_ZeroValue(t *testing.T) {
	var c Container
	if c.Running || c.Healthy {
		t.Error("zero Container should be neither running nor healthy")
	}
}
