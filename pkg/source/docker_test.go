package source

import (
	"testing"

	"github.com/docker/docker/api/types"
)

func TestMatchesName(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  string
		match bool
	}{
		{"slash prefix", []string{"/demo-redis"}, "demo-redis", true},
		{"multiple names", []string{"/alias", "/demo-redis"}, "demo-redis", true},
		{"no match", []string{"/demo-kafka"}, "demo-redis", false},
		{"empty", nil, "demo-redis", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesName(tt.names, tt.want); got != tt.match {
				t.Errorf("matchesName(%v, %q) = %v, want %v", tt.names, tt.want, got, tt.match)
			}
		})
	}
}

func TestMappedPort(t *testing.T) {
	ports := []types.Port{
		{PrivatePort: 6379, PublicPort: 32768},
		{PrivatePort: 9092, PublicPort: 32769},
		{PrivatePort: 7000},
	}

	tests := []struct {
		name    string
		private int
		want    int
	}{
		{"exact match", 6379, 32768},
		{"second entry", 9092, 32769},
		{"unpublished port", 7000, 0},
		{"unknown private port", 5432, 0},
		{"unspecified takes first public", 0, 32768},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mappedPort(ports, tt.private); got != tt.want {
				t.Errorf("mappedPort(%d) = %d, want %d", tt.private, got, tt.want)
			}
		})
	}
}

func TestMappedPort_Empty(t *testing.T) {
	if got := mappedPort(nil, 6379); got != 0 {
		t.Errorf("expected 0 for no ports, got %d", got)
	}
}
