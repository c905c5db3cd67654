package config

import "testing"

func TestGetEnvAsBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback bool
		want     bool
	}{
		{name: "true", value: "true", fallback: false, want: true},
		{name: "one", value: "1", fallback: false, want: true},
		{name: "false", value: "false", fallback: true, want: false},
		{name: "garbage uses fallback", value: "maybe", fallback: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL_FLAG", tt.value)
			if got := getEnvAsBool("TEST_BOOL_FLAG", tt.fallback); got != tt.want {
				t.Errorf("getEnvAsBool(%q, %v) = %v, want %v", tt.value, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestLoadOtelEnabled(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "true")
	cfg := Load()
	if !cfg.App.OtelEnabled {
		t.Error("App.OtelEnabled = false, want true when OTEL_ENABLED=true")
	}

	t.Setenv("OTEL_ENABLED", "")
	cfg = Load()
	if cfg.App.OtelEnabled {
		t.Error("App.OtelEnabled = true, want false when OTEL_ENABLED is unset")
	}
}
