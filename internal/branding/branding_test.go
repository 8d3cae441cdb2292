package branding

import "testing"

func TestEmbeddedValues(t *testing.T) {
	if got := CLIName(); got != "nodebridge" {
		t.Errorf("CLIName() = %q, want nodebridge", got)
	}
	if got := HomeDir(); got != ".nodebridge" {
		t.Errorf("HomeDir() = %q, want .nodebridge", got)
	}
}

func TestEnvVar(t *testing.T) {
	tests := []struct {
		suffix string
		want   string
	}{
		{"answer", "NODEBRIDGE_ANSWER"},
		{"PREFIX", "NODEBRIDGE_PREFIX"},
		{"max_install_retry", "NODEBRIDGE_MAX_INSTALL_RETRY"},
	}
	for _, tt := range tests {
		if got := EnvVar(tt.suffix); got != tt.want {
			t.Errorf("EnvVar(%q) = %q, want %q", tt.suffix, got, tt.want)
		}
	}
}
