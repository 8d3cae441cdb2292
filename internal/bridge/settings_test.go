package bridge

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSettings_Defaults(t *testing.T) {
	s := NewSettings("/opt/bridge")

	assert.Equal(t, "node", s.NodePath)
	assert.Equal(t, "npm", s.NpmPath)
	assert.Equal(t, 3, s.MaxInstallRetry)
	assert.Equal(t, "composer.json", s.ManifestFile)
	assert.Equal(t, "npm", s.ManifestKey)
	assert.Equal(t, "npm-confirm", s.ConfirmKey)
	assert.Equal(t, filepath.Join("/opt/bridge", "npm-confirm-reminded-choice.txt"), s.ChoiceFile)
}

func TestRetries(t *testing.T) {
	tests := []struct {
		set  int
		want int
	}{
		{3, 3},
		{1, 1},
		{0, 1},
		{-4, 1},
	}
	for _, tt := range tests {
		s := NewSettings(t.TempDir())
		s.SetMaxInstallRetry(tt.set)
		assert.Equal(t, tt.want, s.Retries(), "SetMaxInstallRetry(%d)", tt.set)
	}
}

func TestModulePath_Default(t *testing.T) {
	s := NewSettings("/opt/bridge")
	assert.Equal(t, filepath.Join("/opt/bridge", "node_modules", "pkgA"), s.ModulePath("pkgA"))
}

func TestModulePath_Override(t *testing.T) {
	s := NewSettings("/opt/bridge")
	s.SetModulePath("pkgA", "/custom/a")
	s.SetModulePath("pkgA", "/custom/a2")

	assert.Equal(t, "/custom/a2", s.ModulePath("pkgA"))
	assert.Equal(t, filepath.Join("/opt/bridge", "node_modules", "pkgB"), s.ModulePath("pkgB"))
}

func TestModulePath_EmptyOverrideFallsBack(t *testing.T) {
	s := NewSettings("/opt/bridge")
	s.SetModulePath("pkgA", "")
	assert.Equal(t, filepath.Join("/opt/bridge", "node_modules", "pkgA"), s.ModulePath("pkgA"))
}

func TestModulePaths_ReturnsCopy(t *testing.T) {
	var s Settings
	s.SetModulePath("stylus", "/x")

	paths := s.ModulePaths()
	paths["stylus"] = "/mutated"

	assert.Equal(t, "/x", s.ModulePath("stylus"))
}
