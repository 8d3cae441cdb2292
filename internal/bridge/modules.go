package bridge

import "path/filepath"

// SetModulePath registers an explicit location for module. The last
// registration wins.
func (s *Settings) SetModulePath(module, path string) {
	if s.modulePaths == nil {
		s.modulePaths = make(map[string]string)
	}
	s.modulePaths[module] = path
}

// ModulePaths returns a copy of the registered overrides.
func (s *Settings) ModulePaths() map[string]string {
	out := make(map[string]string, len(s.modulePaths))
	for k, v := range s.modulePaths {
		out[k] = v
	}
	return out
}

// ModulePath resolves module to a directory: the registered override when
// present and non-empty, otherwise NodeModules()/module.
func (s *Settings) ModulePath(module string) string {
	if p := s.modulePaths[module]; p != "" {
		return p
	}
	return filepath.Join(s.NodeModules(), module)
}

// NodeModules returns the node_modules directory under the install prefix.
func (s *Settings) NodeModules() string {
	return filepath.Join(s.PrefixPath, NodeModulesDir)
}
