// Package config handles configuration management for forge.
// It loads the project file (.forge.yml, .forge.yaml or .forge.toml) on
// top of embedded defaults, applies FORGE_* environment overrides, and
// validates the result before any plugin is touched.
package config
