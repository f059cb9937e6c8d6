// Package config provides centralized configuration management for the
// agentcluster runtime. It loads a single YAML file at startup, applies
// defaults for every subsystem, and resolves secrets such as API keys
// through environment variable indirection so credentials never live in
// the file itself.
package config
