package main

import (
	"flag"
	"os"
)

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Addr        string
	ModelFile   string
	ModelID     string
	SnapshotDir string
	LogLevel    string
}

// configResolver defines how to resolve a single configuration value.
type configResolver struct {
	flagName    string
	envVarName  string
	defaultVal  string
	description string
	setter      func(*ServerConfig, string)
}

// loadServerConfig loads server configuration from CLI flags and
// environment variables, flags taking precedence. Adding an option means
// adding one resolver here.
func loadServerConfig() ServerConfig {
	cfg := ServerConfig{}

	resolvers := []configResolver{
		{
			flagName:    "addr",
			envVarName:  "STOSIM_ADDR",
			defaultVal:  ":8080",
			description: "HTTP listen address (e.g. :8080, 0.0.0.0:8080)",
			setter:      func(c *ServerConfig, v string) { c.Addr = v },
		},
		{
			flagName:    "model-file",
			envVarName:  "STOSIM_MODEL_FILE",
			defaultVal:  "",
			description: "optional path to a model config file (JSON or YAML) to load at startup",
			setter:      func(c *ServerConfig, v string) { c.ModelFile = v },
		},
		{
			flagName:    "model-id",
			envVarName:  "STOSIM_MODEL_ID",
			defaultVal:  "default",
			description: "model ID under which the startup model file is registered",
			setter:      func(c *ServerConfig, v string) { c.ModelID = v },
		},
		{
			flagName:    "snapshot-dir",
			envVarName:  "STOSIM_SNAPSHOT_DIR",
			defaultVal:  "./data",
			description: "directory where trajectory snapshots are stored",
			setter:      func(c *ServerConfig, v string) { c.SnapshotDir = v },
		},
		{
			flagName:    "log-level",
			envVarName:  "STOSIM_LOG_LEVEL",
			defaultVal:  "info",
			description: "log level: debug, info, warn, error",
			setter:      func(c *ServerConfig, v string) { c.LogLevel = v },
		},
	}

	flagVars := make(map[string]*string)
	for _, resolver := range resolvers {
		flagVars[resolver.flagName] = flag.String(resolver.flagName, "", resolver.description)
	}
	flag.Parse()

	for _, resolver := range resolvers {
		var value string
		if *flagVars[resolver.flagName] != "" {
			value = *flagVars[resolver.flagName]
		} else if envValue := os.Getenv(resolver.envVarName); envValue != "" {
			value = envValue
		} else {
			value = resolver.defaultVal
		}
		resolver.setter(&cfg, value)
	}

	return cfg
}
