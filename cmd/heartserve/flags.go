package main

import (
	"flag"
	"fmt"
	"os"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigPath  string
	Addr        string
	LogLevel    string
	LogFormat   string
	Validate    bool
	ShowVersion bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	flag.StringVar(&cfg.ConfigPath, "config",
		getEnv("HEARTSERVE_CONFIG", ""),
		"Path to configuration file, empty for defaults (env: HEARTSERVE_CONFIG)")

	flag.StringVar(&cfg.Addr, "addr",
		getEnv("HEARTSERVE_ADDR", ""),
		"Listen address override, e.g. :8000 (env: HEARTSERVE_ADDR)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("HEARTSERVE_LOG_LEVEL", ""),
		"Log level: debug, info, warn, error (env: HEARTSERVE_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("HEARTSERVE_LOG_FORMAT", ""),
		"Log format: json, text (env: HEARTSERVE_LOG_FORMAT)")

	flag.BoolVar(&cfg.Validate, "validate", false, "Validate configuration and exit")
	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")

	flag.Parse()

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func printVersion() {
	fmt.Printf("heartserve %s (built %s)\n", Version, BuildTime)
}
