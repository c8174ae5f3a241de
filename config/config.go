// Package config resolves the runner configuration from command-line
// flags, environment variables and an optional JSON file, in that priority
// order (env > flag > file > default).
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mutualEvg/kwollect-input/internal/retry"
)

// Config holds the resolved runner configuration.
type Config struct {
	Address       string   // status server listen address
	APIBase       string   // metrics API root
	Site          string   // site to query
	Nodes         []string // node hostnames to query
	Metrics       []string // metric names to query and register
	UintMetrics   []string // metric names registered as unsigned integers
	Login         string   // HTTP Basic login
	Password      string   // HTTP Basic password
	FetchTimeout  time.Duration
	TriggerWait   time.Duration // bounded wait for trigger acknowledgement
	CycleInterval time.Duration // standalone cycle-event period
	SkipProbe     bool          // skip the startup connectivity probe
	RetryConfig   retry.RetryConfig
}

// JSONConfig represents the JSON configuration file structure.
// List-valued settings use the same comma-separated form as the
// environment variables.
type JSONConfig struct {
	Address  string `json:"address"`
	APIBase  string `json:"api_base"`
	Site     string `json:"site"`
	Nodes    string `json:"nodes"`
	Metrics  string `json:"metrics"`
	Login    string `json:"login"`
	Password string `json:"password"`
}

// configFlags holds all command-line flag values
type configFlags struct {
	address        *string
	apiBase        *string
	site           *string
	nodes          *string
	metrics        *string
	uintMetrics    *string
	login          *string
	password       *string
	fetchTimeout   *int
	triggerWait    *int
	cycleInterval  *int
	skipProbe      *bool
	configPath     *string
	configPathLong *string
}

// Credentials and targets default to the development placeholders of the
// original deployment; production runs must override them.
const (
	defaultAddress       = "localhost:8080"
	defaultAPIBase       = "https://api.grid5000.fr/stable"
	defaultSite          = "lyon"
	defaultNodes         = "taurus-7"
	defaultMetrics       = "wattmetre_power_watt"
	defaultLogin         = "login"
	defaultPassword      = "password"
	defaultFetchSeconds  = 10
	defaultTriggerWaitMS = 1000
	defaultCycleSeconds  = 10
)

// Load loads configuration from flags, environment variables, and JSON file
func Load() *Config {
	flags := parseFlags()
	jsonConfig := loadJSONConfigFile(resolveConfigPath(flags))

	cfg := &Config{
		Address:       resolveAddress(flags, jsonConfig),
		APIBase:       resolveAPIBase(flags, jsonConfig),
		Site:          resolveSite(flags, jsonConfig),
		Nodes:         resolveNodes(flags, jsonConfig),
		Metrics:       resolveMetrics(flags, jsonConfig),
		UintMetrics:   splitList(resolveString("UINT_METRICS", *flags.uintMetrics, "")),
		Login:         resolveLogin(flags, jsonConfig),
		Password:      resolvePassword(flags, jsonConfig),
		FetchTimeout:  time.Duration(resolveInt("FETCH_TIMEOUT", *flags.fetchTimeout, defaultFetchSeconds)) * time.Second,
		TriggerWait:   time.Duration(resolveInt("TRIGGER_WAIT_MS", *flags.triggerWait, defaultTriggerWaitMS)) * time.Millisecond,
		CycleInterval: time.Duration(resolveInt("CYCLE_INTERVAL", *flags.cycleInterval, defaultCycleSeconds)) * time.Second,
		SkipProbe:     resolveBool("SKIP_PROBE", *flags.skipProbe, false),
		RetryConfig:   resolveRetryConfig(),
	}

	if cfg.Login == defaultLogin || cfg.Password == defaultPassword {
		log.Printf("Warning: using placeholder API credentials, override LOGIN and PASSWORD for real deployments")
	}

	return cfg
}

// parseFlags parses all command-line flags
func parseFlags() *configFlags {
	flags := &configFlags{
		address:        flag.String("a", "", "Status server listen address"),
		apiBase:        flag.String("api-base", "", "Metrics API base URL"),
		site:           flag.String("s", "", "Site to query"),
		nodes:          flag.String("n", "", "Comma-separated node hostnames"),
		metrics:        flag.String("m", "", "Comma-separated metric names"),
		uintMetrics:    flag.String("uint-metrics", "", "Comma-separated metric names registered as unsigned integers"),
		login:          flag.String("l", "", "HTTP Basic login"),
		password:       flag.String("p", "", "HTTP Basic password"),
		fetchTimeout:   flag.Int("t", 0, "Fetch timeout in seconds"),
		triggerWait:    flag.Int("trigger-wait", 0, "Trigger acknowledgement wait in milliseconds"),
		cycleInterval:  flag.Int("i", 0, "Cycle event interval in seconds"),
		skipProbe:      flag.Bool("skip-probe", false, "Skip the startup connectivity probe"),
		configPath:     flag.String("c", "", "Path to JSON configuration file"),
		configPathLong: flag.String("config", "", "Path to JSON configuration file"),
	}
	flag.Parse()
	return flags
}

// resolveConfigPath resolves the path to the JSON config file
func resolveConfigPath(flags *configFlags) string {
	if *flags.configPath != "" {
		return *flags.configPath
	}
	if *flags.configPathLong != "" {
		return *flags.configPathLong
	}
	return os.Getenv("CONFIG")
}

// loadJSONConfigFile loads the JSON config file if path is provided
func loadJSONConfigFile(path string) *JSONConfig {
	if path == "" {
		return nil
	}

	config, err := loadJSONConfig(path)
	if err != nil {
		log.Printf("Warning: Failed to load config file %s: %v", path, err)
		return nil
	}

	log.Printf("Loaded configuration from %s", path)
	return config
}

// loadJSONConfig reads and parses the JSON config file
func loadJSONConfig(path string) (*JSONConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config JSONConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// resolveAddress resolves the status server listen address
func resolveAddress(flags *configFlags, jsonConfig *JSONConfig) string {
	return resolveStringWithJSON("ADDRESS", *flags.address, func() string {
		if jsonConfig != nil {
			return jsonConfig.Address
		}
		return ""
	}, defaultAddress)
}

// resolveAPIBase resolves the metrics API base URL
func resolveAPIBase(flags *configFlags, jsonConfig *JSONConfig) string {
	return resolveStringWithJSON("API_BASE", *flags.apiBase, func() string {
		if jsonConfig != nil {
			return jsonConfig.APIBase
		}
		return ""
	}, defaultAPIBase)
}

// resolveSite resolves the site to query
func resolveSite(flags *configFlags, jsonConfig *JSONConfig) string {
	return resolveStringWithJSON("SITE", *flags.site, func() string {
		if jsonConfig != nil {
			return jsonConfig.Site
		}
		return ""
	}, defaultSite)
}

// resolveNodes resolves the node hostnames to query
func resolveNodes(flags *configFlags, jsonConfig *JSONConfig) []string {
	return splitList(resolveStringWithJSON("NODES", *flags.nodes, func() string {
		if jsonConfig != nil {
			return jsonConfig.Nodes
		}
		return ""
	}, defaultNodes))
}

// resolveMetrics resolves the metric names to query
func resolveMetrics(flags *configFlags, jsonConfig *JSONConfig) []string {
	return splitList(resolveStringWithJSON("METRICS", *flags.metrics, func() string {
		if jsonConfig != nil {
			return jsonConfig.Metrics
		}
		return ""
	}, defaultMetrics))
}

// resolveLogin resolves the HTTP Basic login
func resolveLogin(flags *configFlags, jsonConfig *JSONConfig) string {
	return resolveStringWithJSON("LOGIN", *flags.login, func() string {
		if jsonConfig != nil {
			return jsonConfig.Login
		}
		return ""
	}, defaultLogin)
}

// resolvePassword resolves the HTTP Basic password
func resolvePassword(flags *configFlags, jsonConfig *JSONConfig) string {
	return resolveStringWithJSON("PASSWORD", *flags.password, func() string {
		if jsonConfig != nil {
			return jsonConfig.Password
		}
		return ""
	}, defaultPassword)
}

// resolveRetryConfig resolves the host-side cycle retry policy. The
// default is no retry: one fetch attempt per trigger.
func resolveRetryConfig() retry.RetryConfig {
	if os.Getenv("DISABLE_RETRY") == "true" {
		return retry.NoRetryConfig()
	}
	if os.Getenv("ENABLE_FULL_RETRY") == "true" {
		return retry.DefaultConfig()
	}
	if os.Getenv("ENABLE_RETRY") == "true" {
		return retry.FastConfig()
	}
	return retry.NoRetryConfig()
}

// splitList splits a comma-separated list, trimming whitespace and
// dropping empty items.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Utility functions for resolving values with priority

// resolveString resolves value with priority: env > flag > default
func resolveString(envVar, flagVal, def string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	if flagVal != "" {
		return flagVal
	}
	return def
}

// resolveStringWithJSON resolves value with priority: env > flag > json > default
func resolveStringWithJSON(envVar, flagVal string, jsonGetter func() string, def string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	if flagVal != "" {
		return flagVal
	}
	if jsonVal := jsonGetter(); jsonVal != "" {
		return jsonVal
	}
	return def
}

// resolveInt resolves integer value with priority: env > flag > default
func resolveInt(envVar string, flagVal, def int) int {
	if val := os.Getenv(envVar); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("Invalid %s: %v", envVar, err)
		}
		return i
	}
	if flagVal != 0 {
		return flagVal
	}
	return def
}

// resolveBool resolves boolean value with priority: env > flag > default
func resolveBool(envVar string, flagVal, def bool) bool {
	if val := os.Getenv(envVar); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			log.Fatalf("Invalid %s: %v", envVar, err)
		}
		return b
	}
	if flagVal {
		return flagVal
	}
	return def
}
