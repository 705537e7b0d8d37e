package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".linkscout"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .linkscout configuration file.
// Every field is optional; zero values leave the corresponding Config
// field untouched so that flags and defaults win over an absent key.
type File struct {
	MaxConcurrency      int               `yaml:"maxConcurrency,omitempty"`
	Timeout             time.Duration     `yaml:"timeout,omitempty"`
	RetryCount          int               `yaml:"retryCount,omitempty"`
	BackoffBase         time.Duration     `yaml:"backoffBase,omitempty"`
	MaxRedirects        int               `yaml:"maxRedirects,omitempty"`
	AcceptedStatusCodes []int             `yaml:"acceptedStatusCodes,omitempty"`
	RetryStatusCodes    []int             `yaml:"retryStatusCodes,omitempty"`
	ExcludePatterns     []string          `yaml:"excludePatterns,omitempty"`
	IncludePatterns     []string          `yaml:"includePatterns,omitempty"`
	SkipPrivate         *bool             `yaml:"skipPrivate,omitempty"`
	UserAgent           string            `yaml:"userAgent,omitempty"`
	CustomHeaders       map[string]string `yaml:"customHeaders,omitempty"`
	GitHubToken         string            `yaml:"githubToken,omitempty"` //nolint:tagliatelle // GitHub is a product name
	InsecureTLS         *bool             `yaml:"insecureTLS,omitempty"` //nolint:tagliatelle // TLS is an initialism
	CheckAnchors        *bool             `yaml:"checkAnchors,omitempty"`
	CountSkipped        *bool             `yaml:"countSkipped,omitempty"`

	// Hosts maps host names to per-host request settings.
	Hosts map[string]HostConfig `yaml:"hosts,omitempty"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers
// should handle this error based on whether the config file path was
// explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// ApplyTo overlays the file's settings onto a Config.
// Only keys present in the file override the Config; flag-provided and
// default values survive otherwise. Boolean keys use pointers so that an
// explicit "false" in the file is distinguishable from an absent key.
func (cf *File) ApplyTo(cfg *Config) {
	if cf.MaxConcurrency > 0 {
		cfg.MaxConcurrency = cf.MaxConcurrency
	}
	if cf.Timeout > 0 {
		cfg.Timeout = cf.Timeout
	}
	if cf.RetryCount > 0 {
		cfg.RetryCount = cf.RetryCount
	}
	if cf.BackoffBase > 0 {
		cfg.BackoffBase = cf.BackoffBase
	}
	if cf.MaxRedirects > 0 {
		cfg.MaxRedirects = cf.MaxRedirects
	}
	if len(cf.AcceptedStatusCodes) > 0 {
		cfg.AcceptedStatusCodes = cf.AcceptedStatusCodes
	}
	if len(cf.RetryStatusCodes) > 0 {
		cfg.RetryStatusCodes = cf.RetryStatusCodes
	}
	if len(cf.ExcludePatterns) > 0 {
		cfg.ExcludePatterns = append(cfg.ExcludePatterns, cf.ExcludePatterns...)
	}
	if len(cf.IncludePatterns) > 0 {
		cfg.IncludePatterns = append(cfg.IncludePatterns, cf.IncludePatterns...)
	}
	if cf.SkipPrivate != nil {
		cfg.SkipPrivate = *cf.SkipPrivate
	}
	if cf.UserAgent != "" {
		cfg.UserAgent = cf.UserAgent
	}
	if len(cf.CustomHeaders) > 0 {
		if cfg.CustomHeaders == nil {
			cfg.CustomHeaders = make(map[string]string, len(cf.CustomHeaders))
		}
		for k, v := range cf.CustomHeaders {
			cfg.CustomHeaders[k] = v
		}
	}
	if cf.GitHubToken != "" {
		cfg.GitHubToken = cf.GitHubToken
	}
	if cf.InsecureTLS != nil {
		cfg.InsecureTLS = *cf.InsecureTLS
	}
	if cf.CheckAnchors != nil {
		cfg.CheckAnchors = *cf.CheckAnchors
	}
	if cf.CountSkipped != nil {
		cfg.CountSkipped = *cf.CountSkipped
	}
	if len(cf.Hosts) > 0 {
		if cfg.Hosts == nil {
			cfg.Hosts = make(map[string]HostConfig, len(cf.Hosts))
		}
		for host, hc := range cf.Hosts {
			cfg.Hosts[host] = hc
		}
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .linkscout in the current directory
// 3. Look for config.yaml in the XDG config directory
// 4. Look for .linkscout in the user's home directory
//
// Returns the path to the configuration file if found, or empty string
// if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check XDG config directory
	xdgConfig := filepath.Join(XDGConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	// Check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
