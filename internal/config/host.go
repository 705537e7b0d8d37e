package config

// HostConfig holds per-host request settings.
// This is the side-table consulted by the checker before building a
// request: credentials and headers are injected proactively for matching
// hosts, before the first attempt, rather than as a reaction to a 429.
type HostConfig struct {
	// Token is sent as "Authorization: Bearer <token>" on requests to
	// this host.
	Token string `yaml:"token,omitempty"`

	// Headers are custom HTTP headers added to requests to this host,
	// on top of the global custom headers.
	Headers map[string]string `yaml:"headers,omitempty"`

	// AcceptedStatusCodes override the global accepted set for this
	// host. Empty means the global set applies.
	AcceptedStatusCodes []int `yaml:"acceptedStatusCodes,omitempty"`
}

// HostTable resolves the effective per-host settings for the run.
// It merges the config-file host map with the GitHub token shortcut,
// which maps to github.com and api.github.com.
func (c *Config) HostTable() map[string]HostConfig {
	table := make(map[string]HostConfig, len(c.Hosts)+2)
	for host, hc := range c.Hosts {
		table[host] = hc
	}

	if c.GitHubToken != "" {
		for _, host := range []string{"github.com", "api.github.com"} {
			hc := table[host]
			if hc.Token == "" {
				hc.Token = c.GitHubToken
			}
			table[host] = hc
		}
	}

	return table
}
