package config

import "maps"

// SiteConfig holds per-site overrides for a single target. This allows
// tuning the crawl for sites that need deeper exploration or extra
// request headers without changing the global flags.
type SiteConfig struct {
	// Depth overrides the global crawl depth for this site.
	// If zero, the global CrawlDepth is used.
	Depth int `yaml:"depth,omitempty"`

	// Concurrency overrides the global worker count for this site.
	// If zero, the global Concurrency is used.
	Concurrency int `yaml:"concurrency,omitempty"`

	// Headers are extra HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// File represents the structure of the .nomixedcontent configuration file.
type File struct {
	// Sites maps a target's network location (host[:port]) to its
	// site-specific configuration.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults is applied to all sites unless overridden per site.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a network location,
// merging the site-specific entry over the defaults.
func (cf *File) GetSiteConfig(netloc string) SiteConfig {
	result := cf.Defaults
	// The struct copy above still aliases the defaults' header map; merging
	// through it would leak one site's headers into every later lookup.
	result.Headers = maps.Clone(cf.Defaults.Headers)

	if site, ok := cf.Sites[netloc]; ok {
		if site.Depth != 0 {
			result.Depth = site.Depth
		}
		if site.Concurrency != 0 {
			result.Concurrency = site.Concurrency
		}
		if len(site.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			for k, v := range site.Headers {
				result.Headers[k] = v
			}
		}
	}

	return result
}
