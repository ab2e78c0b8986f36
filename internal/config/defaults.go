package config

import "time"

// Default values matching the observed fallback configuration of the
// original deployment.
const (
	DefaultFilename  = "menuData.ts"
	DefaultFolder    = "SiteAssets"
	DefaultConstName = "menuData"
	DefaultTTL       = 30 * time.Minute
	DefaultRefresh   = 15 * time.Minute
	DefaultAddr      = ":8080"
	DefaultSubject   = "megamenu.invalidate"
	DefaultBranch    = "main"
)

// ApplyDefaults fills in zero-valued fields. Called by Load; exported so
// tests and embedded callers constructing Config by hand get the same
// behavior.
func (c *Config) ApplyDefaults() {
	if len(c.Sources) == 0 {
		c.Sources = []SourceType{SourceFile, SourceMeta}
	}
	if c.Store.Filename == "" {
		c.Store.Filename = DefaultFilename
	}
	if c.Store.Folder == "" {
		c.Store.Folder = DefaultFolder
	}
	if c.Store.ConstName == "" {
		c.Store.ConstName = DefaultConstName
	}
	if c.Store.Git.Branch == "" {
		c.Store.Git.Branch = DefaultBranch
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheMemory
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = DefaultTTL.String()
	}
	if c.Retry.Initial == "" {
		c.Retry.Initial = "1s"
	}
	if c.Retry.Max == "" {
		c.Retry.Max = "30s"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Daemon.RefreshInterval == "" {
		c.Daemon.RefreshInterval = DefaultRefresh.String()
	}
	if c.Daemon.NATS.Subject == "" {
		c.Daemon.NATS.Subject = DefaultSubject
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}
