package config

import "slices"

const (
	// DefaultProxy is the upstream address requests are forwarded to.
	DefaultProxy = "127.0.0.1:8000"

	// TemplateGlob matches the auction templates.
	TemplateGlob = "./auctions/templates/auctions/*.html"

	// StylesheetGlob matches the auction stylesheets.
	StylesheetGlob = "./auctions/static/auctions/*.css"

	// DependencyIgnore excludes installed dependencies from watch triggers.
	DependencyIgnore = "node_modules/**"
)

// Wire keys of the configuration record.
const (
	KeyProxy        = "proxy"
	KeyFiles        = "files"
	KeyWatchOptions = "watchOptions"
	KeyIgnored      = "ignored"
)

// WatchOptions tunes the consumer's file watcher.
type WatchOptions struct {
	// Ignored is a glob pattern excluded from watch triggers.
	Ignored string `json:"ignored" yaml:"ignored" koanf:"ignored"`
}

// DevServerConfig is the live-reload configuration record.
// It has no setters: once constructed it is never modified.
type DevServerConfig struct {
	proxy        string
	files        []string
	watchOptions WatchOptions

	// path is the file the record was loaded from, if any.
	path string
}

// Default returns the built-in configuration record.
// Each call returns a new, equal value.
func Default() *DevServerConfig {
	return New(
		DefaultProxy,
		[]string{TemplateGlob, StylesheetGlob},
		WatchOptions{Ignored: DependencyIgnore},
	)
}

// New creates a configuration record. The files slice is copied.
func New(proxy string, files []string, opts WatchOptions) *DevServerConfig {
	return &DevServerConfig{
		proxy:        proxy,
		files:        cloneFiles(files),
		watchOptions: opts,
	}
}

// Proxy returns the upstream host:port address.
func (c *DevServerConfig) Proxy() string {
	return c.proxy
}

// Files returns a copy of the watched glob patterns, in order.
func (c *DevServerConfig) Files() []string {
	return cloneFiles(c.files)
}

// WatchOptions returns the watcher options.
func (c *DevServerConfig) WatchOptions() WatchOptions {
	return c.watchOptions
}

// Ignored returns the glob pattern excluded from watch triggers.
func (c *DevServerConfig) Ignored() string {
	return c.watchOptions.Ignored
}

// Path returns the file the record was loaded from, or "" for
// records that did not come from a file.
func (c *DevServerConfig) Path() string {
	return c.path
}

// Equal reports whether two records hold the same values.
// The load path is not compared.
func (c *DevServerConfig) Equal(other *DevServerConfig) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.proxy == other.proxy &&
		slices.Equal(c.files, other.files) &&
		c.watchOptions == other.watchOptions
}

// Keys returns the top-level wire keys in serialization order.
func Keys() []string {
	return []string{KeyProxy, KeyFiles, KeyWatchOptions}
}

// withPath returns a copy of the record tagged with its origin file.
func (c *DevServerConfig) withPath(path string) *DevServerConfig {
	out := New(c.proxy, c.files, c.watchOptions)
	out.path = path
	return out
}

// cloneFiles copies a pattern list, mapping nil to an empty list.
func cloneFiles(files []string) []string {
	out := make([]string, len(files))
	copy(out, files)
	return out
}
