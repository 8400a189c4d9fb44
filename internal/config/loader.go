package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/auctions-dev/bsconf/internal/errors"
)

// FileNames are the config file names looked up in a project directory,
// in order of preference.
var FileNames = []string{"bs-config.json", "bs-config.yaml", "bs-config.yml"}

// Environment variables that override file and default values.
const (
	EnvPrefix      = "BSCONF_"
	EnvProxy       = EnvPrefix + "PROXY"
	EnvFiles       = EnvPrefix + "FILES"
	EnvWatchIgnore = EnvPrefix + "WATCH_IGNORED"
)

// envKeys maps environment variables to koanf paths.
var envKeys = map[string]string{
	EnvProxy:       KeyProxy,
	EnvFiles:       KeyFiles,
	EnvWatchIgnore: KeyWatchOptions + "." + KeyIgnored,
}

// Source identifies the layer that supplied a configuration value.
type Source string

const (
	SourceDefault Source = "default"
	SourceFile    Source = "file"
	SourceEnv     Source = "env"
)

// layer is a decoded configuration layer. It implements koanf.Provider.
type layer map[string]any

// ReadBytes is not supported; layers are already decoded.
func (l layer) ReadBytes() ([]byte, error) {
	return nil, stderrors.New("config layer does not support ReadBytes")
}

// Read returns the layer's values.
func (l layer) Read() (map[string]any, error) {
	return l, nil
}

// Loader merges defaults, an optional config file and environment
// overrides into a DevServerConfig.
type Loader struct {
	koanf   *koanf.Koanf
	sources map[string]Source
	envErr  error
}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{
		koanf:   koanf.New("."),
		sources: make(map[string]Source),
	}
}

// Load builds the record. When path is empty only defaults and the
// environment are used.
func (l *Loader) Load(path string) (*DevServerConfig, error) {
	l.koanf = koanf.New(".")
	l.sources = make(map[string]Source)
	l.envErr = nil

	if err := l.koanf.Load(structs.Provider(Default().document(), "koanf"), nil); err != nil {
		return nil, errors.New("E101").Wrap(fmt.Errorf("failed to load defaults: %w", err))
	}
	l.track(SourceDefault, l.koanf.Keys())

	if path != "" {
		fileLayer, err := readFile(path)
		if err != nil {
			return nil, err
		}
		if err := l.koanf.Load(fileLayer, nil); err != nil {
			return nil, errors.New("E101").Wrap(err)
		}
		l.track(SourceFile, flattenKeys(fileLayer, ""))
	}

	if err := l.loadEnvironment(); err != nil {
		return nil, err
	}

	var doc document
	if err := l.koanf.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := New(doc.Proxy, doc.Files, doc.WatchOptions)
	if path != "" {
		cfg = cfg.withPath(path)
	}
	return cfg, nil
}

// loadEnvironment applies BSCONF_* overrides.
func (l *Loader) loadEnvironment() error {
	var applied []string
	provider := env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			path, ok := envKeys[key]
			if !ok {
				path, ok = envKeys[EnvPrefix+key]
			}
			if !ok || value == "" {
				return "", nil
			}
			applied = append(applied, path)
			if path != KeyFiles {
				return path, value
			}
			files := splitList(value)
			if len(files) == 0 {
				l.envErr = errors.New("E105").
					WithDetailf("%s=%q contains no patterns", EnvFiles, value).
					WithSuggestion("Separate patterns with commas, e.g. ./a/*.html,./b/*.css")
				return "", nil
			}
			return path, files
		},
	})

	if err := l.koanf.Load(provider, nil); err != nil {
		return errors.New("E105").Wrap(err)
	}
	if l.envErr != nil {
		return l.envErr
	}
	l.track(SourceEnv, applied)
	return nil
}

func (l *Loader) track(source Source, keys []string) {
	for _, key := range keys {
		l.sources[key] = source
	}
}

// Sources reports which layer supplied each key of the last Load, keyed by
// dotted path (e.g. "watchOptions.ignored").
func (l *Loader) Sources() map[string]Source {
	out := make(map[string]Source, len(l.sources))
	for k, v := range l.sources {
		out[k] = v
	}
	return out
}

// SourceKeys returns the tracked keys in sorted order.
func (l *Loader) SourceKeys() []string {
	keys := make([]string, 0, len(l.sources))
	for k := range l.sources {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// readFile reads and decodes a config file by extension.
func readFile(path string) (layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No config file at " + path).
				WithSuggestion("Run 'bsconf init' to create one")
		}
		return nil, errors.New("E101").Wrap(err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return parseJSON(path, data)
	case ".yaml", ".yml":
		return parseYAML(path, data)
	default:
		return nil, errors.New("E104").WithDetailf("Cannot read %s: configuration files must end in .json, .yaml or .yml", path)
	}
}

// flattenKeys returns the dotted leaf paths of a nested map.
func flattenKeys(m map[string]any, prefix string) []string {
	var keys []string
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			keys = append(keys, flattenKeys(nested, prefix+k+".")...)
			continue
		}
		keys = append(keys, prefix+k)
	}
	sort.Strings(keys)
	return keys
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Load reads the configuration for the project in dir. A missing config
// file is not an error: defaults and environment overrides apply.
func Load(dir string) (*DevServerConfig, error) {
	path, _ := FindFile(dir)
	return NewLoader().Load(path)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*DevServerConfig, error) {
	return NewLoader().Load(path)
}

// FindFile returns the config file in dir, if one exists.
func FindFile(dir string) (string, bool) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, ok := FindFile(dir)
	return ok
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a config file, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E202").
				WithDetail("No bs-config file found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'bsconf init' to create one")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the project containing the
// working directory, falling back to defaults when no config file exists.
func LoadFromWorkingDir() (*DevServerConfig, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		if errors.HasCode(err, "E202") {
			return Load(wd)
		}
		return nil, err
	}

	return Load(root)
}

// SaveTo writes the record to path as JSON or YAML, chosen by extension.
func (c *DevServerConfig) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = c.MarshalIndent()
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		return errors.New("E104").WithDetailf("Cannot write %s: configuration files must end in .json, .yaml or .yml", path)
	}
	if err != nil {
		return errors.New("E103").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E103").Wrap(err)
	}
	return nil
}
