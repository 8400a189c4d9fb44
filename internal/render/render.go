// Package render emits a DevServerConfig in the file formats the
// live-reload tool reads.
package render

import (
	"bytes"
	"encoding/json"
	"sort"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/auctions-dev/bsconf/internal/config"
	"github.com/auctions-dev/bsconf/internal/errors"
)

// Format is an output format name.
type Format string

const (
	FormatJS   Format = "js"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DefaultFormat is the format the live-reload tool loads natively.
const DefaultFormat = FormatJS

type renderer func(cfg *config.DevServerConfig) ([]byte, error)

var renderers = map[Format]renderer{
	FormatJS:   renderJS,
	FormatJSON: renderJSON,
	FormatYAML: renderYAML,
}

var fileNames = map[Format]string{
	FormatJS:   "bs-config.js",
	FormatJSON: "bs-config.json",
	FormatYAML: "bs-config.yaml",
}

// Formats returns the supported format names in sorted order.
func Formats() []string {
	names := make([]string, 0, len(renderers))
	for f := range renderers {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// Parse converts a format name, accepting "yml" as an alias for yaml.
func Parse(name string) (Format, error) {
	if name == "yml" {
		return FormatYAML, nil
	}
	f := Format(name)
	if _, ok := renderers[f]; !ok {
		return "", errors.New("E200").
			WithDetailf("%q is not a supported format", name).
			WithSuggestion("Use one of: js, json, yaml")
	}
	return f, nil
}

// FileName returns the conventional file name for a format.
func FileName(f Format) string {
	return fileNames[f]
}

// Render encodes cfg in the given format.
func Render(cfg *config.DevServerConfig, f Format) ([]byte, error) {
	fn, ok := renderers[f]
	if !ok {
		return nil, errors.New("E200").WithDetailf("%q is not a supported format", f)
	}
	return fn(cfg)
}

func renderJSON(cfg *config.DevServerConfig) ([]byte, error) {
	return cfg.MarshalIndent()
}

func renderYAML(cfg *config.DevServerConfig) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var jsTemplate = template.Must(template.New("bs-config.js").Funcs(template.FuncMap{
	"js": jsString,
}).Parse(`module.exports = {
    proxy: {{ js .Proxy }},
    files: [
{{- range .Files }}
        {{ js . }},
{{- end }}
    ],
    watchOptions: {
        ignored: {{ js .Ignored }},
    },
};
`))

// jsString quotes s as a JavaScript string literal. JSON string syntax is
// a subset of JavaScript's.
func jsString(s string) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func renderJS(cfg *config.DevServerConfig) ([]byte, error) {
	data := struct {
		Proxy   string
		Files   []string
		Ignored string
	}{
		Proxy:   cfg.Proxy(),
		Files:   cfg.Files(),
		Ignored: cfg.Ignored(),
	}

	var buf bytes.Buffer
	if err := jsTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
