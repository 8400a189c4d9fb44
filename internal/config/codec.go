package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/auctions-dev/bsconf/internal/errors"
)

// document is the wire shape of the record.
type document struct {
	Proxy        string       `json:"proxy" yaml:"proxy" koanf:"proxy"`
	Files        []string     `json:"files" yaml:"files" koanf:"files"`
	WatchOptions WatchOptions `json:"watchOptions" yaml:"watchOptions" koanf:"watchOptions"`
}

func (c *DevServerConfig) document() document {
	return document{
		Proxy:        c.proxy,
		Files:        cloneFiles(c.files),
		WatchOptions: c.watchOptions,
	}
}

// fromLayer builds a record from a decoded layer, leaving absent keys zero.
func fromLayer(l layer) *DevServerConfig {
	var doc document
	if v, ok := l[KeyProxy].(string); ok {
		doc.Proxy = v
	}
	if v, ok := l[KeyFiles].([]string); ok {
		doc.Files = v
	}
	if opts, ok := l[KeyWatchOptions].(map[string]any); ok {
		if v, ok := opts[KeyIgnored].(string); ok {
			doc.WatchOptions.Ignored = v
		}
	}
	return New(doc.Proxy, doc.Files, doc.WatchOptions)
}

// MarshalJSON encodes the record with exactly the keys proxy, files and
// watchOptions.
func (c *DevServerConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.document())
}

// MarshalIndent encodes the record as indented JSON ending in a newline.
func (c *DevServerConfig) MarshalIndent() ([]byte, error) {
	data, err := json.MarshalIndent(c.document(), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// UnmarshalJSON decodes a record. Unknown keys are rejected.
func (c *DevServerConfig) UnmarshalJSON(data []byte) error {
	l, err := parseJSON("", data)
	if err != nil {
		return err
	}
	*c = *fromLayer(l)
	return nil
}

// MarshalYAML encodes the record with the same keys and order as JSON.
func (c *DevServerConfig) MarshalYAML() (any, error) {
	return c.document(), nil
}

// UnmarshalYAML decodes a record. Unknown keys are rejected.
func (c *DevServerConfig) UnmarshalYAML(node *yaml.Node) error {
	l, err := parseYAMLNode("", node)
	if err != nil {
		return err
	}
	*c = *fromLayer(l)
	return nil
}

// parseJSON decodes a JSON config document into a layer holding only the
// keys present in the input. Errors carry the file position when path is set.
func parseJSON(path string, data []byte) (layer, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectJSONObject(dec); err != nil {
		return nil, jsonError(path, data, dec, err)
	}

	out := layer{}
	for dec.More() {
		key, offset, err := readJSONKey(dec)
		if err != nil {
			return nil, jsonError(path, data, dec, err)
		}

		switch key {
		case KeyProxy:
			var proxy string
			if err := dec.Decode(&proxy); err != nil {
				return nil, jsonKeyError(path, data, offset, key, "a string", err)
			}
			out[KeyProxy] = proxy
		case KeyFiles:
			var files []string
			if err := dec.Decode(&files); err != nil {
				return nil, jsonKeyError(path, data, offset, key, "a list of strings", err)
			}
			out[KeyFiles] = cloneFiles(files)
		case KeyWatchOptions:
			opts, err := parseJSONWatchOptions(path, data, dec, offset)
			if err != nil {
				return nil, err
			}
			out[KeyWatchOptions] = opts
		default:
			return nil, unknownKey(path, data, offset, key)
		}
	}

	if _, err := dec.Token(); err != nil {
		return nil, jsonError(path, data, dec, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		e := errors.New("E101").WithDetail("Unexpected data after the configuration object")
		return nil, locateOffset(e, path, data, dec.InputOffset())
	}

	return out, nil
}

func parseJSONWatchOptions(path string, data []byte, dec *json.Decoder, keyOffset int64) (map[string]any, error) {
	if err := expectJSONObject(dec); err != nil {
		return nil, jsonKeyError(path, data, keyOffset, KeyWatchOptions, "an object", err)
	}

	opts := map[string]any{}
	for dec.More() {
		key, offset, err := readJSONKey(dec)
		if err != nil {
			return nil, jsonError(path, data, dec, err)
		}
		if key != KeyIgnored {
			return nil, unknownKey(path, data, offset, KeyWatchOptions+"."+key)
		}
		var ignored string
		if err := dec.Decode(&ignored); err != nil {
			return nil, jsonKeyError(path, data, offset, KeyWatchOptions+"."+key, "a string", err)
		}
		opts[KeyIgnored] = ignored
	}

	if _, err := dec.Token(); err != nil {
		return nil, jsonError(path, data, dec, err)
	}
	return opts, nil
}

var errNotObject = stderrors.New("expected a JSON object")

func expectJSONObject(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errNotObject
	}
	return nil
}

// readJSONKey reads an object key and returns the offset of its opening quote.
func readJSONKey(dec *json.Decoder) (string, int64, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", 0, err
	}
	key, ok := tok.(string)
	if !ok {
		return "", 0, fmt.Errorf("expected an object key, got %v", tok)
	}
	return key, dec.InputOffset() - int64(len(key)) - 2, nil
}

// jsonError reports a decoding failure at the decoder's current position.
// SyntaxError offsets are not used: values decoded with Decode report them
// relative to the value start.
func jsonError(path string, data []byte, dec *json.Decoder, err error) *errors.CodedError {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	e := errors.New("E101").Wrap(err).WithSuggestion("Check that the file is a valid JSON object")
	return locateOffset(e, path, data, dec.InputOffset())
}

func jsonKeyError(path string, data []byte, offset int64, key, want string, err error) *errors.CodedError {
	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) || err == io.EOF || err == io.ErrUnexpectedEOF {
		e := errors.New("E101").Wrap(err).WithSuggestion("Check that the file is a valid JSON object")
		return locateOffset(e, path, data, offset)
	}
	e := errors.New("E101").
		WithDetailf("%q must be %s", key, want).
		Wrap(err)
	return locateOffset(e, path, data, offset)
}

func unknownKey(path string, data []byte, offset int64, key string) *errors.CodedError {
	e := errors.New("E102").
		WithDetailf("%q is not a recognized option", key).
		WithSuggestion("Recognized keys are proxy, files and watchOptions.ignored")
	return locateOffset(e, path, data, offset)
}

// locateOffset attaches the line and column of a byte offset to e.
func locateOffset(e *errors.CodedError, path string, data []byte, offset int64) *errors.CodedError {
	if path == "" {
		return e
	}
	line, col := lineColumn(data, offset)
	return e.WithLocation(path, line, col)
}

// lineColumn converts a byte offset into a 1-based line and column.
func lineColumn(data []byte, offset int64) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	prefix := data[:offset]
	line := bytes.Count(prefix, []byte("\n")) + 1
	col := int(offset) - bytes.LastIndexByte(prefix, '\n')
	return line, col
}

// parseYAML decodes a YAML config document into a layer.
func parseYAML(path string, data []byte) (layer, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		e := errors.New("E101").Wrap(err).WithSuggestion("Check that the file is valid YAML")
		if path != "" {
			e.Location = &errors.Location{File: path}
		}
		return nil, e
	}
	if root.Kind == 0 {
		return layer{}, nil
	}
	return parseYAMLNode(path, &root)
}

func parseYAMLNode(path string, node *yaml.Node) (layer, error) {
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return layer{}, nil
		}
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		e := errors.New("E101").WithDetail("The configuration must be a mapping")
		return nil, locateNode(e, path, node)
	}

	out := layer{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		switch keyNode.Value {
		case KeyProxy:
			var proxy string
			if err := valueNode.Decode(&proxy); err != nil {
				return nil, yamlKeyError(path, keyNode, KeyProxy, "a string", err)
			}
			out[KeyProxy] = proxy
		case KeyFiles:
			var files []string
			if err := valueNode.Decode(&files); err != nil {
				return nil, yamlKeyError(path, keyNode, KeyFiles, "a list of strings", err)
			}
			out[KeyFiles] = cloneFiles(files)
		case KeyWatchOptions:
			opts, err := parseYAMLWatchOptions(path, keyNode, valueNode)
			if err != nil {
				return nil, err
			}
			out[KeyWatchOptions] = opts
		default:
			return nil, yamlUnknownKey(path, keyNode, keyNode.Value)
		}
	}
	return out, nil
}

func parseYAMLWatchOptions(path string, keyNode, valueNode *yaml.Node) (map[string]any, error) {
	opts := map[string]any{}
	if valueNode.Kind == yaml.ScalarNode && valueNode.Tag == "!!null" {
		return opts, nil
	}
	if valueNode.Kind != yaml.MappingNode {
		return nil, yamlKeyError(path, keyNode, KeyWatchOptions, "a mapping", nil)
	}
	for i := 0; i+1 < len(valueNode.Content); i += 2 {
		k, v := valueNode.Content[i], valueNode.Content[i+1]
		name := KeyWatchOptions + "." + k.Value
		if k.Value != KeyIgnored {
			return nil, yamlUnknownKey(path, k, name)
		}
		var ignored string
		if err := v.Decode(&ignored); err != nil {
			return nil, yamlKeyError(path, k, name, "a string", err)
		}
		opts[KeyIgnored] = ignored
	}
	return opts, nil
}

func yamlKeyError(path string, node *yaml.Node, key, want string, err error) *errors.CodedError {
	e := errors.New("E101").WithDetailf("%q must be %s", key, want)
	if err != nil {
		e.Wrap(err)
	}
	return locateNode(e, path, node)
}

func yamlUnknownKey(path string, node *yaml.Node, key string) *errors.CodedError {
	e := errors.New("E102").
		WithDetailf("%q is not a recognized option", key).
		WithSuggestion("Recognized keys are proxy, files and watchOptions.ignored")
	return locateNode(e, path, node)
}

func locateNode(e *errors.CodedError, path string, node *yaml.Node) *errors.CodedError {
	if path == "" || node == nil || node.Line == 0 {
		return e
	}
	return e.WithLocation(path, node.Line, node.Column)
}
