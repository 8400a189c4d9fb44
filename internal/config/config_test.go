package config

import (
	"encoding/json"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/auctions-dev/bsconf/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Proxy() != "127.0.0.1:8000" {
		t.Errorf("Proxy() = %q, want %q", cfg.Proxy(), "127.0.0.1:8000")
	}

	wantFiles := []string{
		"./auctions/templates/auctions/*.html",
		"./auctions/static/auctions/*.css",
	}
	if diff := cmp.Diff(wantFiles, cfg.Files()); diff != "" {
		t.Errorf("Files() mismatch (-want +got):\n%s", diff)
	}
	for _, f := range cfg.Files() {
		if !strings.HasPrefix(f, "./auctions/") {
			t.Errorf("pattern %q is not scoped under auctions", f)
		}
	}

	if cfg.Ignored() != "node_modules/**" {
		t.Errorf("Ignored() = %q, want %q", cfg.Ignored(), "node_modules/**")
	}
	if cfg.WatchOptions() != (WatchOptions{Ignored: DependencyIgnore}) {
		t.Errorf("WatchOptions() = %+v", cfg.WatchOptions())
	}
	if cfg.Path() != "" {
		t.Errorf("Path() = %q, want empty", cfg.Path())
	}
}

func TestDefault_Idempotent(t *testing.T) {
	a, b := Default(), Default()
	if a == b {
		t.Fatal("Default() should return independent values")
	}
	if !a.Equal(b) {
		t.Error("repeated Default() calls should be equal")
	}
}

func TestFiles_ReturnsCopy(t *testing.T) {
	cfg := Default()
	files := cfg.Files()
	files[0] = "mutated"

	if cfg.Files()[0] != TemplateGlob {
		t.Error("mutating Files() result changed the record")
	}
}

func TestNew_CopiesInput(t *testing.T) {
	files := []string{"a/*.html"}
	cfg := New("localhost:3000", files, WatchOptions{})
	files[0] = "mutated"

	if cfg.Files()[0] != "a/*.html" {
		t.Error("mutating the input slice changed the record")
	}
}

func TestNew_NilFiles(t *testing.T) {
	cfg := New("localhost:3000", nil, WatchOptions{})
	if cfg.Files() == nil {
		t.Error("Files() should never be nil")
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"files":[]`) {
		t.Errorf("nil files should encode as [], got %s", data)
	}
}

func TestEqual(t *testing.T) {
	base := Default()
	tests := []struct {
		name  string
		other *DevServerConfig
		want  bool
	}{
		{"same values", Default(), true},
		{"different proxy", New("127.0.0.1:9000", base.Files(), base.WatchOptions()), false},
		{"reordered files", New(base.Proxy(), []string{StylesheetGlob, TemplateGlob}, base.WatchOptions()), false},
		{"different ignore", New(base.Proxy(), base.Files(), WatchOptions{Ignored: "vendor/**"}), false},
		{"path ignored", Default().withPath("bs-config.json"), true},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Equal(tt.other); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}

	var nilCfg *DevServerConfig
	if !nilCfg.Equal(nil) {
		t.Error("nil should equal nil")
	}
}

func TestKeys(t *testing.T) {
	want := []string{"proxy", "files", "watchOptions"}
	if diff := cmp.Diff(want, Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalJSON_ExactKeys(t *testing.T) {
	data, err := json.Marshal(Default())
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}

	got := make([]string, 0, len(raw))
	for k := range raw {
		got = append(got, k)
	}
	sort.Strings(got)
	want := []string{"files", "proxy", "watchOptions"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("top-level keys mismatch (-want +got):\n%s", diff)
	}

	var opts map[string]string
	if err := json.Unmarshal(raw["watchOptions"], &opts); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]string{"ignored": "node_modules/**"}, opts); diff != "" {
		t.Errorf("watchOptions mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalJSON_KeyOrder(t *testing.T) {
	data, err := json.Marshal(Default())
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	p, f, w := strings.Index(s, `"proxy"`), strings.Index(s, `"files"`), strings.Index(s, `"watchOptions"`)
	if !(p < f && f < w) {
		t.Errorf("keys out of order: %s", s)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	original := Default()
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatal(err)
	}

	var decoded DevServerConfig
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !original.Equal(&decoded) {
		t.Errorf("round trip changed the record: %s", data)
	}

	again, err := json.Marshal(&decoded)
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != string(data) {
		t.Errorf("re-encoding differs:\n%s\n%s", data, again)
	}
}

func TestUnmarshalJSON_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode string
	}{
		{"unknown top-level key", `{"proxy":"a:1","port":3000}`, "E102"},
		{"unknown watch option", `{"watchOptions":{"ignored":"x","usePolling":true}}`, "E102"},
		{"proxy wrong type", `{"proxy":8000}`, "E101"},
		{"files wrong type", `{"files":"a.html"}`, "E101"},
		{"watchOptions wrong type", `{"watchOptions":"node_modules"}`, "E101"},
		{"ignored wrong type", `{"watchOptions":{"ignored":["a"]}}`, "E101"},
		{"not an object", `["proxy"]`, "E101"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg DevServerConfig
			err := json.Unmarshal([]byte(tt.input), &cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if code := errors.CodeOf(err); code != tt.wantCode {
				t.Errorf("code = %q, want %q (err: %v)", code, tt.wantCode, err)
			}
		})
	}
}

func TestUnmarshalJSON_PartialLeavesZero(t *testing.T) {
	var cfg DevServerConfig
	if err := json.Unmarshal([]byte(`{"proxy":"localhost:5000"}`), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Proxy() != "localhost:5000" {
		t.Errorf("Proxy() = %q", cfg.Proxy())
	}
	if len(cfg.Files()) != 0 {
		t.Errorf("Files() = %v, want empty", cfg.Files())
	}
	if cfg.Ignored() != "" {
		t.Errorf("Ignored() = %q, want empty", cfg.Ignored())
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	original := Default()
	data, err := yaml.Marshal(original)
	if err != nil {
		t.Fatal(err)
	}

	want := `proxy: 127.0.0.1:8000
files:
    - ./auctions/templates/auctions/*.html
    - ./auctions/static/auctions/*.css
watchOptions:
    ignored: node_modules/**
`
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("yaml.Marshal mismatch (-want +got):\n%s", diff)
	}

	var decoded DevServerConfig
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !original.Equal(&decoded) {
		t.Error("YAML round trip changed the record")
	}
}

func TestUnmarshalYAML_UnknownKey(t *testing.T) {
	var cfg DevServerConfig
	err := yaml.Unmarshal([]byte("proxy: a:1\nopen: true\n"), &cfg)
	if !errors.HasCode(err, "E102") {
		t.Errorf("err = %v, want E102", err)
	}
}

func TestLineColumn(t *testing.T) {
	data := []byte("{\n  \"proxy\": 1\n}")
	tests := []struct {
		offset   int64
		line     int
		col      int
	}{
		{0, 1, 1},
		{2, 2, 1},
		{4, 2, 3},
		{-5, 1, 1},
		{1000, 3, 2},
	}
	for _, tt := range tests {
		line, col := lineColumn(data, tt.offset)
		if line != tt.line || col != tt.col {
			t.Errorf("lineColumn(%d) = %d:%d, want %d:%d", tt.offset, line, col, tt.line, tt.col)
		}
	}
}
