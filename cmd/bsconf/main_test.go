package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/auctions-dev/bsconf/internal/config"
	"github.com/auctions-dev/bsconf/internal/errors"
)

// run executes the root command in dir and returns its stdout.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	for _, name := range []string{config.EnvProxy, config.EnvFiles, config.EnvWatchIgnore} {
		t.Setenv(name, "")
	}

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--dir", dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestShow_Defaults(t *testing.T) {
	out, err := run(t, t.TempDir(), "show", "--format", "json")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}

	want := `{
  "proxy": "127.0.0.1:8000",
  "files": [
    "./auctions/templates/auctions/*.html",
    "./auctions/static/auctions/*.css"
  ],
  "watchOptions": {
    "ignored": "node_modules/**"
  }
}
`
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("show output mismatch (-want +got):\n%s", diff)
	}
}

func TestShow_JSIsDefault(t *testing.T) {
	out, err := run(t, t.TempDir(), "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "module.exports = {") {
		t.Errorf("default output should be a JS module:\n%s", out)
	}
}

func TestShow_FileOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bs-config.yaml"), "proxy: localhost:9000\n")

	out, err := run(t, dir, "show", "-f", "yaml")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "proxy: localhost:9000") {
		t.Errorf("file value not applied:\n%s", out)
	}
	if !strings.Contains(out, config.TemplateGlob) {
		t.Errorf("default files should be kept:\n%s", out)
	}
}

func TestShow_Sources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bs-config.json"), `{"proxy": "localhost:9000"}`)

	out, err := run(t, dir, "show", "--sources")
	if err != nil {
		t.Fatal(err)
	}

	sources := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 {
			sources[fields[0]] = fields[1]
		}
	}
	if sources[config.KeyProxy] != "file" {
		t.Errorf("proxy source = %q, want file", sources[config.KeyProxy])
	}
	if sources[config.KeyFiles] != "default" {
		t.Errorf("files source = %q, want default", sources[config.KeyFiles])
	}
}

func TestShow_UnknownFormat(t *testing.T) {
	_, err := run(t, t.TempDir(), "show", "--format", "toml")
	if !errors.HasCode(err, "E200") {
		t.Errorf("err = %v, want E200", err)
	}
}

func TestShow_UnknownKey(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bs-config.json"), `{"proxy": "a:1", "port": 3000}`)

	_, err := run(t, dir, "show")
	if !errors.HasCode(err, "E102") {
		t.Errorf("err = %v, want E102", err)
	}
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "init", "--format", "json")
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	path := filepath.Join(dir, "bs-config.json")
	if !strings.Contains(out, path) {
		t.Errorf("output should name the created file:\n%s", out)
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Equal(config.Default()) {
		t.Error("init should write the default configuration")
	}

	if _, err := run(t, dir, "init", "--format", "json"); !errors.HasCode(err, "E201") {
		t.Errorf("second init err = %v, want E201", err)
	}
	if _, err := run(t, dir, "init", "--format", "json", "--force"); err != nil {
		t.Errorf("init --force failed: %v", err)
	}
}

func TestInit_JS(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, dir, "init"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "bs-config.js"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `proxy: "127.0.0.1:8000",`) {
		t.Errorf("unexpected JS config:\n%s", data)
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "auctions", "templates", "auctions", "index.html"), "<p>")

	out, err := run(t, dir, "files")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		config.TemplateGlob + " (1)",
		"auctions/templates/auctions/index.html",
		config.StylesheetGlob + " (no matches)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMatch(t *testing.T) {
	out, err := run(t, t.TempDir(), "match",
		"auctions/static/auctions/site.css",
		"manage.py",
	)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "auctions/static/auctions/site.css reloads") {
		t.Errorf("stylesheet should reload:\n%s", out)
	}
	if !strings.Contains(out, "manage.py ignored") {
		t.Errorf("manage.py should be ignored:\n%s", out)
	}
}

func TestCheck(t *testing.T) {
	out, err := run(t, t.TempDir(), "check")
	if err != nil {
		t.Fatalf("defaults should pass: %v", err)
	}
	if !strings.Contains(out, "No problems found") {
		t.Errorf("unexpected output:\n%s", out)
	}

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bs-config.json"), `{"proxy": "127.0.0.1:99999"}`)
	out, err = run(t, dir, "check")
	if !errors.HasCode(err, "E203") {
		t.Errorf("err = %v, want E203", err)
	}
	if !strings.Contains(out, "E301") {
		t.Errorf("output should list the proxy problem:\n%s", out)
	}
}

func TestKeys(t *testing.T) {
	out, err := run(t, t.TempDir(), "keys")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("proxy\nfiles\nwatchOptions\n", out); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestVersion_Short(t *testing.T) {
	out, err := run(t, t.TempDir(), "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if out != version+"\n" {
		t.Errorf("version --short = %q, want %q", out, version+"\n")
	}
}
