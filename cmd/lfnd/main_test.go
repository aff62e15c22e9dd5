package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/lfnd/internal/config"
	"github.com/vango-dev/lfnd/internal/errors"
)

const testManifest = `{
	"routes": [
		{"name": "/", "body": "home"},
		{"name": "/users/:id", "body": "user {id}"},
		{"name": "/docs/guide/intro", "body": "intro"},
		{"name": "/old", "redirect": "/users/1"}
	]
}`

func writeManifest(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "routes.json")
	if err := os.WriteFile(path, []byte(testManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCleanCommand(t *testing.T) {
	out, err := run(t, "clean", "", "a", "a/", `\a\b`, "/x/y/")
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	want := "/\n/a\n/a\n/a\\b\n/x/y\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestRoutesCommand(t *testing.T) {
	out, err := run(t, "routes", writeManifest(t))
	if err != nil {
		t.Fatalf("routes: %v", err)
	}
	want := "/\n/docs/guide/intro\n/old\n/users/:id\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestResolveCommand(t *testing.T) {
	out, err := run(t, "resolve", writeManifest(t), "/users/42", "/docs/guide", "/missing", "/old")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), out)
	}

	checks := []struct {
		line   int
		fields []string
	}{
		{1, []string{"/users/42", "matched", "200", "user 42", "id=42"}},
		{2, []string{"/docs/guide", "no_handler", "0"}},
		{3, []string{"/missing", "not_found", "404", "not found"}},
		{4, []string{"/old", "matched", "302", "-> /users/1"}},
	}
	for _, c := range checks {
		for _, f := range c.fields {
			if !strings.Contains(lines[c.line], f) {
				t.Errorf("line %d %q missing %q", c.line, lines[c.line], f)
			}
		}
	}
}

func TestResolveCommandMissingManifest(t *testing.T) {
	_, err := run(t, "resolve", filepath.Join(t.TempDir(), "nope.json"), "/")
	if !errors.HasCode(err, "L020") {
		t.Errorf("err = %v, want L020", err)
	}
}

func TestResolveCommandArgs(t *testing.T) {
	if _, err := run(t, "resolve", "only-manifest"); err == nil {
		t.Error("expected error with a single argument")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("output = %q, want %q", out, version)
	}

	out, err = run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	for _, want := range []string{"Version:", "Commit:", "Go version:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestServeRequiresManifest(t *testing.T) {
	_, err := run(t, "serve", "--config", t.TempDir())
	if !errors.HasCode(err, "L030") {
		t.Errorf("err = %v, want L030", err)
	}
}

func TestServeRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	data := `{"server": {"shutdownTimeout": "soon"}}`
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := run(t, "serve", "--config", dir, "--manifest", writeManifest(t))
	if !errors.HasCode(err, "L003") {
		t.Errorf("err = %v, want L003", err)
	}
}

func TestAppConfig(t *testing.T) {
	cfg := config.New()
	cfg.Server.Addr = ":9999"
	cfg.Metrics.Enabled = false
	cfg.Tracing.Enabled = true
	cfg.Log.Level = "debug"

	got := appConfig(cfg, nil)
	if got.Server.Addr != ":9999" {
		t.Errorf("Addr = %q", got.Server.Addr)
	}
	if got.Server.MetricsPath != "" || got.Metrics || !got.DisableMetricsEndpoint {
		t.Error("metrics should be disabled")
	}
	if !got.Tracing || got.TracerName != "lfnd" {
		t.Errorf("tracing = %v %q", got.Tracing, got.TracerName)
	}
	if !got.AccessLog {
		t.Error("debug level should enable the access log")
	}
}
