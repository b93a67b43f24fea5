package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/glyengineering/glyweb/internal/listing"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute %v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func missingConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "glyweb.yml")
}

func TestVersion(t *testing.T) {
	out := execute(t, "version")
	if !strings.HasPrefix(out, "glyweb ") {
		t.Errorf("version output = %q", out)
	}
}

func TestQueryJobs(t *testing.T) {
	out := execute(t, "query", "jobs", "--q", "welder", "--config", missingConfig(t))
	if !strings.Contains(out, "Welder") || !strings.Contains(out, "1 positions") {
		t.Errorf("output:\n%s", out)
	}
}

func TestPrintProjects(t *testing.T) {
	var b bytes.Buffer
	f := listing.ProjectFilter{Industry: "Energy", Service: listing.All}
	printProjects(&b, f, []listing.ProjectRecord{{ID: 7, Title: "Solar Farm", Industry: "Energy", Service: "Construction"}})
	out := b.String()
	if !strings.Contains(out, "Solar Farm") || !strings.Contains(out, "Showing 1 projects (industry: Energy") {
		t.Errorf("output:\n%s", out)
	}

	b.Reset()
	printProjects(&b, f, nil)
	if !strings.Contains(b.String(), "No projects match") {
		t.Errorf("empty output:\n%s", b.String())
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CI", "true")
	out := execute(t, "export", "--output", dir, "--config", missingConfig(t))
	if !strings.Contains(out, "Static site exported") {
		t.Errorf("output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "index.html")); err != nil {
		t.Errorf("index.html not exported: %v", err)
	}
}
