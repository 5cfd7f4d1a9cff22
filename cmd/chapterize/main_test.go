package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chapterize/internal/config"
	"chapterize/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	return &cliTestEnv{
		cfg:        cfg,
		configPath: testsupport.WriteConfigFile(t, cfg),
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("output missing %q:\n%s", needle, haystack)
	}
}

func seedRun(t *testing.T, env *cliTestEnv, source string) string {
	t.Helper()
	store := testsupport.MustOpenStore(t, env.cfg)
	return testsupport.SeedRun(t, store, source)
}

func TestCLILanguages(t *testing.T) {
	out, _, err := runCLI(t, []string{"languages"}, "")
	if err != nil {
		t.Fatalf("languages: %v", err)
	}
	requireContains(t, out, "English")
	requireContains(t, out, "Italian")

	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Italian") && !strings.Contains(line, "no") {
			t.Errorf("Italian should lack keyword spotting: %q", line)
		}
		if strings.Contains(line, "English") && !strings.Contains(line, "yes") {
			t.Errorf("English should support keyword spotting: %q", line)
		}
	}
}

func TestCLIConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("second init should refuse to overwrite")
	}
}

func TestCLIHistoryCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	id := seedRun(t, env, "/books/novel.mp3")

	out, _, err := runCLI(t, []string{"history", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	requireContains(t, out, "/books/novel.mp3")
	requireContains(t, out, "hybrid")

	out, _, err = runCLI(t, []string{"history", "show", id}, env.configPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, "Chapter One")
	requireContains(t, out, "00:15:00.000")

	out, _, err = runCLI(t, []string{"history", "rm", id}, env.configPath)
	if err != nil {
		t.Fatalf("history rm: %v", err)
	}
	requireContains(t, out, "Removed run")

	if _, _, err := runCLI(t, []string{"history", "rm", id}, env.configPath); err == nil {
		t.Fatal("removing a missing run should fail")
	}

	out, _, err = runCLI(t, []string{"history", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("history list after rm: %v", err)
	}
	requireContains(t, out, "No saved runs")
}

func TestCLIHistoryShowMissing(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"history", "show", "nope"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "no saved run") {
		t.Fatalf("err = %v, want missing-run error", err)
	}
}

func TestCLIDepsWithStubs(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	configPath := testsupport.WriteConfigFile(t, cfg)

	out, _, err := runCLI(t, []string{"deps"}, configPath)
	if err != nil {
		t.Fatalf("deps: %v", err)
	}
	requireContains(t, out, "FFmpeg")
	requireContains(t, out, "ok")
}
