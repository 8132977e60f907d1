package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ttsdeck/internal/config"
	"ttsdeck/internal/testsupport"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	content := strings.Join([]string{
		"[paths]",
		`data_dir = "` + filepath.Join(base, "data") + `"`,
		`media_dir = "` + filepath.Join(base, "media") + `"`,
		`log_dir = "` + filepath.Join(base, "logs") + `"`,
	}, "\n") + "\n"
	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitWritesLoadableSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Errorf("output %q does not mention target", out)
	}

	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("Load generated sample: %v", err)
	}
	if !exists {
		t.Fatal("sample config missing")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("sample config invalid: %v", err)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Error("second init without --overwrite should fail")
	}
}

func TestCardsImportAndShow(t *testing.T) {
	cfgPath := writeTestConfig(t)

	bulk := "[" + string(testsupport.CardJSON(t, testsupport.CardSpec{
		Name:     "Lightning Bolt",
		TypeLine: "Instant",
	})) + "]"
	bulkPath := filepath.Join(t.TempDir(), "bulk.json")
	if err := os.WriteFile(bulkPath, []byte(bulk), 0o644); err != nil {
		t.Fatalf("write bulk file: %v", err)
	}

	out, err := runCommand(t, "--config", cfgPath, "cards", "import", bulkPath)
	if err != nil {
		t.Fatalf("cards import: %v", err)
	}
	if !strings.Contains(out, "Imported 1 cards") {
		t.Errorf("import output = %q", out)
	}

	out, err = runCommand(t, "--config", cfgPath, "cards", "show", "Lightning Bolt")
	if err != nil {
		t.Fatalf("cards show: %v", err)
	}
	if !strings.Contains(out, "Lightning Bolt") {
		t.Errorf("show output = %q", out)
	}
}

func TestCardsShowUnknownCardFails(t *testing.T) {
	cfgPath := writeTestConfig(t)

	if _, err := runCommand(t, "--config", cfgPath, "cards", "show", "No Such Card"); err == nil {
		t.Error("expected failure for unknown card")
	}
}
