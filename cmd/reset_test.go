package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"samctl/internal/config"
)

func TestRunResetCommandsExecutesInOrder(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "marker")

	cfg := config.Config{
		Name: "test",
		Reset: []string{
			"echo first > " + marker,
			"echo second >> " + marker,
		},
	}

	if err := runResetCommands(cfg); err != nil {
		t.Fatalf("runResetCommands failed: %v", err)
	}

	data, err := os.ReadFile(marker)
	if err != nil {
		t.Fatalf("expected marker file: %v", err)
	}
	if string(data) != "first\nsecond\n" {
		t.Errorf("expected commands to run in order, got %q", string(data))
	}
}

func TestRunResetCommandsStopsOnFailure(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "marker")

	cfg := config.Config{
		Name: "test",
		Reset: []string{
			"echo unreachable >&2; exit 1",
			"touch " + marker,
		},
	}

	err := runResetCommands(cfg)
	if err == nil {
		t.Fatal("expected error from failing reset command")
	}
	if !strings.Contains(err.Error(), "unreachable") {
		t.Errorf("expected stderr in error, got: %v", err)
	}

	if _, statErr := os.Stat(marker); !os.IsNotExist(statErr) {
		t.Error("expected later commands not to run after a failure")
	}
}

func TestRunResetCommandsEmptyIsNoop(t *testing.T) {
	if err := runResetCommands(config.Config{Name: "test"}); err != nil {
		t.Errorf("expected nil for empty reset list, got %v", err)
	}
}
