package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

// chdir is t.Chdir for toolchains older than Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

// isolate keeps the test from picking up real user or project config files.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
	chdir(t, t.TempDir())
}

func load(t *testing.T, args []string) *Config {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := Load(fs, args)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg := load(t, nil)

	if cfg.TasksFile != DefaultTasksFile {
		t.Errorf("TasksFile: got %s, want %s", cfg.TasksFile, DefaultTasksFile)
	}
	if cfg.SchemaFile != DefaultSchemaFile {
		t.Errorf("SchemaFile: got %s, want %s", cfg.SchemaFile, DefaultSchemaFile)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel: got %s, want info", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat: got %s, want text", cfg.LogFormat)
	}
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TAREAS_FILE", "/tmp/other.json")
	t.Setenv("TAREAS_LOG_LEVEL", "debug")
	t.Setenv("TAREAS_LOG_TIMESTAMPS", "yes")

	cfg := load(t, nil)

	if cfg.TasksFile != "/tmp/other.json" {
		t.Errorf("TasksFile: got %s, want /tmp/other.json", cfg.TasksFile)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %s, want debug", cfg.LogLevel)
	}
	if !cfg.LogTimestamps {
		t.Error("LogTimestamps: got false, want true")
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TAREAS_FILE", "/tmp/env.json")

	cfg := load(t, []string{"-file", "/tmp/flag.json"})

	if cfg.TasksFile != "/tmp/flag.json" {
		t.Errorf("TasksFile: got %s, want the flag value", cfg.TasksFile)
	}
}

func TestProjectConfigFile(t *testing.T) {
	isolate(t)

	content := "tasks_file = \"project.json\"\nlog_format = \"json\"\n"
	if err := os.WriteFile("tareas.toml", []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := load(t, nil)

	if cfg.TasksFile != "project.json" {
		t.Errorf("TasksFile: got %s, want project.json", cfg.TasksFile)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat: got %s, want json", cfg.LogFormat)
	}
}

func TestUserConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	chdir(t, t.TempDir())

	dir := filepath.Join(home, ".tareas")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "tareas.toml"), []byte("log_level = \"warn\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := load(t, nil)

	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: got %s, want warn from user config", cfg.LogLevel)
	}
}

func TestBoolFromString(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1", true},
		{"true", true},
		{"YES", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := boolFromString(tt.in); got != tt.want {
			t.Errorf("boolFromString(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}
