package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points XDG config and the working directory at a fresh temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	origWd, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp dir: %v", err)
	}

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	for _, key := range envKeys {
		t.Setenv("STEPPER_"+strings.ToUpper(key), "")
		_ = os.Unsetenv("STEPPER_" + strings.ToUpper(key))
	}
	return tmpDir
}

func TestGlobalPath(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if got := GlobalPath(); got != "/custom/config/stepper/stepper.yml" {
			t.Errorf("GlobalPath() = %v", got)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		got := GlobalPath()
		if !filepath.IsAbs(got) {
			t.Errorf("GlobalPath() should return absolute path, got %v", got)
		}
		if !strings.HasSuffix(got, filepath.Join(".config", "stepper", "stepper.yml")) {
			t.Errorf("GlobalPath() = %v", got)
		}
	})
}

func TestProjectPath(t *testing.T) {
	if got := ProjectPath(); got != "stepper.yml" {
		t.Errorf("ProjectPath() = %v, want stepper.yml", got)
	}
}

func TestExists(t *testing.T) {
	isolate(t)

	if Exists() {
		t.Fatal("Exists() = true, want false when no config files exist")
	}

	if err := WriteGlobal(Default()); err != nil {
		t.Fatalf("WriteGlobal() error = %v", err)
	}
	if !Exists() {
		t.Error("Exists() = false, want true when global config exists")
	}

	_ = os.Remove(GlobalPath())
	if err := WriteProject(Default()); err != nil {
		t.Fatalf("WriteProject() error = %v", err)
	}
	if !Exists() {
		t.Error("Exists() = false, want true when project config exists")
	}
}

func TestWriteGlobal(t *testing.T) {
	isolate(t)

	linear := true
	cfg := &Config{
		Flow:     "flows/signup.yml",
		DataDir:  ".test",
		LogLevel: "debug",
		LogFile:  "/tmp/test.log",
		Journal:  true,
		Linear:   &linear,
	}
	if err := WriteGlobal(cfg); err != nil {
		t.Fatalf("WriteGlobal() error = %v", err)
	}

	data, err := os.ReadFile(GlobalPath())
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	content := string(data)
	for _, field := range []string{
		"flow: flows/signup.yml",
		"data_dir: .test",
		"log_level: debug",
		"log_file: /tmp/test.log",
		"journal: true",
		"linear: true",
	} {
		if !strings.Contains(content, field) {
			t.Errorf("Config file missing expected field: %s\nContent:\n%s", field, content)
		}
	}
	if strings.Contains(content, "vertical:") {
		t.Errorf("unset override should be omitted\nContent:\n%s", content)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Flow != "stepper.flow.yml" {
		t.Errorf("Flow = %q", cfg.Flow)
	}
	if cfg.DataDir != ".stepper" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.Journal {
		t.Error("Journal should default to false")
	}
	if cfg.Linear != nil || cfg.Vertical != nil {
		t.Error("overrides should be nil when unset")
	}
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)

	global := "flow: global.yml\nlog_level: warn\ndata_dir: .global\n"
	if err := os.MkdirAll(filepath.Dir(GlobalPath()), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(GlobalPath(), []byte(global), 0644); err != nil {
		t.Fatal(err)
	}
	project := "flow: project.yml\nlinear: false\n"
	if err := os.WriteFile(ProjectPath(), []byte(project), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STEPPER_LOG_LEVEL", "debug")
	t.Setenv("STEPPER_VERTICAL", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Flow != "project.yml" {
		t.Errorf("project config should override global, Flow = %q", cfg.Flow)
	}
	if cfg.DataDir != ".global" {
		t.Errorf("global value should survive merge, DataDir = %q", cfg.DataDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("env should override files, LogLevel = %q", cfg.LogLevel)
	}
	if cfg.Linear == nil || *cfg.Linear {
		t.Errorf("Linear override = %v, want false", cfg.Linear)
	}
	if cfg.Vertical == nil || !*cfg.Vertical {
		t.Errorf("Vertical override = %v, want true", cfg.Vertical)
	}
}

func TestLoad_InvalidGlobal(t *testing.T) {
	isolate(t)

	if err := os.MkdirAll(filepath.Dir(GlobalPath()), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(GlobalPath(), []byte("flow: [unterminated\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}
}
