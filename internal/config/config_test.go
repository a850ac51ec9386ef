package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name != "adforge" {
		t.Errorf("expected Name=adforge, got %s", cfg.Name)
	}
	if cfg.Engine.Model != "gemini-2.5-flash" {
		t.Errorf("expected Model=gemini-2.5-flash, got %s", cfg.Engine.Model)
	}
	if cfg.Imagen.Model != "imagen-4.0-generate-preview-06-06" {
		t.Errorf("expected Imagen.Model=imagen-4.0-generate-preview-06-06, got %s", cfg.Imagen.Model)
	}
	if cfg.Output.Dir != "output" {
		t.Errorf("expected Output.Dir=output, got %s", cfg.Output.Dir)
	}
	if cfg.Batch.Concurrency != 3 {
		t.Errorf("expected Batch.Concurrency=3, got %d", cfg.Batch.Concurrency)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	// Ensure no env vars interfere
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("ADFORGE_OUTPUT_DIR", "")

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Engine.APIKey = "sk-test"
	cfg.Output.Dir = "campaigns"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Engine.APIKey != "sk-test" {
		t.Errorf("expected APIKey=sk-test, got %s", loaded.Engine.APIKey)
	}
	if loaded.Output.Dir != "campaigns" {
		t.Errorf("expected Output.Dir=campaigns, got %s", loaded.Output.Dir)
	}
}

func TestConfig_LoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Engine.Model != "gemini-2.5-flash" {
		t.Errorf("expected defaults, got Model=%s", cfg.Engine.Model)
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	os.Setenv("GOOGLE_API_KEY", "google-key")
	defer os.Unsetenv("GOOGLE_API_KEY")
	os.Setenv("ADFORGE_OUTPUT_DIR", "out2")
	defer os.Unsetenv("ADFORGE_OUTPUT_DIR")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	if cfg.Engine.APIKey != "google-key" {
		t.Errorf("expected APIKey=google-key, got %s", cfg.Engine.APIKey)
	}
	if cfg.Output.Dir != "out2" {
		t.Errorf("expected Output.Dir=out2, got %s", cfg.Output.Dir)
	}
}

func TestConfig_GeminiKeyWinsOverGoogleKey(t *testing.T) {
	os.Setenv("GOOGLE_API_KEY", "google-key")
	defer os.Unsetenv("GOOGLE_API_KEY")
	os.Setenv("GEMINI_API_KEY", "gemini-key")
	defer os.Unsetenv("GEMINI_API_KEY")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	if cfg.Engine.APIKey != "gemini-key" {
		t.Errorf("expected GEMINI_API_KEY to win, got %s", cfg.Engine.APIKey)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()

	// Missing API key is NOT a validation error; the pipeline degrades
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config without API key, got error: %v", err)
	}

	cfg.Engine.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for missing engine model")
	}

	cfg = DefaultConfig()
	cfg.Batch.Concurrency = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for zero concurrency")
	}
}

func TestConfig_Helpers(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.GetEngineTimeout() == 0 {
		t.Error("GetEngineTimeout should return non-zero duration")
	}
	if cfg.GetSynthesisTimeout() == 0 {
		t.Error("GetSynthesisTimeout should return non-zero duration")
	}
	if cfg.GetWatchDebounce() == 0 {
		t.Error("GetWatchDebounce should return non-zero duration")
	}

	// Bad duration strings fall back to defaults
	cfg.Engine.Timeout = "not-a-duration"
	if cfg.GetEngineTimeout() == 0 {
		t.Error("GetEngineTimeout should fall back on parse failure")
	}
}

func TestFindWorkspaceRoot_PrefersAdforgeDir(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".adforge"), 0o755); err != nil {
		t.Fatalf("mkdir .adforge: %v", err)
	}
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}

	origWD, _ := os.Getwd()
	if err := os.Chdir(nested); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWD) })

	got, err := FindWorkspaceRoot()
	if err != nil {
		t.Fatalf("FindWorkspaceRoot: %v", err)
	}
	if got != root {
		t.Fatalf("FindWorkspaceRoot=%q, want %q", got, root)
	}
}

func TestFindWorkspaceRoot_FallsBackToGoMod(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/test\n\ngo 1.22\n"), 0o644); err != nil {
		t.Fatalf("write go.mod: %v", err)
	}
	nested := filepath.Join(root, "subdir")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}

	origWD, _ := os.Getwd()
	if err := os.Chdir(nested); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWD) })

	got, err := FindWorkspaceRoot()
	if err != nil {
		t.Fatalf("FindWorkspaceRoot: %v", err)
	}
	if got != root {
		t.Fatalf("FindWorkspaceRoot=%q, want %q", got, root)
	}
}
