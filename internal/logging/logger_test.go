package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// resetState clears package-level logging state between tests.
func resetState() {
	CloseAll()
	loggers = make(map[Category]*Logger)
	logsDir = ""
	workspace = ""
	configLoaded = false
	config = loggingConfig{}
	logLevel = LevelInfo
}

// writeConfig writes a .adforge/config.yaml into the workspace.
func writeConfig(t *testing.T, ws, content string) {
	t.Helper()
	configDir := filepath.Join(ws, ".adforge")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

// TestAllCategoriesLog tests that all categories create log files when debug_mode is true
func TestAllCategoriesLog(t *testing.T) {
	tempDir := t.TempDir()

	writeConfig(t, tempDir, `logging:
  level: debug
  debug_mode: true
  categories:
    boot: true
    pipeline: true
    stage: true
    synthesis: true
    artifact: true
    engine: true
    watch: true
    batch: true
`)

	resetState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	if !IsDebugMode() {
		t.Error("Expected debug mode to be enabled")
	}

	categories := []Category{
		CategoryBoot,
		CategoryPipeline,
		CategoryStage,
		CategorySynthesis,
		CategoryArtifact,
		CategoryEngine,
		CategoryWatch,
		CategoryBatch,
	}

	for _, cat := range categories {
		if !IsCategoryEnabled(cat) {
			t.Errorf("Category %s should be enabled", cat)
		}

		logger := Get(cat)
		logger.Info("Test info message for %s", cat)
		logger.Debug("Test debug message for %s", cat)
		logger.Warn("Test warn message for %s", cat)
		logger.Error("Test error message for %s", cat)
	}

	// Also test convenience functions
	Boot("Convenience boot log")
	Pipeline("Convenience pipeline log")
	Stage("Convenience stage log")
	Synthesis("Convenience synthesis log")
	Artifact("Convenience artifact log")
	Engine("Convenience engine log")
	Watch("Convenience watch log")
	Batch("Convenience batch log")

	// Close all loggers to flush
	CloseAll()

	logsPath := filepath.Join(tempDir, ".adforge", "logs")
	entries, err := os.ReadDir(logsPath)
	if err != nil {
		t.Fatalf("Failed to read logs dir: %v", err)
	}

	t.Logf("Created %d log files in %s", len(entries), logsPath)

	for _, cat := range categories {
		found := false
		for _, entry := range entries {
			if strings.Contains(entry.Name(), string(cat)+".log") {
				found = true
				content, err := os.ReadFile(filepath.Join(logsPath, entry.Name()))
				if err != nil {
					t.Errorf("Failed to read log file for %s: %v", cat, err)
					continue
				}
				if len(content) == 0 {
					t.Errorf("Log file for %s is empty", cat)
				}
				break
			}
		}
		if !found {
			t.Errorf("No log file found for category: %s", cat)
		}
	}
}

// TestDebugModeDisabled tests that no logs are created when debug_mode is false
func TestDebugModeDisabled(t *testing.T) {
	tempDir := t.TempDir()

	writeConfig(t, tempDir, `logging:
  level: debug
  debug_mode: false
  categories:
    boot: true
    pipeline: true
`)

	resetState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	if IsDebugMode() {
		t.Error("Expected debug mode to be DISABLED (production mode)")
	}

	categories := []Category{
		CategoryBoot,
		CategoryPipeline,
		CategorySynthesis,
	}

	for _, cat := range categories {
		if IsCategoryEnabled(cat) {
			t.Errorf("Category %s should be DISABLED when debug_mode=false", cat)
		}
	}

	// Try to log - should be no-ops
	Boot("This should NOT be logged")
	Pipeline("This should NOT be logged")

	logger := Get(CategoryBoot)
	logger.Info("This should NOT be logged")
	logger.Debug("This should NOT be logged")
	logger.Error("This should NOT be logged")

	CloseAll()

	logsPath := filepath.Join(tempDir, ".adforge", "logs")
	if _, err := os.Stat(logsPath); err == nil {
		entries, _ := os.ReadDir(logsPath)
		if len(entries) > 0 {
			t.Errorf("Expected NO log files in production mode, but found %d files", len(entries))
		}
	} else if !os.IsNotExist(err) {
		t.Fatalf("Unexpected error checking logs dir: %v", err)
	}
}

// TestCategoryToggle tests individual category enable/disable
func TestCategoryToggle(t *testing.T) {
	tempDir := t.TempDir()

	writeConfig(t, tempDir, `logging:
  level: debug
  debug_mode: true
  categories:
    boot: true
    pipeline: true
    synthesis: false
    engine: false
`)

	resetState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	if !IsCategoryEnabled(CategoryBoot) {
		t.Error("boot should be enabled")
	}
	if !IsCategoryEnabled(CategoryPipeline) {
		t.Error("pipeline should be enabled")
	}
	if IsCategoryEnabled(CategorySynthesis) {
		t.Error("synthesis should be DISABLED")
	}
	if IsCategoryEnabled(CategoryEngine) {
		t.Error("engine should be DISABLED")
	}

	// Category not in config should default to enabled when debug_mode=true
	if !IsCategoryEnabled(CategoryArtifact) {
		t.Error("artifact (not in config) should default to enabled")
	}

	Boot("This SHOULD be logged")
	Pipeline("This SHOULD be logged")
	Synthesis("This should NOT be logged")
	Engine("This should NOT be logged")
	Artifact("This SHOULD be logged (default enabled)")

	CloseAll()

	logsPath := filepath.Join(tempDir, ".adforge", "logs")
	entries, _ := os.ReadDir(logsPath)

	hasBootLog := false
	hasPipelineLog := false
	hasSynthesisLog := false
	hasEngineLog := false

	for _, e := range entries {
		name := e.Name()
		if strings.Contains(name, "boot") {
			hasBootLog = true
		}
		if strings.Contains(name, "pipeline") {
			hasPipelineLog = true
		}
		if strings.Contains(name, "synthesis") {
			hasSynthesisLog = true
		}
		if strings.Contains(name, "engine") {
			hasEngineLog = true
		}
	}

	if !hasBootLog {
		t.Error("Expected boot log file")
	}
	if !hasPipelineLog {
		t.Error("Expected pipeline log file")
	}
	if hasSynthesisLog {
		t.Error("Should NOT have synthesis log file (disabled)")
	}
	if hasEngineLog {
		t.Error("Should NOT have engine log file (disabled)")
	}
}

// TestTimerLogging tests the timing helper
func TestTimerLogging(t *testing.T) {
	tempDir := t.TempDir()

	writeConfig(t, tempDir, `logging:
  level: debug
  debug_mode: true
`)

	resetState()
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	timer := StartTimer(CategoryPipeline, "TestOperation")
	time.Sleep(time.Millisecond)
	elapsed := timer.Stop()

	if elapsed <= 0 {
		t.Error("Timer should have recorded non-zero duration")
	}

	CloseAll()
}
