package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/julienkay/com.doji.diffusers/internal/config"
	"github.com/julienkay/com.doji.diffusers/internal/tensor"
	"github.com/julienkay/com.doji.diffusers/pkg/hashutil"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestWithDefault(t *testing.T) {
	cfg, err := config.WithDefault().Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}

	expectedRoot := filepath.Join("..", "com.doji.diffusers", "Tests", "Editor", "Resources")
	if cfg.ResourceRoot() != expectedRoot {
		t.Errorf("expected ResourceRoot %q, got %q", expectedRoot, cfg.ResourceRoot())
	}
	if cfg.SchedulerSamplesFile() != "scheduler_test_random_samples.txt" {
		t.Errorf("expected default samples file, got %q", cfg.SchedulerSamplesFile())
	}
	if !cfg.SchedulerSamplesShape().Equal(tensor.Shape{4, 3, 8, 8}) {
		t.Errorf("expected shape (4, 3, 8, 8), got %s", cfg.SchedulerSamplesShape())
	}
	if cfg.HashAlgo() != hashutil.HashAlgoBLAKE3 {
		t.Errorf("expected HashAlgo blake3, got %s", cfg.HashAlgo())
	}
	if cfg.Concurrency() != 4 {
		t.Errorf("expected Concurrency 4, got %d", cfg.Concurrency())
	}
	if len(cfg.Checksums()) != 0 {
		t.Errorf("expected no checksums, got %v", cfg.Checksums())
	}
}

func TestBuilderOverrides(t *testing.T) {
	cfg, err := config.WithDefault().
		WithResourceRoot("/data/fixtures").
		WithSchedulerSamplesFile("samples.txt").
		WithSchedulerSamplesShape(tensor.Shape{2, 4}).
		WithHashAlgo(hashutil.HashAlgoSHA256).
		WithChecksums(map[string]string{"samples.txt": "abc"}).
		WithConcurrency(8).
		Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}

	if cfg.ResourceRoot() != "/data/fixtures" {
		t.Errorf("expected ResourceRoot /data/fixtures, got %q", cfg.ResourceRoot())
	}
	if cfg.SchedulerSamplesFile() != "samples.txt" {
		t.Errorf("expected samples.txt, got %q", cfg.SchedulerSamplesFile())
	}
	if !cfg.SchedulerSamplesShape().Equal(tensor.Shape{2, 4}) {
		t.Errorf("expected shape (2, 4), got %s", cfg.SchedulerSamplesShape())
	}
	if cfg.HashAlgo() != hashutil.HashAlgoSHA256 {
		t.Errorf("expected sha256, got %s", cfg.HashAlgo())
	}
	if sum, ok := cfg.Checksum("samples.txt"); !ok || sum != "abc" {
		t.Errorf("expected checksum abc, got %q (%v)", sum, ok)
	}
	if _, ok := cfg.Checksum("other.txt"); ok {
		t.Error("expected no checksum for other.txt")
	}
	if cfg.Concurrency() != 8 {
		t.Errorf("expected Concurrency 8, got %d", cfg.Concurrency())
	}
}

func TestBuild_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		builder *config.Config
	}{
		{"empty resource root", config.WithDefault().WithResourceRoot("")},
		{"empty samples file", config.WithDefault().WithSchedulerSamplesFile("")},
		{"zero dimension", config.WithDefault().WithSchedulerSamplesShape(tensor.Shape{4, 0})},
		{"no dimensions", config.WithDefault().WithSchedulerSamplesShape(tensor.Shape{})},
		{"unsupported hash", config.WithDefault().WithHashAlgo("md5")},
		{"zero concurrency", config.WithDefault().WithConcurrency(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			if !errors.Is(err, config.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestBuild_IsolatesFromBuilder(t *testing.T) {
	checksums := map[string]string{"a.txt": "1"}
	builder := config.WithDefault().WithChecksums(checksums)
	cfg, err := builder.Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}

	checksums["a.txt"] = "2"
	if sum, _ := cfg.Checksum("a.txt"); sum != "1" {
		t.Errorf("expected built config to keep checksum 1, got %q", sum)
	}

	shape := cfg.SchedulerSamplesShape()
	shape[0] = 99
	if cfg.SchedulerSamplesShape()[0] != 4 {
		t.Errorf("expected shape accessor to return a copy")
	}
}

func TestWithEnvOverrides(t *testing.T) {
	lookup := func(key string) (string, bool) {
		if key == config.EnvResourceRoot {
			return "/env/fixtures", true
		}
		return "", false
	}

	cfg, err := config.WithDefault().WithEnvOverrides(lookup).Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}
	if cfg.ResourceRoot() != "/env/fixtures" {
		t.Errorf("expected env root, got %q", cfg.ResourceRoot())
	}

	empty := func(string) (string, bool) { return "", true }
	cfg, err = config.WithDefault().WithEnvOverrides(empty).Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}
	if cfg.ResourceRoot() != config.DefaultResourceRoot() {
		t.Errorf("expected empty env value to be ignored, got %q", cfg.ResourceRoot())
	}
}

func TestWithConfigFile_JSON(t *testing.T) {
	path := writeConfigFile(t, "fixtures.json", `{
  "resourceRoot": "/abs/resources",
  "schedulerSamplesShape": [4, 3, 64],
  "hashAlgo": "SHA256",
  "checksums": {"scheduler_test_random_samples.txt": "deadbeef"},
  "concurrency": 2
}`)

	cfg, err := config.WithConfigFile(path)
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}
	if cfg.ResourceRoot() != "/abs/resources" {
		t.Errorf("expected /abs/resources, got %q", cfg.ResourceRoot())
	}
	if !cfg.SchedulerSamplesShape().Equal(tensor.Shape{4, 3, 64}) {
		t.Errorf("expected shape (4, 3, 64), got %s", cfg.SchedulerSamplesShape())
	}
	if cfg.HashAlgo() != hashutil.HashAlgoSHA256 {
		t.Errorf("expected sha256, got %s", cfg.HashAlgo())
	}
	if sum, _ := cfg.Checksum("scheduler_test_random_samples.txt"); sum != "deadbeef" {
		t.Errorf("expected checksum deadbeef, got %q", sum)
	}
	if cfg.Concurrency() != 2 {
		t.Errorf("expected Concurrency 2, got %d", cfg.Concurrency())
	}
	if cfg.SchedulerSamplesFile() != config.DefaultSchedulerSamplesFile {
		t.Errorf("expected default samples file to be kept, got %q", cfg.SchedulerSamplesFile())
	}
}

func TestWithConfigFile_YAMLRelativeRoot(t *testing.T) {
	path := writeConfigFile(t, "fixtures.yaml", `
resourceRoot: testdata/resources
schedulerSamplesFile: samples.txt
`)

	cfg, err := config.WithConfigFile(path)
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}
	expected := filepath.Join(filepath.Dir(path), "testdata", "resources")
	if cfg.ResourceRoot() != expected {
		t.Errorf("expected root %q, got %q", expected, cfg.ResourceRoot())
	}
	if cfg.SchedulerSamplesFile() != "samples.txt" {
		t.Errorf("expected samples.txt, got %q", cfg.SchedulerSamplesFile())
	}
}

func TestWithConfigFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := config.WithConfigFile(filepath.Join(t.TempDir(), "nope.json"))
		if !errors.Is(err, config.ErrFileDoesNotExist) {
			t.Errorf("expected ErrFileDoesNotExist, got %v", err)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeConfigFile(t, "fixtures.toml", "resourceRoot = 'x'")
		_, err := config.WithConfigFile(path)
		if !errors.Is(err, config.ErrUnsupportedConfigFormat) {
			t.Errorf("expected ErrUnsupportedConfigFormat, got %v", err)
		}
	})

	t.Run("malformed content", func(t *testing.T) {
		path := writeConfigFile(t, "fixtures.json", `{"concurrency": "many"}`)
		_, err := config.WithConfigFile(path)
		if !errors.Is(err, config.ErrConfigParsingFail) {
			t.Errorf("expected ErrConfigParsingFail, got %v", err)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		path := writeConfigFile(t, "fixtures.yml", "hashAlgo: crc32\n")
		_, err := config.WithConfigFile(path)
		if !errors.Is(err, config.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
