package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julienkay/com.doji.diffusers/internal/tensor"
	"github.com/julienkay/com.doji.diffusers/pkg/fileutil"
	"github.com/julienkay/com.doji.diffusers/pkg/hashutil"
	"sigs.k8s.io/yaml"
)

// EnvResourceRoot overrides the fixture resource root when set.
const EnvResourceRoot = "DIFFUSERS_FIXTURE_ROOT"

const DefaultSchedulerSamplesFile = "scheduler_test_random_samples.txt"

// DefaultResourceRoot is the package's test resource directory, relative
// to a working directory that sits next to the package checkout.
func DefaultResourceRoot() string {
	return filepath.Join("..", "com.doji.diffusers", "Tests", "Editor", "Resources")
}

func DefaultSchedulerSamplesShape() tensor.Shape {
	return tensor.Shape{4, 3, 8, 8}
}

type Config struct {
	//===============
	// Location
	//===============
	// Directory that fixture names are resolved against
	resourceRoot string
	// File name of the scheduler random samples fixture
	schedulerSamplesFile string

	//===============
	// Shape
	//===============
	// Shape the scheduler samples are reshaped into
	schedulerSamplesShape tensor.Shape

	//===============
	// Integrity
	//===============
	// Algorithm used for fixture digests
	hashAlgo hashutil.HashAlgo
	// Expected digests keyed by fixture name. Fixtures without an entry
	// are not verified.
	checksums map[string]string

	//===============
	// Loading
	//===============
	// Maximum number of fixture files read at the same time
	concurrency int
}

type configDTO struct {
	ResourceRoot          string            `json:"resourceRoot,omitempty"`
	SchedulerSamplesFile  string            `json:"schedulerSamplesFile,omitempty"`
	SchedulerSamplesShape []int             `json:"schedulerSamplesShape,omitempty"`
	HashAlgo              string            `json:"hashAlgo,omitempty"`
	Checksums             map[string]string `json:"checksums,omitempty"`
	Concurrency           int               `json:"concurrency,omitempty"`
}

func newConfigFromDTO(dto configDTO, baseDir string) (Config, error) {
	cfg := WithDefault()

	if dto.ResourceRoot != "" {
		root := dto.ResourceRoot
		// relative roots in a config file are relative to that file
		if !filepath.IsAbs(root) {
			root = filepath.Join(baseDir, root)
		}
		cfg.resourceRoot = root
	}
	if dto.SchedulerSamplesFile != "" {
		cfg.schedulerSamplesFile = dto.SchedulerSamplesFile
	}
	if len(dto.SchedulerSamplesShape) > 0 {
		cfg.schedulerSamplesShape = tensor.Shape(dto.SchedulerSamplesShape)
	}
	if dto.HashAlgo != "" {
		cfg.hashAlgo = hashutil.HashAlgo(strings.ToLower(dto.HashAlgo))
	}
	if len(dto.Checksums) > 0 {
		cfg.checksums = dto.Checksums
	}
	if dto.Concurrency != 0 {
		cfg.concurrency = dto.Concurrency
	}

	return cfg.Build()
}

// WithConfigFile reads a JSON or YAML config file. Unset fields keep their
// defaults.
func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	switch strings.ToLower(fileutil.GetFileExtension(path)) {
	case "json", "yaml", "yml":
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnsupportedConfigFormat, path)
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}

	cfgDTO := configDTO{}
	// sigs.k8s.io/yaml accepts both JSON and YAML
	if err := yaml.Unmarshal(configContent, &cfgDTO); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	return newConfigFromDTO(cfgDTO, filepath.Dir(path))
}

// WithDefault creates a Config with default values for every field.
func WithDefault() *Config {
	defaultConfig := Config{
		resourceRoot:          DefaultResourceRoot(),
		schedulerSamplesFile:  DefaultSchedulerSamplesFile,
		schedulerSamplesShape: DefaultSchedulerSamplesShape(),
		hashAlgo:              hashutil.HashAlgoBLAKE3,
		checksums:             map[string]string{},
		concurrency:           4,
	}
	return &defaultConfig
}

func (c *Config) WithResourceRoot(root string) *Config {
	c.resourceRoot = root
	return c
}

func (c *Config) WithSchedulerSamplesFile(name string) *Config {
	c.schedulerSamplesFile = name
	return c
}

func (c *Config) WithSchedulerSamplesShape(shape tensor.Shape) *Config {
	c.schedulerSamplesShape = shape
	return c
}

func (c *Config) WithHashAlgo(algo hashutil.HashAlgo) *Config {
	c.hashAlgo = algo
	return c
}

func (c *Config) WithChecksums(checksums map[string]string) *Config {
	c.checksums = checksums
	return c
}

func (c *Config) WithConcurrency(concurrency int) *Config {
	c.concurrency = concurrency
	return c
}

// WithEnvOverrides applies environment overrides through lookup, which has
// the signature of os.LookupEnv.
func (c *Config) WithEnvOverrides(lookup func(string) (string, bool)) *Config {
	if root, ok := lookup(EnvResourceRoot); ok && root != "" {
		c.resourceRoot = root
	}
	return c
}

func (c *Config) Build() (Config, error) {
	if c.resourceRoot == "" {
		return Config{}, fmt.Errorf("%w: resourceRoot cannot be empty", ErrInvalidConfig)
	}
	if c.schedulerSamplesFile == "" {
		return Config{}, fmt.Errorf("%w: schedulerSamplesFile cannot be empty", ErrInvalidConfig)
	}
	if err := c.schedulerSamplesShape.Validate(); err != nil {
		return Config{}, fmt.Errorf("%w: schedulerSamplesShape: %s", ErrInvalidConfig, err.Error())
	}
	if !hashutil.IsSupported(c.hashAlgo) {
		return Config{}, fmt.Errorf("%w: unsupported hashAlgo %q", ErrInvalidConfig, c.hashAlgo)
	}
	if c.concurrency < 1 {
		return Config{}, fmt.Errorf("%w: concurrency must be at least 1, got %d", ErrInvalidConfig, c.concurrency)
	}
	if c.checksums == nil {
		c.checksums = map[string]string{}
	}

	built := *c
	built.schedulerSamplesShape = c.SchedulerSamplesShape()
	built.checksums = c.Checksums()
	return built, nil
}

func (c Config) ResourceRoot() string {
	return c.resourceRoot
}

func (c Config) SchedulerSamplesFile() string {
	return c.schedulerSamplesFile
}

func (c Config) SchedulerSamplesShape() tensor.Shape {
	shape := make(tensor.Shape, len(c.schedulerSamplesShape))
	copy(shape, c.schedulerSamplesShape)
	return shape
}

func (c Config) HashAlgo() hashutil.HashAlgo {
	return c.hashAlgo
}

func (c Config) Checksums() map[string]string {
	checksums := make(map[string]string, len(c.checksums))
	for k, v := range c.checksums {
		checksums[k] = v
	}
	return checksums
}

// Checksum returns the pinned digest for a fixture name, if any.
func (c Config) Checksum(name string) (string, bool) {
	sum, ok := c.checksums[name]
	return sum, ok
}

func (c Config) Concurrency() int {
	return c.concurrency
}

// Builder returns a builder seeded with c, so later layers (environment,
// flags) can override a config that was read from a file.
func (c Config) Builder() *Config {
	builder := c
	builder.schedulerSamplesShape = c.SchedulerSamplesShape()
	builder.checksums = c.Checksums()
	return &builder
}
