package fixture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/julienkay/com.doji.diffusers/internal/config"
	"github.com/julienkay/com.doji.diffusers/internal/loader"
	"github.com/julienkay/com.doji.diffusers/internal/metadata"
	"github.com/julienkay/com.doji.diffusers/internal/tensor"
	"github.com/julienkay/com.doji.diffusers/pkg/fileutil"
	"github.com/julienkay/com.doji.diffusers/pkg/hashutil"
	"golang.org/x/sync/errgroup"
)

// Catalog resolves fixture names against a resource root and loads them.
// It holds no mutable state; calls are independent and safe to issue
// concurrently.
type Catalog struct {
	cfg          config.Config
	loader       *loader.Loader
	metadataSink metadata.MetadataSink
}

func NewCatalog(cfg config.Config, metadataSink metadata.MetadataSink) Catalog {
	if metadataSink == nil {
		metadataSink = &metadata.NoopSink{}
	}
	return Catalog{
		cfg:          cfg,
		loader:       loader.NewLoader(metadataSink),
		metadataSink: metadataSink,
	}
}

// DefaultCatalog uses the default config with environment overrides applied.
func DefaultCatalog() (Catalog, error) {
	cfg, err := config.WithDefault().WithEnvOverrides(os.LookupEnv).Build()
	if err != nil {
		return Catalog{}, err
	}
	return NewCatalog(cfg, nil), nil
}

// SchedulerSamples returns the deterministic scheduler samples from the
// default catalog, shaped (4, 3, 8, 8) unless configured otherwise.
func SchedulerSamples() (tensor.Tensor, error) {
	c, err := DefaultCatalog()
	if err != nil {
		return tensor.Tensor{}, err
	}
	return c.SchedulerSamples()
}

// Path resolves a fixture name under the resource root.
func (c Catalog) Path(name string) string {
	return filepath.Join(c.cfg.ResourceRoot(), filepath.FromSlash(name))
}

// Load returns the flat values of a fixture. A pinned checksum is verified
// before parsing.
func (c Catalog) Load(name string) ([]float64, error) {
	path := c.Path(name)
	if err := c.verify(name, path); err != nil {
		return nil, err
	}
	values, err := c.loader.Load(path)
	if err != nil {
		return nil, err
	}
	return values, nil
}

// LoadTensor returns a fixture as a 1-D tensor.
func (c Catalog) LoadTensor(name string) (tensor.Tensor, error) {
	values, err := c.Load(name)
	if err != nil {
		return tensor.Tensor{}, err
	}
	return tensor.Flat(values), nil
}

// LoadTensorWithShape returns a fixture reshaped to shape. A value count
// that does not fill the shape exactly fails with ErrCauseShapeMismatch.
func (c Catalog) LoadTensorWithShape(name string, shape tensor.Shape) (tensor.Tensor, error) {
	values, err := c.Load(name)
	if err != nil {
		return tensor.Tensor{}, err
	}
	t, err := tensor.New(shape, values)
	if err != nil {
		fixtureErr := &FixtureError{
			Message: err.Error(),
			Cause:   ErrCauseShapeMismatch,
			Name:    name,
			Err:     err,
		}
		c.recordError("Catalog.LoadTensorWithShape", fixtureErr, metadata.NewAttr(metadata.AttrShape, shape.String()))
		return tensor.Tensor{}, fixtureErr
	}
	return t, nil
}

// SchedulerSamples loads the configured scheduler samples fixture.
func (c Catalog) SchedulerSamples() (tensor.Tensor, error) {
	return c.LoadTensorWithShape(c.cfg.SchedulerSamplesFile(), c.cfg.SchedulerSamplesShape())
}

// Digest returns the hex digest of a fixture file using the configured
// algorithm.
func (c Catalog) Digest(name string) (string, error) {
	path := c.Path(name)
	if err := fileutil.CheckRegularFile(path); err != nil {
		return "", loader.FromFileError(path, err)
	}
	digest, err := hashutil.HashFile(path, c.cfg.HashAlgo())
	if err != nil {
		return "", &FixtureError{
			Message: err.Error(),
			Cause:   ErrCauseDigestFailure,
			Name:    name,
			Err:     err,
		}
	}
	return digest, nil
}

func (c Catalog) verify(name, path string) error {
	expected, ok := c.cfg.Checksum(name)
	if !ok {
		return nil
	}
	if err := fileutil.CheckRegularFile(path); err != nil {
		// the loader reports missing fixtures with its own cause
		return nil
	}
	actual, err := c.Digest(name)
	if err != nil {
		var fixtureErr *FixtureError
		if errors.As(err, &fixtureErr) {
			c.recordError("Catalog.Load", fixtureErr)
		}
		return err
	}
	if actual != expected {
		fixtureErr := &FixtureError{
			Message: fmt.Sprintf("expected %s %s, got %s", c.cfg.HashAlgo(), expected, actual),
			Cause:   ErrCauseChecksumMismatch,
			Name:    name,
		}
		c.recordError("Catalog.Load", fixtureErr,
			metadata.NewAttr(metadata.AttrHashAlgo, string(c.cfg.HashAlgo())),
			metadata.NewAttr(metadata.AttrDigest, actual),
		)
		return fixtureErr
	}
	return nil
}

func (c Catalog) recordError(action string, err *FixtureError, extra ...metadata.Attribute) {
	attrs := append([]metadata.Attribute{
		metadata.NewAttr(metadata.AttrFixture, err.Name),
	}, extra...)
	c.metadataSink.RecordError(
		time.Now(),
		"fixture",
		action,
		mapFixtureErrorToMetadataCause(err),
		err.Error(),
		attrs,
	)
}

// LoadFiles loads independent fixture files with at most limit reads in
// flight. Each file gets its own handle. The first failure cancels reads
// that have not started yet and is returned.
func (c Catalog) LoadFiles(ctx context.Context, paths []string, limit int) (map[string][]float64, error) {
	if limit < 1 {
		limit = 1
	}
	results := make([][]float64, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			values, err := c.loader.Load(path)
			if err != nil {
				return err
			}
			results[i] = values
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byPath := make(map[string][]float64, len(paths))
	for i, path := range paths {
		byPath[path] = results[i]
	}
	return byPath, nil
}
