package cmd

import (
	"fmt"
	"io"

	"github.com/julienkay/com.doji.diffusers/internal/config"
	"github.com/julienkay/com.doji.diffusers/internal/fixture"
	"github.com/julienkay/com.doji.diffusers/internal/tensor"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

var planeIndex []int

var loadCmd = &cobra.Command{
	Use:   "load PATH...",
	Short: "Parse fixture files and report their value counts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := InitConfigWithError()
		if err != nil {
			return err
		}
		catalog := newCatalog(cmd, cfg)

		results, err := catalog.LoadFiles(cmd.Context(), args, cfg.Concurrency())
		if err != nil {
			return err
		}
		for _, path := range args {
			printSummary(cmd.OutOrStdout(), path, tensor.Flat(results[path]))
		}
		return nil
	},
}

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "Load the scheduler random samples and report shape, digest, and distribution",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := InitConfigWithError()
		if err != nil {
			return err
		}
		catalog := newCatalog(cmd, cfg)

		samples, err := catalog.SchedulerSamples()
		if err != nil {
			return err
		}
		digest, err := catalog.Digest(cfg.SchedulerSamplesFile())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printSummary(out, catalog.Path(cfg.SchedulerSamplesFile()), samples)
		fmt.Fprintf(out, "  shape:  %s\n", samples.Shape())
		fmt.Fprintf(out, "  %s: %s\n", cfg.HashAlgo(), digest)

		if len(planeIndex) > 0 {
			plane, err := samples.Plane(planeIndex...)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "  plane %v:\n    %v\n", planeIndex, mat.Formatted(plane, mat.Prefix("    "), mat.Squeeze()))
		}
		return nil
	},
}

var digestCmd = &cobra.Command{
	Use:   "digest NAME...",
	Short: "Print fixture digests, relative to the resource root",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := InitConfigWithError()
		if err != nil {
			return err
		}
		catalog := newCatalog(cmd, cfg)
		for _, name := range args {
			digest, err := catalog.Digest(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s %s\n", digest, name, dimText("("+string(cfg.HashAlgo())+")"))
		}
		return nil
	},
}

func init() {
	samplesCmd.Flags().IntSliceVar(&planeIndex, "plane", []int{}, "print one trailing 2-D plane, selected by leading indices (e.g. --plane 0,1)")
}

func newCatalog(cmd *cobra.Command, cfg config.Config) fixture.Catalog {
	return fixture.NewCatalog(cfg, newMetadataSink(cmd.ErrOrStderr()))
}

func printSummary(out io.Writer, path string, t tensor.Tensor) {
	s := t.Summary()
	fmt.Fprintf(out, "%s %s: %d values (min=%.6g max=%.6g mean=%.6g std=%.6g)\n",
		okMark("✓"), path, s.Count, s.Min, s.Max, s.Mean, s.StdDev)
}
