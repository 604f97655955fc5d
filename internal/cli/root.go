package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/julienkay/com.doji.diffusers/internal/build"
	"github.com/julienkay/com.doji.diffusers/internal/config"
	"github.com/julienkay/com.doji.diffusers/internal/metadata"
	"github.com/julienkay/com.doji.diffusers/pkg/hashutil"
	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	resourceRoot string
	hashAlgo     string
	concurrency  int
	verbose      bool
)

var (
	okMark   = color.New(color.FgGreen).SprintFunc()
	failMark = color.New(color.FgRed).SprintFunc()
	dimText  = color.New(color.Faint).SprintFunc()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "Load and inspect diffusion scheduler test fixtures.",
	Long: `fixtures reads the comma-separated numeric fixtures used by the
scheduler test suites, validates them, and reports their shape, digest,
and value distribution.

The resource root defaults to ../com.doji.diffusers/Tests/Editor/Resources
and can be set with --resource-root, a config file, or the
DIFFUSERS_FIXTURE_ROOT environment variable.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", failMark("error:"), err)
		os.Exit(1)
	}
}

// ExecuteArgs runs the root command with args, writing to out and errOut.
func ExecuteArgs(args []string, out, errOut io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = build.Describe()
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path, JSON or YAML (e.g., ./fixtures.yaml)")
	rootCmd.PersistentFlags().StringVar(&resourceRoot, "resource-root", "", "directory fixture names are resolved against")
	rootCmd.PersistentFlags().StringVar(&hashAlgo, "hash-algo", "", "digest algorithm: blake3 or sha256")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 0, "maximum number of fixture files read at the same time")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log fixture events to stderr")

	rootCmd.AddCommand(loadCmd, samplesCmd, digestCmd)
}

// InitConfigWithError builds the config from, in increasing precedence,
// defaults, the config file, the environment, and CLI flags.
func InitConfigWithError() (config.Config, error) {
	configBuilder := config.WithDefault()

	if cfgFile != "" {
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return config.Config{}, fmt.Errorf("error initializing config from file: %w", err)
		}
		configBuilder = cfg.Builder()
	}

	configBuilder = configBuilder.WithEnvOverrides(os.LookupEnv)

	if resourceRoot != "" {
		configBuilder = configBuilder.WithResourceRoot(resourceRoot)
	}

	if hashAlgo != "" {
		configBuilder = configBuilder.WithHashAlgo(hashutil.HashAlgo(hashAlgo))
	}

	if concurrency > 0 {
		configBuilder = configBuilder.WithConcurrency(concurrency)
	}

	return configBuilder.Build()
}

func newMetadataSink(errOut io.Writer) metadata.MetadataSink {
	if !verbose {
		return &metadata.NoopSink{}
	}
	handler := slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelDebug})
	return metadata.NewRecorder(slog.New(handler))
}

func ResetFlags() {
	cfgFile = ""
	resourceRoot = ""
	hashAlgo = ""
	concurrency = 0
	verbose = false
	planeIndex = []int{}
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetResourceRootForTest(root string) {
	resourceRoot = root
}

func SetHashAlgoForTest(algo string) {
	hashAlgo = algo
}

func SetConcurrencyForTest(conc int) {
	concurrency = conc
}
