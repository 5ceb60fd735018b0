package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/gomesh/internal/config"
	"github.com/philipparndt/gomesh/internal/loader"
	"github.com/philipparndt/gomesh/internal/logging"
	"github.com/philipparndt/gomesh/version"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	configPath  string
	verbose     bool
	veryVerbose bool
	quiet       bool

	// cfg is the effective configuration, set before any subcommand runs
	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "gomesh",
	Short: "Inspect, clean and convert triangle meshes",
	Long: `gomesh is a command-line tool for polygon meshes stored as STL or PLY files.
It reports dimensions, areas, volumes, normals and edge statistics, welds
duplicate vertices with an octree index and writes binary STL.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		level, err := logging.Resolve(veryVerbose, verbose, quiet, loaded.Log.Level)
		if err != nil {
			return err
		}
		logging.Setup(cmd.ErrOrStderr(), level)
		cfg = loaded
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "TOML configuration file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log progress information")
	flags.BoolVar(&veryVerbose, "vv", false, "Log debug information")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Only log errors")
}

// loadOptions returns the loader options from the configuration.
// clean forces duplicate removal on top of the configured default.
func loadOptions(clean bool) loader.Options {
	return loader.Options{
		RemoveDuplicates: clean || cfg.Load.RemoveDuplicates,
		Octree:           cfg.Octree.Options(),
		STLHeader:        cfg.STL.Header,
	}
}

// numbers formats counts with digit grouping
var numbers = message.NewPrinter(language.English)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
