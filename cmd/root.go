package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ffbuild/gngen/internal/config"
	"github.com/ffbuild/gngen/internal/credits"
	"github.com/ffbuild/gngen/internal/gn"
	"github.com/ffbuild/gngen/internal/includes"
	"github.com/ffbuild/gngen/internal/license"
	"github.com/ffbuild/gngen/internal/logging"
	"github.com/ffbuild/gngen/internal/partition"
	"github.com/ffbuild/gngen/internal/scanner"
)

const toolVersion = "1.0.0"

var (
	flagSourceDir        string
	flagBuildDir         string
	flagOutput           string
	flagConfig           string
	flagPrintLicenses    bool
	flagSkipLicenseCheck bool
	flagSkipCredits      bool
	flagVerbose          bool
)

var rootCmd = &cobra.Command{
	Use:   "gngen",
	Short: "GN build file generator for Chromium's FFmpeg",
	Long: `gngen creates the GN include file for building FFmpeg from source.

Rather than reverse engineering FFmpeg's configure scripts and Makefiles, it
scans finished build directories for object files and maps each one back to
the C or assembly source that produced it. Build FFmpeg for every supported
platform and architecture first; gngen then:

  • scans build.<arch>.<platform>/<target> directories for object files
  • decomposes the per configuration file lists into disjoint source sets
  • rewrites each set's conditions into the fewest equivalent wildcards
  • resolves the transitive include closure of everything that is built
  • vets the licenses of those files and regenerates CREDITS.chromium
  • writes ffmpeg_generated.gni`,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate ffmpeg_generated.gni from finished builds",
	Long: `Generate the GN include file from the object files of finished FFmpeg
builds.

Examples:
  gngen generate --source-dir third_party/ffmpeg --build-dir /tmp/ffmpeg_builds
  gngen generate -s . -b build_out --print-licenses
  gngen generate -s . -b build_out --skip-license-check --skip-credits -v`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&flagSourceDir, "source-dir", "s", ".", "Path to the FFmpeg source tree")
	generateCmd.Flags().StringVarP(&flagBuildDir, "build-dir", "b", ".", "Build root containing build.<arch>.<platform> directories")
	generateCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output path (default <source-dir>/ffmpeg_generated.gni)")
	generateCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "YAML file overriding the built in configuration")
	generateCmd.Flags().BoolVarP(&flagPrintLicenses, "print-licenses", "p", false, "Print the license of every checked file")
	generateCmd.Flags().BoolVar(&flagSkipLicenseCheck, "skip-license-check", false,
		"Skip the licensecheck.pl run. The generated file may then reference\n"+
			"sources that must not be statically linked, so never ship its output.")
	generateCmd.Flags().BoolVar(&flagSkipCredits, "skip-credits", false, "Do not regenerate CREDITS.chromium")
	generateCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug output")

	rootCmd.AddCommand(generateCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	sourceDir, err := resolveDir(flagSourceDir)
	if err != nil {
		return err
	}
	buildDir, err := resolveDir(flagBuildDir)
	if err != nil {
		return err
	}
	output := flagOutput
	if output == "" {
		output = filepath.Join(sourceDir, "ffmpeg_generated.gni")
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	log := logging.New(os.Stderr, flagVerbose)

	fmt.Fprintf(os.Stderr, "gngen v%s\n", toolVersion)

	result, err := scanner.New(sourceDir, buildDir, cfg.ExcludedObjects, log).Scan()
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	log.Infof("found %d build configuration(s)", len(result.Sets))

	sets := partition.Disjoint(result.Sets)
	partition.ReduceConditions(sets)
	log.Infof("decomposed into %d disjoint source set(s)", len(sets))

	if err := scanner.FixBasenameCollisions(sets, result.Sources, scanner.WriteRenameFile(sourceDir), log); err != nil {
		return err
	}

	var seeds []string
	for _, s := range sets {
		seeds = append(seeds, s.SortedSources()...)
	}
	var bar *progressbar.ProgressBar
	if !flagVerbose {
		bar = progressbar.Default(int64(len(seeds)), "resolving includes")
	}
	resolver := &includes.Resolver{
		SourceDir: sourceDir,
		Ignored:   cfg.IgnoredIncludes,
		Log:       log,
		Bar:       bar,
	}
	closure, err := resolver.Closure(seeds)
	if err != nil {
		return err
	}
	if bar != nil {
		bar.Finish()
	}

	// Forwarding files only mirror their originals, which the closure holds
	// as well. Keep them out of licensing and credits.
	toCheck := make([]string, 0, len(closure))
	for _, path := range closure {
		if !scanner.IsRenamedPath(path) {
			toCheck = append(toCheck, path)
		}
	}
	log.Infof("resolved %d files for license and credits checks", len(toCheck))

	if !flagSkipLicenseCheck {
		checker := &license.Checker{
			SourceDir:      sourceDir,
			ScriptPath:     cfg.LicensecheckPath,
			Allowed:        cfg.AllowedLicenses,
			UnknownAllowed: cfg.UnknownLicenseFiles,
			Log:            log,
		}
		entries, err := checker.Check(toCheck)
		if flagPrintLicenses {
			if perr := checker.PrintReport(os.Stdout, entries); perr != nil {
				return perr
			}
		}
		if err != nil {
			return fmt.Errorf("generate failed: %w", err)
		}
		log.Infof("license checks passed")
	}

	if !flagSkipCredits {
		log.Infof("updating credits")
		updater := credits.NewUpdater(sourceDir, log)
		for _, path := range toCheck {
			if err := updater.ProcessFile(path); err != nil {
				return err
			}
		}
		updater.Stats()
		if err := updater.WriteCredits(); err != nil {
			return err
		}
	}

	log.Infof("writing %s", output)
	if err := gn.WriteFile(output, sets); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	return nil
}

func resolveDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("cannot resolve directory %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("directory %q does not exist: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%q is not a directory", abs)
	}
	return abs, nil
}
