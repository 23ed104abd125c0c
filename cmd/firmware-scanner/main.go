package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-firmware-index/internal/config"
	"github.com/deploymenttheory/go-firmware-index/internal/logger"
	"github.com/deploymenttheory/go-firmware-index/internal/scanner"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "firmware-scanner",
		Short: "Inventory local firmware files",
		Long: `Scans a directory for firmware artifacts (.bin device images and .zip
desktop bundles), extracts embedded name/version/brand/description metadata
without executing anything, and writes a JSON catalog keyed by filename.`,
		PersistentPreRun: setupLogging,
		Run:              runScan,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML config file")

	// Logging flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose debugging output")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().String("log-file", "", "log to file instead of stdout")

	// Required flags
	rootCmd.Flags().StringP("dir", "d", "", "directory containing firmware files (required)")
	rootCmd.MarkFlagRequired("dir")

	// Optional flags
	rootCmd.Flags().StringP("output", "o", "firmwares.json", `output JSON file ("-" for stdout)`)
	rootCmd.Flags().IntP("workers", "w", 4, "number of scan workers")

	if err := rootCmd.Execute(); err != nil {
		logger.Errorf("Error executing command: %v", err)
		os.Exit(1)
	}
}

// setupLogging configures the logger based on command line flags
func setupLogging(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		logger.SetLevel(logger.LevelDebug)
		logger.Infof("Debug logging enabled")
	} else {
		logger.SetLevel(logger.LevelInfo)
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	if noColor {
		logger.DisableColors()
	}

	logFile, _ := cmd.Flags().GetString("log-file")
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			logger.Errorf("Failed to open log file: %v", err)
		} else {
			logger.DisableColors()
			logger.Initialize(file, file, file, file)
			logger.Infof("Logging to file: %s", logFile)
		}
	}
}

func runScan(cmd *cobra.Command, args []string) {
	cfg, err := parseConfig(cmd)
	if err != nil {
		logger.Errorf("Error parsing configuration: %v", err)
		os.Exit(1)
	}

	if cfg.Verbose {
		logger.SetLevel(logger.LevelDebug)
	}

	logger.Infof("Scanning %s for firmware files", cfg.ScanDir)

	s := scanner.New(cfg.Workers)
	catalog, err := s.Scan(cfg.ScanDir)
	if err != nil {
		logger.Errorf("Scan failed: %v", err)
		os.Exit(1)
	}

	if cfg.OutputFile == "-" {
		if err := catalog.Encode(os.Stdout); err != nil {
			logger.Errorf("Failed to write catalog: %v", err)
			os.Exit(1)
		}
	} else {
		if err := catalog.Save(cfg.OutputFile); err != nil {
			logger.Errorf("Failed to save catalog to %s: %v", cfg.OutputFile, err)
			os.Exit(1)
		}
		logger.Infof("Results saved to: %s", cfg.OutputFile)
	}

	stats := catalog.Stats()
	logger.Infof("Firmware files found: %d", stats.FilesStored)
	logger.Infof("Files by type: %v", stats.FilesByType)
}

// parseConfig merges the optional YAML config file with command line flags;
// flags win when set.
func parseConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config

	if cfgFile != "" {
		fileCfg, err := config.Load(cfgFile)
		if err != nil {
			return cfg, err
		}
		cfg = *fileCfg
	}

	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		cfg.ScanDir = dir
	}
	if cmd.Flags().Changed("output") || cfg.OutputFile == "" {
		cfg.OutputFile, _ = cmd.Flags().GetString("output")
	}
	if cmd.Flags().Changed("workers") || cfg.Workers == 0 {
		cfg.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Verbose = true
	}

	return cfg, nil
}
