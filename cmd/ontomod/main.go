// Package main provides the ontomod CLI entry point.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/orneryd/ontomod/pkg/config"
	"github.com/orneryd/ontomod/pkg/metrics"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app is the state shared by every command of one invocation.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Metrics
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "ontomod",
		Short: "ontomod - OWL module extraction and inferred axiom consolidation",
		Long: `ontomod builds small ontology modules from large OWL ontologies and
merges reasoner-inferred axioms back into ontologies.

Features:
  • Relationship closures over class and property hierarchies
  • Syntactic locality and single-entity module extraction
  • Inferred axiom generation with redundancy pruning
  • Persistent ontology document store`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}
	rootCmd.PersistentFlags().String("config", "", "YAML configuration file")
	rootCmd.PersistentFlags().String("data-dir", "", "Document store directory (overrides config)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	// Version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ontomod v%s (%s)\n", version, commit)
		},
	})

	rootCmd.AddCommand(newExtractCmd(a))
	rootCmd.AddCommand(newInferCmd(a))
	rootCmd.AddCommand(newStoreCmd(a))
	return rootCmd
}

// setup loads configuration and builds the logger and metrics.
func (a *app) setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	var err error
	if path != "" {
		a.cfg, err = config.LoadFile(path)
		if err != nil {
			return err
		}
	} else {
		a.cfg = config.LoadFromEnv()
	}
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		a.cfg.Storage.DataDir = dir
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		a.cfg.Logging.Level = "debug"
	}
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a.log, err = buildLogger(a.cfg.Logging)
	if err != nil {
		return err
	}
	a.metrics = metrics.New()
	a.log.Debug("configuration loaded", zap.Stringer("config", a.cfg))
	return nil
}

// teardown writes metrics and flushes the logger.
func (a *app) teardown() error {
	if a.cfg != nil && a.cfg.Metrics.File != "" {
		if err := a.metrics.WriteTextfile(a.cfg.Metrics.File); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return nil
}

func buildLogger(lc config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(lc.Level))
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = lc.Format
	if lc.Format == "console" {
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	zc.DisableStacktrace = level > zapcore.DebugLevel
	return zc.Build()
}
