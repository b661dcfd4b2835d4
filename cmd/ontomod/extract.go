package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orneryd/ontomod/pkg/locality"
	"github.com/orneryd/ontomod/pkg/module"
	"github.com/orneryd/ontomod/pkg/owl"
	"github.com/orneryd/ontomod/pkg/termspec"
)

func newExtractCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract a module from an ontology",
		Long: `Extract a module containing the entities named in a term file.

Each record names an entity, the extraction method (locality or single),
the related entities to include and whether the entity is excluded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd)
		},
	}
	addSourceFlags(cmd)
	cmd.Flags().StringSlice("terms", nil, "Term record files (YAML)")
	cmd.Flags().String("iri", "", "IRI of the extracted module")
	cmd.Flags().String("module-type", "", "Locality module type: star, bottom or top (overrides config)")
	_ = cmd.MarkFlagRequired("terms")
	_ = cmd.MarkFlagRequired("iri")
	return cmd
}

func (a *app) runExtract(cmd *cobra.Command) error {
	termFiles, _ := cmd.Flags().GetStringSlice("terms")
	moduleIRI, _ := cmd.Flags().GetString("iri")
	if typ, _ := cmd.Flags().GetString("module-type"); typ != "" {
		a.cfg.Extraction.ModuleType = typ
	}
	moduleType, err := a.cfg.LocalityModuleType()
	if err != nil {
		return err
	}

	ont, closeSource, err := a.loadSource(cmd)
	if err != nil {
		return err
	}
	defer closeSource()

	x := module.New(ont, locality.New(moduleType, a.log), &module.Config{
		RemoveExcludedAnnotations: a.cfg.Extraction.RemoveExcludedAnnotations,
		Logger:                    a.log,
		Metrics:                   a.metrics,
	})

	start := time.Now()
	for _, path := range termFiles {
		records, err := termspec.LoadFile(path)
		if err != nil {
			return err
		}
		if err := termspec.Apply(x, records); err != nil {
			return err
		}
	}
	a.log.Info("signature built",
		zap.Int("locality", len(x.Signature(module.Locality))),
		zap.Int("single", len(x.Signature(module.Single))),
		zap.Int("excluded", len(x.Excluded())),
		zap.Duration("elapsed", time.Since(start)))

	mod, err := x.ExtractModule(owl.IRI(moduleIRI))
	if err != nil {
		return fmt.Errorf("extracting module: %w", err)
	}
	return writeOutput(cmd, mod)
}
