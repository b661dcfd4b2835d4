package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orneryd/ontomod/pkg/inference"
	"github.com/orneryd/ontomod/pkg/reasoner"
	"github.com/orneryd/ontomod/pkg/termspec"
)

func newInferCmd(a *app) *cobra.Command {
	names := make([]string, 0, len(inference.AllKinds()))
	for _, k := range inference.AllKinds() {
		names = append(names, k.String())
	}

	cmd := &cobra.Command{
		Use:   "infer",
		Short: "Add inferred axioms to an ontology",
		Long: fmt.Sprintf(`Run a reasoner over an ontology and merge the inferred axioms it entails.

Inference kinds: %s.
Reasoners: %s.`, strings.Join(names, ", "), strings.Join(reasoner.Names(), ", ")),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInfer(cmd)
		},
	}
	addSourceFlags(cmd)
	cmd.Flags().String("reasoner", "", "Reasoner name (overrides config)")
	cmd.Flags().String("kinds", "", "Comma-separated inference kinds (overrides config)")
	cmd.Flags().Bool("annotate", false, "Mark added axioms as inferred")
	cmd.Flags().Bool("add-inverses", false, "Assert inverse property values before reasoning")
	cmd.Flags().StringSlice("excluded-types", nil, "Excluded type record files (YAML)")
	cmd.Flags().Bool("check", false, "Only report consistency and unsatisfiable classes")
	return cmd
}

func (a *app) runInfer(cmd *cobra.Command) error {
	if name, _ := cmd.Flags().GetString("reasoner"); name != "" {
		a.cfg.Reasoner.Name = name
	}
	if kinds, _ := cmd.Flags().GetString("kinds"); kinds != "" {
		a.cfg.Inference.Kinds = strings.Split(kinds, ",")
	}
	if cmd.Flags().Changed("annotate") {
		a.cfg.Inference.Annotate, _ = cmd.Flags().GetBool("annotate")
	}
	if cmd.Flags().Changed("add-inverses") {
		a.cfg.Inference.AddInverses, _ = cmd.Flags().GetBool("add-inverses")
	}
	kinds, err := a.cfg.InferenceKinds()
	if err != nil {
		return err
	}

	ont, closeSource, err := a.loadSource(cmd)
	if err != nil {
		return err
	}
	defer closeSource()

	rc := a.cfg.ReasonerManagerConfig()
	rc.Logger = a.log
	rc.Metrics = a.metrics
	mgr := reasoner.NewManager(ont, rc)
	defer mgr.Dispose()

	r, err := mgr.Get(a.cfg.Reasoner.Name)
	if err != nil {
		return err
	}

	if check, _ := cmd.Flags().GetBool("check"); check {
		return a.reportEntailment(cmd, r)
	}

	excluded := inference.NewExcludedTypes(r)
	files, _ := cmd.Flags().GetStringSlice("excluded-types")
	for _, path := range files {
		records, err := termspec.LoadExcludedTypes(path)
		if err != nil {
			return err
		}
		if err := termspec.ApplyExcludedTypes(excluded, ont, records); err != nil {
			return err
		}
	}

	adder := inference.NewAdder(ont, r, &inference.Config{Logger: a.log, Metrics: a.metrics})
	report, err := adder.AddInferredAxioms(kinds, inference.Options{
		Annotate:      a.cfg.Inference.Annotate,
		AddInverses:   a.cfg.Inference.AddInverses,
		ExcludedTypes: excluded,
	})
	if err != nil {
		return err
	}
	a.log.Info("inference report",
		zap.Stringers("active", report.Active),
		zap.Stringers("unsupported", report.Unsupported),
		zap.Int("generated", report.Generated),
		zap.Int("duplicates", report.Duplicates),
		zap.Int("trivial", report.Trivial),
		zap.Int("excluded", report.Excluded),
		zap.Int("merged", report.Merged),
		zap.Int("pruned", report.Pruned))
	return writeOutput(cmd, ont)
}

func (a *app) reportEntailment(cmd *cobra.Command, r reasoner.Reasoner) error {
	report, err := inference.CheckEntailmentErrors(r)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !report.Consistent {
		fmt.Fprintln(out, "ontology is inconsistent")
		return inference.ErrInconsistent
	}
	fmt.Fprintln(out, "ontology is consistent")
	for _, c := range report.Unsatisfiable {
		fmt.Fprintf(out, "unsatisfiable: %s\n", c.IRI)
	}
	return nil
}
