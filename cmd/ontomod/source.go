package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orneryd/ontomod/pkg/owl"
	"github.com/orneryd/ontomod/pkg/storage"
)

// addSourceFlags registers the flags selecting the ontology a command reads.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("ontology", "", "Ontology document file (JSON)")
	cmd.Flags().String("stored", "", "Name of a stored ontology document to read instead of --ontology")
	cmd.Flags().StringSlice("import", nil, "Document files available as imports")
	cmd.Flags().Bool("use-store", false, "Resolve imports missing from --import files in the document store")
	cmd.Flags().String("out", "", "Output file (default: stdout)")
}

// openStore opens the persistent document store.
func (a *app) openStore() (storage.Engine, error) {
	opts := storage.BadgerOptions{
		DataDir:    a.cfg.Storage.DataDir,
		InMemory:   a.cfg.Storage.InMemory,
		SyncWrites: a.cfg.Storage.SyncWrites,
		Logger:     a.log,
	}
	engine, err := storage.NewBadgerEngineWithOptions(opts)
	if err != nil {
		return nil, err
	}
	return engine, nil
}

// loadSource loads the ontology selected by the source flags with its
// imports closure resolved. The returned close function releases the store
// when one was opened.
func (a *app) loadSource(cmd *cobra.Command) (*owl.Ontology, func(), error) {
	path, _ := cmd.Flags().GetString("ontology")
	stored, _ := cmd.Flags().GetString("stored")
	imports, _ := cmd.Flags().GetStringSlice("import")
	useStore, _ := cmd.Flags().GetBool("use-store")

	if (path == "") == (stored == "") {
		return nil, nil, fmt.Errorf("exactly one of --ontology or --stored is required")
	}

	local := storage.NewMemoryEngine()
	engines := []storage.Engine{local}
	closeAll := func() { _ = local.Close() }

	var name owl.IRI
	if path != "" {
		infos, err := storage.PutFiles(local, append([]string{path}, imports...)...)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		name = infos[0].Name
	} else {
		if _, err := storage.PutFiles(local, imports...); err != nil {
			closeAll()
			return nil, nil, err
		}
		name = owl.IRI(stored)
		useStore = true
	}

	if useStore {
		store, err := a.openStore()
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		engines = append(engines, store)
		closeAll = func() {
			_ = local.Close()
			_ = store.Close()
		}
	}

	ont, err := storage.NewLoader(engines...).Load(name)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	closure := ont.ImportsClosure()
	a.log.Info("ontology loaded",
		zap.String("ontology", string(name)),
		zap.Int("axioms", ont.AxiomCount()),
		zap.Int("imports", len(closure)-1))
	return ont, closeAll, nil
}

// writeOutput writes ont to --out, or to stdout as JSON.
func writeOutput(cmd *cobra.Command, ont *owl.Ontology) error {
	out, _ := cmd.Flags().GetString("out")
	doc := ont.ToDocument()
	if out != "" {
		return storage.WriteDocumentFile(out, doc)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
