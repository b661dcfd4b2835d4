package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orneryd/ontomod/pkg/owl"
	"github.com/orneryd/ontomod/pkg/storage"
)

func newStoreCmd(a *app) *cobra.Command {
	storeCmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the ontology document store",
	}

	storeCmd.AddCommand(&cobra.Command{
		Use:   "put FILE...",
		Short: "Store ontology document files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(engine storage.Engine) error {
				infos, err := storage.PutFiles(engine, args...)
				if err != nil {
					return err
				}
				for _, info := range infos {
					a.log.Info("document stored",
						zap.String("name", string(info.Name)),
						zap.Int("axioms", info.Axioms),
						zap.String("revision", info.Revision))
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", info.Name, info.Revision)
				}
				return nil
			})
		},
	})

	getCmd := &cobra.Command{
		Use:   "get NAME",
		Short: "Print a stored ontology document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(engine storage.Engine) error {
				doc, err := engine.GetDocument(owl.IRI(args[0]))
				if err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				if out, _ := cmd.Flags().GetString("out"); out != "" {
					return storage.WriteDocumentFile(out, doc)
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(doc)
			})
		},
	}
	getCmd.Flags().String("out", "", "Output file (default: stdout)")
	storeCmd.AddCommand(getCmd)

	storeCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored ontology documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(engine storage.Engine) error {
				infos, err := engine.ListDocuments()
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tAXIOMS\tIMPORTS\tUPDATED")
				for _, info := range infos {
					imports := make([]string, len(info.Imports))
					for i, imp := range info.Imports {
						imports[i] = string(imp)
					}
					fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
						info.Name, info.Axioms, strings.Join(imports, ","), info.UpdatedAt.Format("2006-01-02T15:04:05Z"))
				}
				return w.Flush()
			})
		},
	})

	deleteCmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a stored ontology document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			name := owl.IRI(args[0])
			return a.withStore(func(engine storage.Engine) error {
				importers, err := engine.Importers(name)
				if err != nil {
					return err
				}
				if len(importers) > 0 && !force {
					return fmt.Errorf("%s is imported by %d stored documents (first: %s); use --force to delete anyway",
						name, len(importers), importers[0])
				}
				if err := engine.DeleteDocument(name); err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				a.log.Info("document deleted", zap.String("name", string(name)))
				return nil
			})
		},
	}
	deleteCmd.Flags().Bool("force", false, "Delete even when other stored documents import it")
	storeCmd.AddCommand(deleteCmd)

	return storeCmd
}

func (a *app) withStore(fn func(engine storage.Engine) error) error {
	engine, err := a.openStore()
	if err != nil {
		return err
	}
	defer engine.Close()
	return fn(engine)
}
