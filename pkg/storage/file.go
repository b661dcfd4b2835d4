package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/orneryd/ontomod/pkg/owl"
)

// ReadDocumentFile reads a JSON ontology document from path.
func ReadDocumentFile(path string) (*owl.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	var doc owl.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if doc.Name() == "" {
		return nil, fmt.Errorf("%s: document has no ontology IRI: %w", path, ErrInvalidID)
	}
	return &doc, nil
}

// WriteDocumentFile writes doc to path as indented JSON, creating parent
// directories as needed.
func WriteDocumentFile(path string, doc *owl.Document) error {
	if doc == nil {
		return ErrInvalidData
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", doc.Name(), err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// PutFiles reads each path and stores its document in engine. It returns the
// stored documents' descriptions in argument order.
func PutFiles(engine Engine, paths ...string) ([]DocumentInfo, error) {
	infos := make([]DocumentInfo, 0, len(paths))
	for _, path := range paths {
		doc, err := ReadDocumentFile(path)
		if err != nil {
			return nil, err
		}
		info, err := engine.PutDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("storing %s: %w", path, err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}
