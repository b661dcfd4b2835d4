// Package termspec reads term specification files: ordered lists of the
// entities a module should import, or of the classes inferred type
// assertions should avoid.
//
// Term files are YAML sequences:
//
//	- id: obo:PO_0000003
//	  method: locality          # or "single"; default locality
//	  related: descendants, equivalents
//	- id: obo:PO_0025131
//	  exclude: yes
//	- id: obo:PO_0009011
//	  ignore: true              # skipped entirely
//
// Excluded type files list classes:
//
//	- id: obo:PO_0000003
//	  exclude superclasses: true
//	  exclude class: false      # default true
//
// Boolean fields accept t, true, y and yes in any case; anything else is
// false. Every validation failure is a *SpecificationError naming the file and
// line of the offending record.
package termspec

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/orneryd/ontomod/pkg/graph"
	"github.com/orneryd/ontomod/pkg/module"
)

// Record asks for one entity, with its related entities, to be imported
// into or excluded from a module.
type Record struct {
	EntityID      string
	Method        module.Method
	RelationKinds graph.RelationSet
	Exclude       bool
	Ignore        bool

	// Source and Row locate the record for error messages.
	Source string
	Row    int
}

// SpecificationError reports a malformed or unusable record.
type SpecificationError struct {
	Source string
	Row    int
	Msg    string
	Err    error
}

func (e *SpecificationError) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("error in term specification at %s, row %d: %s", e.Source, e.Row, msg)
}

func (e *SpecificationError) Unwrap() error { return e.Err }

type rawRecord struct {
	ID      string `yaml:"id"`
	Method  string `yaml:"method"`
	Related string `yaml:"related"`
	Exclude string `yaml:"exclude"`
	Ignore  string `yaml:"ignore"`
}

// LoadFile reads the term records of a YAML file.
func LoadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read term file: %w", err)
	}
	return Parse(path, data)
}

// Parse reads term records from YAML data. source names the data in errors.
func Parse(source string, data []byte) ([]Record, error) {
	var records []Record
	err := eachRow(source, data, func(row int, node *yaml.Node) error {
		var raw rawRecord
		if err := node.Decode(&raw); err != nil {
			return err
		}
		rec, err := raw.record()
		if err != nil {
			return err
		}
		rec.Source, rec.Row = source, row
		records = append(records, rec)
		return nil
	})
	return records, err
}

func (raw rawRecord) record() (Record, error) {
	rec := Record{
		EntityID: strings.TrimSpace(raw.ID),
		Exclude:  isTrue(raw.Exclude),
		Ignore:   isTrue(raw.Ignore),
		Method:   module.Locality,
	}
	if rec.Ignore {
		return rec, nil
	}
	if rec.EntityID == "" {
		return rec, errors.New(`the "id" field is required`)
	}
	if strings.TrimSpace(raw.Method) != "" {
		m, err := module.ParseMethod(raw.Method)
		if err != nil {
			return rec, err
		}
		rec.Method = m
	}
	kinds, err := graph.ParseRelationKinds(raw.Related)
	if err != nil {
		return rec, err
	}
	rec.RelationKinds = kinds
	return rec, nil
}

// eachRow calls fn for every item of the top-level sequence in data, turning
// its errors into SpecificationErrors.
func eachRow(source string, data []byte, fn func(row int, node *yaml.Node) error) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return &SpecificationError{Source: source, Msg: "invalid YAML", Err: err}
	}
	if len(doc.Content) == 0 {
		return nil
	}
	seq := doc.Content[0]
	if seq.Kind != yaml.SequenceNode {
		return &SpecificationError{Source: source, Row: seq.Line, Msg: "expected a list of records"}
	}
	for _, item := range seq.Content {
		if item.Kind != yaml.MappingNode {
			return &SpecificationError{Source: source, Row: item.Line, Msg: "expected a mapping"}
		}
		if err := fn(item.Line, item); err != nil {
			return &SpecificationError{Source: source, Row: item.Line, Err: err}
		}
	}
	return nil
}

var trueStrings = []string{"t", "true", "y", "yes"}

func isTrue(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range trueStrings {
		if s == t {
			return true
		}
	}
	return false
}

// Apply feeds records to x in order, skipping ignored ones. Failures are
// returned as a *SpecificationError wrapping the cause, so an unknown entity
// still matches owl.ErrEntityNotFound.
func Apply(x *module.Extractor, records []Record) error {
	for _, rec := range records {
		if rec.Ignore {
			continue
		}
		var err error
		if rec.Exclude {
			err = x.ExcludeEntity(rec.EntityID, rec.RelationKinds)
		} else {
			err = x.AddEntity(rec.EntityID, rec.Method, rec.RelationKinds)
		}
		if err != nil {
			return &SpecificationError{Source: rec.Source, Row: rec.Row, Err: err}
		}
	}
	return nil
}
