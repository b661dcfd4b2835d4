package termspec

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/orneryd/ontomod/pkg/inference"
	"github.com/orneryd/ontomod/pkg/owl"
)

// ExcludedTypeRecord names a class, and optionally its superclasses, that
// inferred class assertions must not use.
type ExcludedTypeRecord struct {
	ClassID             string
	ExcludeClass        bool
	ExcludeSuperclasses bool
	Ignore              bool

	Source string
	Row    int
}

type rawExcludedType struct {
	ID                  string  `yaml:"id"`
	ExcludeClass        *string `yaml:"exclude class"`
	ExcludeSuperclasses string  `yaml:"exclude superclasses"`
	Ignore              string  `yaml:"ignore"`
}

// LoadExcludedTypes reads the excluded type records of a YAML file.
func LoadExcludedTypes(path string) ([]ExcludedTypeRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read excluded types file: %w", err)
	}
	return ParseExcludedTypes(path, data)
}

// ParseExcludedTypes reads excluded type records from YAML data.
func ParseExcludedTypes(source string, data []byte) ([]ExcludedTypeRecord, error) {
	var records []ExcludedTypeRecord
	err := eachRow(source, data, func(row int, node *yaml.Node) error {
		var raw rawExcludedType
		if err := node.Decode(&raw); err != nil {
			return err
		}
		rec := ExcludedTypeRecord{
			ClassID:             strings.TrimSpace(raw.ID),
			ExcludeClass:        raw.ExcludeClass == nil || isTrue(*raw.ExcludeClass),
			ExcludeSuperclasses: isTrue(raw.ExcludeSuperclasses),
			Ignore:              isTrue(raw.Ignore),
			Source:              source,
			Row:                 row,
		}
		if !rec.Ignore && rec.ClassID == "" {
			return fmt.Errorf(`the "id" field is required`)
		}
		records = append(records, rec)
		return nil
	})
	return records, err
}

// ApplyExcludedTypes resolves each record's class in ont and adds it to x.
func ApplyExcludedTypes(x *inference.ExcludedTypes, ont *owl.Ontology, records []ExcludedTypeRecord) error {
	for _, rec := range records {
		if rec.Ignore {
			continue
		}
		e, err := ont.GetExistingEntity(rec.ClassID)
		if err == nil && e.Kind != owl.Class {
			err = fmt.Errorf("%s is a %s, not a class", rec.ClassID, e.Kind)
		}
		if err != nil {
			return &SpecificationError{
				Source: rec.Source,
				Row:    rec.Row,
				Msg: fmt.Sprintf("could not find the class %q in the main ontology or its imports closure: %v",
					rec.ClassID, err),
				Err: err,
			}
		}
		if err := x.Add(e, rec.ExcludeClass, rec.ExcludeSuperclasses); err != nil {
			return &SpecificationError{Source: rec.Source, Row: rec.Row, Err: err}
		}
	}
	return nil
}
