// Package document reads and writes authored documents: an ordered list of
// static and dynamic sections with their test cases. The on-disk format is
// YAML or JSON, chosen by file extension; the engine itself has no
// persistence format and consumes the decoded structures directly.
package document

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"dosedoc/internal/types"
)

// Document is one patient reference document under authoring.
type Document struct {
	Title    string           `json:"title" yaml:"title"`
	Sections []*types.Section `json:"sections" yaml:"sections"`
}

// Load reads a document from disk, decoding by extension (.json, else YAML).
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc Document
	if isJSON(path) {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse document %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse document %s: %w", path, err)
		}
	}

	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("document %s: %w", path, err)
	}
	return &doc, nil
}

// Save writes the document next to its test cases, format by extension.
func Save(path string, doc *Document) error {
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = yaml.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate enforces the structural rules the engine assumes: unique section
// IDs and no test cases on static sections.
func (d *Document) Validate() error {
	seen := make(map[int]bool, len(d.Sections))
	for _, sec := range d.Sections {
		if sec == nil {
			continue
		}
		if seen[sec.ID] {
			return fmt.Errorf("duplicate section id %d", sec.ID)
		}
		seen[sec.ID] = true

		switch sec.Type {
		case types.SectionStatic:
			if len(sec.TestCases) > 0 {
				return fmt.Errorf("static section %d carries test cases", sec.ID)
			}
		case types.SectionDynamic:
		default:
			return fmt.Errorf("section %d has unknown type %q", sec.ID, sec.Type)
		}
	}
	return nil
}

// Section returns the section with the given id, or nil when absent.
func (d *Document) Section(id int) *types.Section {
	for _, sec := range d.Sections {
		if sec != nil && sec.ID == id {
			return sec
		}
	}
	return nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
