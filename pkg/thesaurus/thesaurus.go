// Package thesaurus extracts the code lookup tables of the OFCO thesaurus:
// the Orphanet disability code table and the Orphanet reference number table
// used for frequency, temporality, severity and disorder group concepts.
//
// A concept declares its code through a value restriction inside its
// equivalent class expression:
//
//	<owl:Class rdf:about="https://w3id.org/ofco/C01">
//	  <owl:equivalentClass>
//	    <owl:Restriction>
//	      <owl:onProperty rdf:resource="https://w3id.org/ofco#hasORPHANETDBInternalReference"/>
//	      <owl:hasValue>D01</owl:hasValue>
//	    </owl:Restriction>
//	  </owl:equivalentClass>
//	</owl:Class>
package thesaurus

import (
	"fmt"
	"strings"

	"github.com/coolbeans/ofco/pkg/config"
	"github.com/coolbeans/ofco/pkg/store"
	"github.com/coolbeans/ofco/pkg/xmltree"
)

// Table names one of the two lookup tables.
type Table string

const (
	// TableDisabilities maps Orphanet disability codes to concept IRIs.
	TableDisabilities Table = "Disabilities"
	// TableOrphaNumbers maps Orphanet reference numbers to concept IRIs.
	TableOrphaNumbers Table = "OrphaNumbers"
)

// Duplicate records a code that was registered again with a different IRI.
// The later IRI replaces the earlier one in the table.
type Duplicate struct {
	Table    Table
	Code     string
	Previous string
	Current  string
}

func (duplicate Duplicate) String() string {
	return fmt.Sprintf("%s code %s: %s replaced by %s", duplicate.Table, duplicate.Code, duplicate.Previous, duplicate.Current)
}

// Mappings holds both lookup tables. It is read-only once built.
type Mappings struct {
	Disabilities map[string]string
	OrphaNumbers map[string]string

	// Duplicates lists overwritten codes in document order.
	Duplicates []Duplicate
}

// NewMappings returns empty tables.
func NewMappings() *Mappings {
	return &Mappings{
		Disabilities: make(map[string]string),
		OrphaNumbers: make(map[string]string),
	}
}

// Disability returns the concept IRI for a disability code.
func (mappings *Mappings) Disability(code string) (string, bool) {
	iri, ok := mappings.Disabilities[code]
	return iri, ok
}

// OrphaNumber returns the concept IRI for an Orphanet reference number.
func (mappings *Mappings) OrphaNumber(code string) (string, bool) {
	iri, ok := mappings.OrphaNumbers[code]
	return iri, ok
}

func (mappings *Mappings) record(table Table, code, iri string) {
	target := mappings.Disabilities
	if table == TableOrphaNumbers {
		target = mappings.OrphaNumbers
	}

	if previous, exists := target[code]; exists && previous != iri {
		mappings.Duplicates = append(mappings.Duplicates, Duplicate{
			Table:    table,
			Code:     code,
			Previous: previous,
			Current:  iri,
		})
	}
	target[code] = iri
}

// Extract walks every owl:Class with an rdf:about below root and records the
// value restrictions of its owl:equivalentClass. When the equivalence holds an
// owl:intersectionOf, only restrictions inside the intersection are read.
// Restrictions on properties other than the two configured ones are ignored.
func Extract(root *xmltree.Element, properties config.Properties) *Mappings {
	mappings := NewMappings()

	for _, class := range root.Descendants(store.NamespaceOWL, "Class") {
		classIRI, ok := class.LookupAttr(store.NamespaceRDF, "about")
		if !ok || classIRI == "" {
			continue
		}

		equivalent := class.Child(store.NamespaceOWL, "equivalentClass")
		if equivalent == nil {
			continue
		}

		scope := equivalent
		if intersection := equivalent.Descendant(store.NamespaceOWL, "intersectionOf"); intersection != nil {
			scope = intersection
		}

		for _, restriction := range scope.Descendants(store.NamespaceOWL, "Restriction") {
			onProperty := restriction.Child(store.NamespaceOWL, "onProperty")
			hasValue := restriction.Child(store.NamespaceOWL, "hasValue")
			if onProperty == nil || hasValue == nil {
				continue
			}

			code := strings.TrimSpace(hasValue.Text)
			if code == "" {
				continue
			}

			switch onProperty.AttrValue(store.NamespaceRDF, "resource") {
			case properties.DisabilityReference:
				mappings.record(TableDisabilities, code, classIRI)
			case properties.OrphaNumber:
				mappings.record(TableOrphaNumbers, code, classIRI)
			}
		}
	}

	return mappings
}

// Load parses the thesaurus file at path and extracts its tables. A missing
// file yields an error wrapping config.ErrInputNotFound.
func Load(path string, properties config.Properties) (*Mappings, error) {
	if err := config.RequireFile(path); err != nil {
		return nil, err
	}

	root, err := xmltree.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse thesaurus %s: %w", path, err)
	}

	return Extract(root, properties), nil
}
