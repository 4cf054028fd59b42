// Package csvexport flattens the OFCO thesaurus into a semicolon separated
// table with one row per concept, parent and ICF mapping.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/coolbeans/ofco/pkg/config"
	"github.com/coolbeans/ofco/pkg/store"
)

// Header is the first row of the export.
var Header = []string{"IRI", "Label", "Parent", "hasICFuri", "hasICFcode", "ManualAssertion"}

// Row is one exported line.
type Row struct {
	IRI             string
	Label           string
	Parent          string
	ICFURI          string
	ICFCode         string
	ManualAssertion string
}

func (row Row) record() []string {
	return []string{row.IRI, row.Label, row.Parent, row.ICFURI, row.ICFCode, row.ManualAssertion}
}

// mapping is one ICF mapping of a concept.
type mapping struct {
	uri    string
	code   string
	manual string
}

// Rows builds the export rows. Every subject with an rdfs:label yields the
// product of its parents (or one empty parent) and its ICF mappings (or one
// empty mapping). Subjects and values are visited in sorted order. Labels are
// trimmed so the writer never has to quote them for surrounding spaces.
func Rows(graph *store.TripleStore, properties config.Properties) []Row {
	var rows []Row

	for _, subject := range graph.SubjectsWith(store.RDFSLabel, "") {
		iri := store.Lexical(subject)
		label := strings.TrimSpace(store.Lexical(graph.Value(subject, store.RDFSLabel)))

		parents := lexicals(graph.Objects(subject, store.RDFSSubClassOf))
		if len(parents) == 0 {
			parents = []string{""}
		}

		mappings := axiomMappings(graph, subject, properties)
		if len(mappings) == 0 {
			mappings = directMappings(graph, subject, properties)
		}

		for _, parent := range parents {
			for _, m := range mappings {
				rows = append(rows, Row{
					IRI:             iri,
					Label:           label,
					Parent:          parent,
					ICFURI:          m.uri,
					ICFCode:         m.code,
					ManualAssertion: m.manual,
				})
			}
		}
	}

	return rows
}

// axiomMappings reads the owl:Axiom annotations of subject's hasICFuri
// assertions, which carry the ICF code and the manual assertion evidence.
func axiomMappings(graph *store.TripleStore, subject string, properties config.Properties) []mapping {
	hasICFURI := store.IRI(properties.HasICFURI)

	var mappings []mapping
	for _, source := range graph.FindPattern(store.NewTriplePattern("", store.OWLAnnotatedSource, subject)) {
		axiom := source.Subject
		if !graph.Exists(axiom, store.RDFType, store.OWLAxiom) {
			continue
		}
		if graph.Value(axiom, store.OWLAnnotatedProperty) != hasICFURI {
			continue
		}

		mappings = append(mappings, mapping{
			uri:    store.Lexical(graph.Value(axiom, store.OWLAnnotatedTarget)),
			code:   store.Lexical(graph.Value(axiom, store.IRI(properties.HasICFCode))),
			manual: store.Lexical(graph.Value(axiom, store.IRI(properties.ManualAssertion))),
		})
	}
	return mappings
}

// directMappings pairs every direct hasICFuri value with every direct
// hasICFcode value.
func directMappings(graph *store.TripleStore, subject string, properties config.Properties) []mapping {
	uris := lexicals(graph.Objects(subject, store.IRI(properties.HasICFURI)))
	codes := lexicals(graph.Objects(subject, store.IRI(properties.HasICFCode)))
	if len(codes) == 0 {
		codes = []string{""}
	}

	var mappings []mapping
	for _, uri := range uris {
		for _, code := range codes {
			mappings = append(mappings, mapping{uri: uri, code: code})
		}
	}

	if len(mappings) == 0 {
		mappings = []mapping{{}}
	}
	return mappings
}

func lexicals(terms []string) []string {
	values := make([]string, 0, len(terms))
	for _, term := range terms {
		values = append(values, store.Lexical(term))
	}
	return values
}

// Write writes the header and rows with ';' separators and CRLF line ends.
func Write(writer io.Writer, rows []Row) error {
	csvWriter := csv.NewWriter(writer)
	csvWriter.Comma = ';'
	csvWriter.UseCRLF = true

	if err := csvWriter.Write(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := csvWriter.Write(row.record()); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", row.IRI, err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// Format returns the export as a string.
func Format(rows []Row) (string, error) {
	var builder strings.Builder
	if err := Write(&builder, rows); err != nil {
		return "", err
	}
	return builder.String(), nil
}

// WriteFile builds the whole document and writes it to path once.
func WriteFile(path string, rows []Row) error {
	document, err := Format(rows)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(document), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
