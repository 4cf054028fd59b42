// Package check holds the read-only validations of the OFCO thesaurus and
// its ICF export. Each check produces a plain-text report.
package check

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/coolbeans/ofco/pkg/store"
)

// Entity kinds reported by the label check.
const (
	KindClass              = "Class"
	KindAnnotationProperty = "AnnotationProperty"
)

// UnlabelledEntity is a class or annotation property without an English label.
type UnlabelledEntity struct {
	IRI  string
	Kind string
}

func (entity UnlabelledEntity) String() string {
	return fmt.Sprintf("%s [%s]", entity.IRI, entity.Kind)
}

// LabelReport is the result of the English label check.
type LabelReport struct {
	Source  string
	Checked int
	Missing []UnlabelledEntity
}

// LabelChecker finds entities lacking an English rdfs:label.
type LabelChecker struct {
	log zerolog.Logger
}

// NewLabelChecker returns a checker logging its progress to log.
func NewLabelChecker(log zerolog.Logger) *LabelChecker {
	return &LabelChecker{log: log}
}

// Check inspects every IRI typed owl:Class or owl:AnnotationProperty. Blank
// nodes are ignored. An entity typed both ways is reported as an
// AnnotationProperty.
func (checker *LabelChecker) Check(graph *store.TripleStore, source string) *LabelReport {
	checker.log.Info().Int("triples", graph.Count()).Msg("Graph loaded")

	entities := make(map[string]bool)
	for _, entityType := range []string{store.OWLClass, store.OWLAnnotationProperty} {
		for _, subject := range graph.SubjectsWith(store.RDFType, entityType) {
			if store.IsIRI(subject) {
				entities[subject] = true
			}
		}
	}
	checker.log.Info().Int("entities", len(entities)).Msg("Collected classes and annotation properties")

	report := &LabelReport{Source: source, Checked: len(entities)}
	for entity := range entities {
		if hasEnglishLabel(graph, entity) {
			continue
		}

		kind := KindClass
		if graph.Exists(entity, store.RDFType, store.OWLAnnotationProperty) {
			kind = KindAnnotationProperty
		}
		iri, _ := store.IRIValue(entity)
		report.Missing = append(report.Missing, UnlabelledEntity{IRI: iri, Kind: kind})
	}

	sort.Slice(report.Missing, func(i, j int) bool {
		return report.Missing[i].String() < report.Missing[j].String()
	})

	checker.log.Info().Int("missing", len(report.Missing)).Msg("Label analysis complete")
	return report
}

func hasEnglishLabel(graph *store.TripleStore, entity string) bool {
	for _, label := range graph.Objects(entity, store.RDFSLabel) {
		literal, ok := store.ParseLiteral(label)
		if ok && IsEnglish(literal.Lang) {
			return true
		}
	}
	return false
}

// IsEnglish reports whether a language tag starts with "en" in any case, so
// en, en-US, eng and enm all count. Well-formed tags are compared on their
// canonical primary language.
func IsEnglish(tag string) bool {
	if parsed, err := language.Parse(tag); err == nil {
		base, _ := parsed.Base()
		if strings.HasPrefix(base.String(), "en") {
			return true
		}
	}
	return strings.HasPrefix(strings.ToLower(tag), "en")
}

// Render formats the report.
func (report *LabelReport) Render() string {
	var builder strings.Builder

	builder.WriteString("Report: Entities missing English rdfs:label\n")
	fmt.Fprintf(&builder, "Source file: %s\n", report.Source)
	fmt.Fprintf(&builder, "Total found: %d\n", len(report.Missing))
	builder.WriteString(strings.Repeat("=", 60) + "\n\n")

	if len(report.Missing) == 0 {
		builder.WriteString("No entities found missing English labels.\n")
		return builder.String()
	}

	for _, entity := range report.Missing {
		builder.WriteString(entity.String() + "\n")
	}
	return builder.String()
}

// WriteFile writes the rendered report to path.
func (report *LabelReport) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(report.Render()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
