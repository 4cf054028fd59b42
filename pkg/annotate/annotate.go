// Package annotate converts Orphanet disorder records into an RDF/XML
// fragment that annotates each ORDO disorder class with its OFCO disability
// concepts.
//
// The document is accumulated line by line and written once:
//
//	<owl:Class rdf:about="http://www.orpha.net/ORDO/Orphanet_589">
//	  <ofco:hasDisabilityAnnotation rdf:parseType="Resource">
//	    <ofco:concernsDisability rdf:resource="https://w3id.org/ofco/C01"/>
//	    <ofco:lossOfAbility rdf:datatype="http://www.w3.org/2001/XMLSchema#boolean">true</ofco:lossOfAbility>
//	  </ofco:hasDisabilityAnnotation>
//	</owl:Class>
package annotate

import (
	"fmt"
	"os"
	"strings"

	"github.com/coolbeans/ofco/pkg/config"
	"github.com/coolbeans/ofco/pkg/disorder"
	"github.com/coolbeans/ofco/pkg/thesaurus"
	"github.com/coolbeans/ofco/pkg/xmltree"
)

// LossOfAbility is the tri-state loss of ability flag of an association.
type LossOfAbility int

const (
	LossUnknown LossOfAbility = iota
	LossTrue
	LossFalse
)

// ParseLossOfAbility maps the Orphanet codes: "y" is true, "n" is false and
// every other value, "u" included, is unknown.
func ParseLossOfAbility(code string) LossOfAbility {
	switch code {
	case "y":
		return LossTrue
	case "n":
		return LossFalse
	}
	return LossUnknown
}

func (loss LossOfAbility) String() string {
	switch loss {
	case LossTrue:
		return "true"
	case LossFalse:
		return "false"
	}
	return "unknown"
}

// Warner receives the operator warnings raised while building. The console
// Reporter satisfies it.
type Warner interface {
	Warn(format string, args ...any)
}

type discardWarner struct{}

func (discardWarner) Warn(string, ...any) {}

// Annotator builds annotation documents against one pair of lookup tables.
type Annotator struct {
	mappings   *thesaurus.Mappings
	namespaces config.Namespaces
	warner     Warner
	revised    bool
}

// Option configures an Annotator.
type Option func(*Annotator)

// WithWarner routes warnings to warner instead of discarding them.
func WithWarner(warner Warner) Option {
	return func(annotator *Annotator) {
		annotator.warner = warner
	}
}

// WithRevised adds the disorder group and specific management fields.
func WithRevised(revised bool) Option {
	return func(annotator *Annotator) {
		annotator.revised = revised
	}
}

// New returns an Annotator resolving codes through mappings.
func New(mappings *thesaurus.Mappings, namespaces config.Namespaces, options ...Option) *Annotator {
	annotator := &Annotator{
		mappings:   mappings,
		namespaces: namespaces,
		warner:     discardWarner{},
	}

	for _, option := range options {
		option(annotator)
	}

	return annotator
}

// Result is a built document and its counters.
type Result struct {
	Lines []string

	// Disorders is the number of class blocks emitted.
	Disorders int
	// Annotations is the number of annotation blocks emitted.
	Annotations int
	// UnmappedDisabilities counts annotations emitted without a disability reference.
	UnmappedDisabilities int
}

// Render joins the lines with "\n", without a trailing newline.
func (result *Result) Render() string {
	return strings.Join(result.Lines, "\n")
}

// WriteFile writes the rendered document to path in a single call.
func (result *Result) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(result.Render()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Build emits one class block per disorder that has both an Orphanet code
// and an English name, in input order.
func (annotator *Annotator) Build(disorders []disorder.Disorder) *Result {
	result := &Result{}
	annotator.writeHeader(result)

	for _, record := range disorders {
		if record.OrphaCode == "" || record.Name == "" {
			continue
		}
		annotator.writeDisorder(result, record)
		result.Disorders++
	}

	result.Lines = append(result.Lines, "", "</rdf:RDF>")
	return result
}

func (annotator *Annotator) writeHeader(result *Result) {
	namespaces := annotator.namespaces
	result.Lines = append(result.Lines,
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<rdf:RDF`,
		namespaceLine("rdf", namespaces.RDF, false),
		namespaceLine("owl", namespaces.OWL, false),
		namespaceLine("ordo", namespaces.ORDO, false),
		namespaceLine("ofco", namespaces.OFCO, false),
		namespaceLine("icf", namespaces.ICF, false),
		namespaceLine("xsd", namespaces.XSD, true),
	)
}

func namespaceLine(prefix, namespace string, last bool) string {
	line := fmt.Sprintf(`    xmlns:%s="%s"`, prefix, xmltree.Escape(namespace))
	if last {
		line += ">"
	}
	return line
}

func (annotator *Annotator) writeDisorder(result *Result, record disorder.Disorder) {
	result.Lines = append(result.Lines,
		"",
		fmt.Sprintf("  <!-- Disorder: %s (Orphanet_%s) -->",
			xmltree.EscapeComment(record.Name), xmltree.EscapeComment(record.OrphaCode)),
		fmt.Sprintf(`  <owl:Class rdf:about="%s">`, xmltree.Escape(annotator.namespaces.ClassIRI(record.OrphaCode))),
	)

	if annotator.revised {
		annotator.writeRevisedFields(result, record)
	}

	for _, association := range record.Associations {
		if association.Disability.ID == "" || association.Disability.Name == "" {
			continue
		}
		annotator.writeAssociation(result, association)
		result.Annotations++
	}

	result.Lines = append(result.Lines, "  </owl:Class>")
}

func (annotator *Annotator) writeRevisedFields(result *Result, record disorder.Disorder) {
	if iri, ok := annotator.resolve(record.Group); ok {
		result.Lines = append(result.Lines, resourceLine("    ", "ofco:hasDisorderGroup", iri))
	}

	if record.SpecificManagement != "" {
		required := strings.HasPrefix(strings.ToLower(record.SpecificManagement), "y")
		result.Lines = append(result.Lines, annotator.booleanLine("    ", "ofco:requiresSpecificManagement", required))
	}
}

func (annotator *Annotator) writeAssociation(result *Result, association disorder.Association) {
	result.Lines = append(result.Lines,
		"",
		fmt.Sprintf("    <!-- Disability: %s -->", xmltree.EscapeComment(association.Disability.Name)),
		`    <ofco:hasDisabilityAnnotation rdf:parseType="Resource">`,
	)

	if iri, ok := annotator.mappings.Disability(association.Disability.ID); ok {
		result.Lines = append(result.Lines, resourceLine("      ", "ofco:concernsDisability", iri))
	} else {
		annotator.warner.Warn("Disability ID %s not found in ontology", association.Disability.ID)
		result.UnmappedDisabilities++
	}

	references := []struct {
		element   string
		reference disorder.CodedReference
	}{
		{"ofco:hasFrequency", association.Frequency},
		{"ofco:hasTemporality", association.Temporality},
		{"ofco:hasSeverity", association.Severity},
	}
	for _, entry := range references {
		if iri, ok := annotator.resolve(entry.reference); ok {
			result.Lines = append(result.Lines, resourceLine("      ", entry.element, iri))
		}
	}

	if association.LossOfAbility != "" {
		switch loss := ParseLossOfAbility(association.LossOfAbility); loss {
		case LossTrue, LossFalse:
			result.Lines = append(result.Lines, annotator.booleanLine("      ", "ofco:lossOfAbility", loss == LossTrue))
		default:
			result.Lines = append(result.Lines, "      <ofco:lossOfAbility>"+loss.String()+"</ofco:lossOfAbility>")
		}
	}

	result.Lines = append(result.Lines, "    </ofco:hasDisabilityAnnotation>")
}

// resolve looks a coded reference up in the reference number table.
func (annotator *Annotator) resolve(reference disorder.CodedReference) (string, bool) {
	if reference.OrphaNumber == "" {
		return "", false
	}
	return annotator.mappings.OrphaNumber(reference.OrphaNumber)
}

func resourceLine(indent, element, iri string) string {
	return fmt.Sprintf(`%s<%s rdf:resource="%s"/>`, indent, element, xmltree.Escape(iri))
}

func (annotator *Annotator) booleanLine(indent, element string, value bool) string {
	return fmt.Sprintf(`%s<%s rdf:datatype="%s">%t</%s>`,
		indent, element, xmltree.Escape(annotator.namespaces.XSD+"boolean"), value, element)
}
