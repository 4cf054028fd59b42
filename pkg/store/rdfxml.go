package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coolbeans/ofco/pkg/xmltree"
)

// RDFXMLSerializer converts a TripleStore into W3C RDF/XML format, one
// rdf:Description per subject.
type RDFXMLSerializer struct {
	prefixMappings []PrefixMapping
	prefixes       prefixTable
}

// RDFXMLOption is a functional option for configuring the RDFXMLSerializer.
type RDFXMLOption func(*RDFXMLSerializer)

// NewRDFXMLSerializer creates an RDFXMLSerializer with standard namespace declarations.
func NewRDFXMLSerializer(options ...RDFXMLOption) *RDFXMLSerializer {
	serializer := &RDFXMLSerializer{
		prefixMappings: DefaultPrefixMappings(),
	}

	for _, option := range options {
		option(serializer)
	}

	serializer.prefixes = newPrefixTable(serializer.prefixMappings)

	return serializer
}

// WithRDFXMLPrefix adds or overrides a namespace prefix mapping.
func WithRDFXMLPrefix(prefix, namespace string) RDFXMLOption {
	return func(serializer *RDFXMLSerializer) {
		serializer.prefixMappings = append(serializer.prefixMappings, PrefixMapping{
			Prefix:    prefix,
			Namespace: namespace,
		})
	}
}

// WithoutRDFXMLDefaultPrefixes keeps only the rdf prefix, which RDF/XML requires.
func WithoutRDFXMLDefaultPrefixes() RDFXMLOption {
	return func(serializer *RDFXMLSerializer) {
		serializer.prefixMappings = []PrefixMapping{{Prefix: "rdf", Namespace: NamespaceRDF}}
	}
}

// Serialize converts all triples in the store to RDF/XML format.
func (serializer *RDFXMLSerializer) Serialize(store *TripleStore) string {
	var builder strings.Builder

	subjectGroups := groupTriplesBySubject(store)

	serializer.writeXMLHeader(&builder)

	for _, subject := range sortedKeys(subjectGroups) {
		serializer.writeDescription(&builder, subject, subjectGroups[subject])
	}

	builder.WriteString("</rdf:RDF>\n")

	return builder.String()
}

// writeXMLHeader writes the XML declaration and opening rdf:RDF element with namespace attributes.
func (serializer *RDFXMLSerializer) writeXMLHeader(builder *strings.Builder) {
	builder.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	builder.WriteString("<rdf:RDF")

	for _, mapping := range serializer.prefixes.mappings {
		fmt.Fprintf(builder, "\n    xmlns:%s=\"%s\"", mapping.Prefix, xmltree.Escape(mapping.Namespace))
	}

	builder.WriteString(">\n")
}

// writeDescription writes an rdf:Description block for a single subject.
func (serializer *RDFXMLSerializer) writeDescription(
	builder *strings.Builder,
	subject string,
	predicateObjectMap map[string][]string,
) {
	builder.WriteString("\n")
	fmt.Fprintf(builder, "  <rdf:Description %s>\n", nodeAttribute(subject, "rdf:about"))

	for _, predicate := range sortPredicatesTypeFirst(predicateObjectMap) {
		objects := predicateObjectMap[predicate]
		sort.Strings(objects)

		for _, object := range objects {
			serializer.writeProperty(builder, predicate, object)
		}
	}

	builder.WriteString("  </rdf:Description>\n")
}

// writeProperty writes a single predicate-object pair as an XML element.
func (serializer *RDFXMLSerializer) writeProperty(builder *strings.Builder, predicate string, object string) {
	elementName, namespaceDeclaration := serializer.predicateToElementName(predicate)

	switch Kind(object) {
	case KindIRI, KindBlank:
		fmt.Fprintf(builder, "    <%s%s %s/>\n", elementName, namespaceDeclaration, nodeAttribute(object, "rdf:resource"))
	default:
		literal, _ := ParseLiteral(object)
		attributes := ""
		switch {
		case literal.Lang != "":
			attributes = fmt.Sprintf(" xml:lang=\"%s\"", xmltree.Escape(literal.Lang))
		case literal.Datatype != "":
			attributes = fmt.Sprintf(" rdf:datatype=\"%s\"", xmltree.Escape(literal.Datatype))
		}
		fmt.Fprintf(builder, "    <%s%s%s>%s</%s>\n",
			elementName, namespaceDeclaration, attributes, xmltree.Escape(literal.Text), elementName)
	}
}

// predicateToElementName converts a predicate term to a qualified XML element
// name. Predicates outside the registered namespaces get an inline ns0 declaration,
// split after the last '#' or '/'.
func (serializer *RDFXMLSerializer) predicateToElementName(predicate string) (string, string) {
	iri, _ := IRIValue(predicate)

	if prefix, localName, ok := serializer.prefixes.split(iri, isValidXMLName); ok {
		return prefix + ":" + localName, ""
	}

	cut := strings.LastIndexAny(iri, "#/")
	namespace, localName := iri[:cut+1], iri[cut+1:]
	return "ns0:" + localName, fmt.Sprintf(" xmlns:ns0=\"%s\"", xmltree.Escape(namespace))
}

// nodeAttribute renders an IRI as iriAttribute="…" and a blank node as
// rdf:nodeID="…".
func nodeAttribute(term, iriAttribute string) string {
	if Kind(term) == KindBlank {
		return fmt.Sprintf("rdf:nodeID=\"%s\"", xmltree.Escape(strings.TrimPrefix(term, "_:")))
	}
	iri, _ := IRIValue(term)
	return fmt.Sprintf("%s=\"%s\"", iriAttribute, xmltree.Escape(iri))
}
