package store

import (
	"bytes"
	"encoding/json"
	"sort"
)

// JSONLDContext maps prefixes to namespaces in the @context of a document.
type JSONLDContext map[string]string

// JSONLDSerializer converts a TripleStore into JSON-LD, one node object per
// subject.
type JSONLDSerializer struct {
	prefixMappings []PrefixMapping
	prefixes       prefixTable
	compactForm    bool // If false, produce expanded JSON-LD without @context
}

// JSONLDOption is a functional option for configuring the JSONLDSerializer.
type JSONLDOption func(*JSONLDSerializer)

// NewJSONLDSerializer creates a compact-form JSONLDSerializer with standard
// prefix declarations.
func NewJSONLDSerializer(options ...JSONLDOption) *JSONLDSerializer {
	serializer := &JSONLDSerializer{
		prefixMappings: DefaultPrefixMappings(),
		compactForm:    true,
	}

	for _, option := range options {
		option(serializer)
	}

	serializer.prefixes = newPrefixTable(serializer.prefixMappings)

	return serializer
}

// WithJSONLDPrefix adds or overrides a prefix mapping.
func WithJSONLDPrefix(prefix, namespace string) JSONLDOption {
	return func(serializer *JSONLDSerializer) {
		serializer.prefixMappings = append(serializer.prefixMappings, PrefixMapping{
			Prefix:    prefix,
			Namespace: namespace,
		})
	}
}

// WithoutJSONLDDefaultPrefixes clears default prefixes so only custom ones are used.
func WithoutJSONLDDefaultPrefixes() JSONLDOption {
	return func(serializer *JSONLDSerializer) {
		serializer.prefixMappings = nil
	}
}

// WithExpandedForm configures the serializer to output expanded JSON-LD: full
// IRIs, no @context and every value in an array.
func WithExpandedForm() JSONLDOption {
	return func(serializer *JSONLDSerializer) {
		serializer.compactForm = false
	}
}

// BuildContext returns the @context declaring every registered prefix.
func (serializer *JSONLDSerializer) BuildContext() JSONLDContext {
	context := make(JSONLDContext, len(serializer.prefixes.mappings))
	for _, mapping := range serializer.prefixes.mappings {
		context[mapping.Prefix] = mapping.Namespace
	}
	return context
}

// JSONLDDocument represents a complete compact JSON-LD document.
type JSONLDDocument struct {
	Context JSONLDContext            `json:"@context,omitempty"`
	Graph   []map[string]interface{} `json:"@graph"`
}

// Serialize converts all triples in the store to JSON-LD. Nodes follow the
// sorted subject order and object values are sorted within each property.
func (serializer *JSONLDSerializer) Serialize(store *TripleStore) ([]byte, error) {
	subjectGroups := groupTriplesBySubject(store)

	graph := make([]map[string]interface{}, 0, len(subjectGroups))
	for _, subject := range sortedKeys(subjectGroups) {
		graph = append(graph, serializer.buildNode(subject, subjectGroups[subject]))
	}

	var document interface{} = graph
	if serializer.compactForm {
		document = JSONLDDocument{Context: serializer.BuildContext(), Graph: graph}
	}

	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(document); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func (serializer *JSONLDSerializer) buildNode(subject string, predicateObjectMap map[string][]string) map[string]interface{} {
	node := map[string]interface{}{"@id": serializer.nodeID(subject)}

	for _, predicate := range sortPredicatesTypeFirst(predicateObjectMap) {
		objects := predicateObjectMap[predicate]
		sort.Strings(objects)

		if predicate == RDFType {
			types := make([]string, 0, len(objects))
			for _, object := range objects {
				types = append(types, serializer.nodeID(object))
			}
			if serializer.compactForm && len(types) == 1 {
				node["@type"] = types[0]
			} else {
				node["@type"] = types
			}
			continue
		}

		values := make([]interface{}, 0, len(objects))
		for _, object := range objects {
			values = append(values, serializer.value(object))
		}

		key := serializer.formatIRI(Lexical(predicate))
		if serializer.compactForm && len(values) == 1 {
			node[key] = values[0]
		} else {
			node[key] = values
		}
	}

	return node
}

// nodeID returns the identifier of an IRI or blank node term.
func (serializer *JSONLDSerializer) nodeID(term string) string {
	if iri, ok := IRIValue(term); ok {
		return serializer.formatIRI(iri)
	}
	return term
}

// value returns the JSON-LD value object of an object term. Compact form
// writes plain literals as bare strings.
func (serializer *JSONLDSerializer) value(term string) interface{} {
	if Kind(term) != KindLiteral {
		return map[string]string{"@id": serializer.nodeID(term)}
	}

	literal, _ := ParseLiteral(term)
	switch {
	case literal.Lang != "":
		return map[string]string{"@value": literal.Text, "@language": literal.Lang}
	case literal.Datatype != "":
		return map[string]string{"@value": literal.Text, "@type": serializer.formatIRI(literal.Datatype)}
	case serializer.compactForm:
		return literal.Text
	}
	return map[string]string{"@value": literal.Text}
}

// formatIRI compacts an IRI with the registered prefixes in compact form.
func (serializer *JSONLDSerializer) formatIRI(iri string) string {
	if !serializer.compactForm {
		return iri
	}
	if prefix, localName, ok := serializer.prefixes.split(iri, isValidLocalName); ok {
		return prefix + ":" + localName
	}
	return iri
}
