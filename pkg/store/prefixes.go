package store

import (
	"sort"
	"strings"
	"unicode"
)

// PrefixMapping associates a short prefix label with its full namespace URI.
type PrefixMapping struct {
	Prefix    string
	Namespace string
}

// DefaultPrefixMappings returns the prefixes declared by the serializers
// unless WithoutDefaultPrefixes is given.
func DefaultPrefixMappings() []PrefixMapping {
	return []PrefixMapping{
		{Prefix: "rdf", Namespace: NamespaceRDF},
		{Prefix: "rdfs", Namespace: NamespaceRDFS},
		{Prefix: "owl", Namespace: NamespaceOWL},
		{Prefix: "xsd", Namespace: NamespaceXSD},
		{Prefix: "skos", Namespace: NamespaceSKOS},
		{Prefix: "obo", Namespace: NamespaceOBO},
		{Prefix: "ofco", Namespace: NamespaceOFCO},
		{Prefix: "ordo", Namespace: NamespaceORDO},
	}
}

// prefixTable indexes prefix mappings in both directions. Later mappings for
// the same prefix override earlier ones.
type prefixTable struct {
	mappings       []PrefixMapping
	prefixIndex    map[string]string // prefix -> namespace
	namespaceIndex map[string]string // namespace -> prefix
}

func newPrefixTable(mappings []PrefixMapping) prefixTable {
	table := prefixTable{
		prefixIndex:    make(map[string]string, len(mappings)),
		namespaceIndex: make(map[string]string, len(mappings)),
	}

	for _, mapping := range mappings {
		if previous, exists := table.prefixIndex[mapping.Prefix]; exists {
			delete(table.namespaceIndex, previous)
		}
		table.prefixIndex[mapping.Prefix] = mapping.Namespace
		table.namespaceIndex[mapping.Namespace] = mapping.Prefix
	}

	for prefix, namespace := range table.prefixIndex {
		table.mappings = append(table.mappings, PrefixMapping{Prefix: prefix, Namespace: namespace})
	}
	sort.Slice(table.mappings, func(i, j int) bool {
		return table.mappings[i].Prefix < table.mappings[j].Prefix
	})

	return table
}

// split divides a full IRI into a registered prefix and a local name that
// passes valid. The longest matching namespace wins.
func (table prefixTable) split(fullIRI string, valid func(string) bool) (string, string, bool) {
	bestPrefix := ""
	bestNamespace := ""

	for namespace, prefix := range table.namespaceIndex {
		if !strings.HasPrefix(fullIRI, namespace) || len(namespace) <= len(bestNamespace) {
			continue
		}
		if valid(fullIRI[len(namespace):]) {
			bestPrefix = prefix
			bestNamespace = namespace
		}
	}

	if bestNamespace == "" {
		return "", "", false
	}
	return bestPrefix, fullIRI[len(bestNamespace):], true
}

// isValidLocalName accepts the conservative subset of Turtle local names and
// XML NCNames that both serializers can write unescaped.
func isValidLocalName(localName string) bool {
	if localName == "" {
		return false
	}

	for index, char := range localName {
		switch {
		case unicode.IsLetter(char), char == '_':
		case unicode.IsDigit(char), char == '-', char == '.':
			if index == 0 && char != '_' && !unicode.IsDigit(char) {
				return false
			}
		default:
			return false
		}
	}

	return !strings.HasSuffix(localName, ".")
}

// isValidXMLName is isValidLocalName without leading digits, which XML
// element names forbid.
func isValidXMLName(localName string) bool {
	if localName == "" || unicode.IsDigit([]rune(localName)[0]) {
		return false
	}
	return isValidLocalName(localName)
}
