// Package rdfxml loads RDF/XML documents, such as the Protégé-written OFCO
// thesaurus, into a store.TripleStore.
//
// The decoder covers the grammar used by OWL tools: node elements with
// rdf:about, rdf:ID or rdf:nodeID, typed node elements, property attributes,
// rdf:resource and rdf:nodeID objects, rdf:datatype and inherited xml:lang,
// xml:base, rdf:li and the Resource, Collection and Literal parse types.
// Reification through rdf:ID on property elements is not supported and the
// attribute is ignored.
package rdfxml

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/coolbeans/ofco/pkg/store"
	"github.com/coolbeans/ofco/pkg/xmltree"
)

// Decoder converts an element tree into triples. A Decoder is used for one
// document; blank node labels are numbered per Decoder.
type Decoder struct {
	tripleStore *store.TripleStore
	blankCount  int
}

// scope is the xml:base and xml:lang in force for an element.
type scope struct {
	base string
	lang string
}

// Parse reads an RDF/XML document into a new TripleStore.
func Parse(reader io.Reader) (*store.TripleStore, error) {
	root, err := xmltree.Parse(reader)
	if err != nil {
		return nil, err
	}
	return Load(root)
}

// ParseFile reads the RDF/XML document at path.
func ParseFile(path string) (*store.TripleStore, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	tripleStore, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return tripleStore, nil
}

// Load converts an already parsed document. The root may be rdf:RDF or a
// single node element.
func Load(root *xmltree.Element) (*store.TripleStore, error) {
	decoder := &Decoder{tripleStore: store.NewTripleStore()}
	if err := decoder.Decode(root); err != nil {
		return nil, err
	}
	return decoder.tripleStore, nil
}

// Decode adds the triples of the document rooted at root to the decoder's store.
func (decoder *Decoder) Decode(root *xmltree.Element) error {
	rootScope := scope{}.enter(root)

	if !root.Is(store.NamespaceRDF, "RDF") {
		_, err := decoder.nodeElement(root, scope{})
		return err
	}

	for _, child := range root.Children {
		if _, err := decoder.nodeElement(child, rootScope); err != nil {
			return err
		}
	}
	return nil
}

// nodeElement emits the triples of a node element and returns its subject term.
func (decoder *Decoder) nodeElement(element *xmltree.Element, parent scope) (string, error) {
	current := parent.enter(element)
	subject := decoder.subjectOf(element, current)

	if !element.Is(store.NamespaceRDF, "Description") {
		if element.Name.Space == "" {
			return "", fmt.Errorf("node element <%s> has no namespace", element.Name.Local)
		}
		decoder.add(subject, store.RDFType, store.IRI(element.Name.Space+element.Name.Local))
	}

	decoder.propertyAttributes(subject, element, current)

	listIndex := 0
	for _, child := range element.Children {
		if err := decoder.propertyElement(subject, child, current, &listIndex); err != nil {
			return "", err
		}
	}

	return subject, nil
}

func (decoder *Decoder) subjectOf(element *xmltree.Element, current scope) string {
	if about, ok := element.LookupAttr(store.NamespaceRDF, "about"); ok {
		return store.IRI(current.resolve(about))
	}
	if id, ok := element.LookupAttr(store.NamespaceRDF, "ID"); ok {
		return store.IRI(current.resolve("#" + id))
	}
	if nodeID, ok := element.LookupAttr(store.NamespaceRDF, "nodeID"); ok {
		return store.Blank(nodeID)
	}
	return decoder.newBlank()
}

// propertyAttributes turns the non-syntax attributes of an element into
// literal-valued properties of subject; rdf:type gives an IRI object.
func (decoder *Decoder) propertyAttributes(subject string, element *xmltree.Element, current scope) {
	for _, attr := range element.Attr {
		space, local := attr.Name.Space, attr.Name.Local
		switch {
		case space == "", space == "xmlns", space == xmltree.XMLNamespace:
			continue
		case space == store.NamespaceRDF && isSyntaxAttribute(local):
			continue
		case space == store.NamespaceRDF && local == "type":
			decoder.add(subject, store.RDFType, store.IRI(current.resolve(attr.Value)))
		default:
			decoder.add(subject, store.IRI(space+local), store.LangLiteral(attr.Value, current.lang))
		}
	}
}

func (decoder *Decoder) propertyElement(subject string, element *xmltree.Element, parent scope, listIndex *int) error {
	current := parent.enter(element)

	if element.Name.Space == "" {
		return fmt.Errorf("property element <%s> has no namespace", element.Name.Local)
	}

	predicate := store.IRI(element.Name.Space + element.Name.Local)
	if element.Is(store.NamespaceRDF, "li") {
		*listIndex++
		predicate = store.IRI(store.NamespaceRDF + "_" + strconv.Itoa(*listIndex))
	}

	if parseType, ok := element.LookupAttr(store.NamespaceRDF, "parseType"); ok {
		return decoder.parseTypeProperty(subject, predicate, parseType, element, current)
	}

	switch len(element.Children) {
	case 0:
	case 1:
		object, err := decoder.nodeElement(element.Children[0], current)
		if err != nil {
			return err
		}
		decoder.add(subject, predicate, object)
		return nil
	default:
		return fmt.Errorf("property element <%s> holds %d node elements, want 1",
			element.Name.Local, len(element.Children))
	}

	if object, ok := decoder.resourceObject(element, current); ok {
		decoder.add(subject, predicate, object)
		decoder.propertyAttributes(object, element, current)
		return nil
	}

	if datatype, ok := element.LookupAttr(store.NamespaceRDF, "datatype"); ok {
		decoder.add(subject, predicate, store.TypedLiteral(element.Text, current.resolve(datatype)))
		return nil
	}

	decoder.add(subject, predicate, store.LangLiteral(element.Text, current.lang))
	return nil
}

// resourceObject returns the object of an empty property element that
// names a resource, either explicitly or by carrying property attributes.
func (decoder *Decoder) resourceObject(element *xmltree.Element, current scope) (string, bool) {
	if resource, ok := element.LookupAttr(store.NamespaceRDF, "resource"); ok {
		return store.IRI(current.resolve(resource)), true
	}
	if nodeID, ok := element.LookupAttr(store.NamespaceRDF, "nodeID"); ok {
		return store.Blank(nodeID), true
	}
	for _, attr := range element.Attr {
		space := attr.Name.Space
		if space == "" || space == "xmlns" || space == xmltree.XMLNamespace {
			continue
		}
		if space == store.NamespaceRDF && isSyntaxAttribute(attr.Name.Local) {
			continue
		}
		return decoder.newBlank(), true
	}
	return "", false
}

func (decoder *Decoder) parseTypeProperty(subject, predicate, parseType string, element *xmltree.Element, current scope) error {
	switch parseType {
	case "Resource":
		object := decoder.newBlank()
		decoder.add(subject, predicate, object)

		listIndex := 0
		for _, child := range element.Children {
			if err := decoder.propertyElement(object, child, current, &listIndex); err != nil {
				return err
			}
		}
		return nil

	case "Collection":
		items := make([]string, 0, len(element.Children))
		for _, child := range element.Children {
			item, err := decoder.nodeElement(child, current)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		decoder.add(subject, predicate, decoder.list(items))
		return nil

	default:
		decoder.add(subject, predicate, store.TypedLiteral(innerXML(element), store.RDFXMLLiteral))
		return nil
	}
}

// list builds an rdf:first/rdf:rest chain and returns its head.
func (decoder *Decoder) list(items []string) string {
	head := store.RDFNil
	for index := len(items) - 1; index >= 0; index-- {
		cell := decoder.newBlank()
		decoder.add(cell, store.RDFFirst, items[index])
		decoder.add(cell, store.RDFRest, head)
		head = cell
	}
	return head
}

func (decoder *Decoder) add(subject, predicate, object string) {
	// Terms built here are always well formed.
	_ = decoder.tripleStore.Add(subject, predicate, object)
}

func (decoder *Decoder) newBlank() string {
	decoder.blankCount++
	return store.Blank("genid" + strconv.Itoa(decoder.blankCount))
}

func isSyntaxAttribute(local string) bool {
	switch local {
	case "about", "ID", "nodeID", "resource", "parseType", "datatype", "aboutEach", "aboutEachPrefix", "bagID":
		return true
	}
	return false
}

// enter applies the xml:base and xml:lang of element.
func (parent scope) enter(element *xmltree.Element) scope {
	current := parent
	if base, ok := element.LookupAttr(xmltree.XMLNamespace, "base"); ok {
		current.base = parent.resolve(base)
	}
	if lang, ok := element.LookupAttr(xmltree.XMLNamespace, "lang"); ok {
		current.lang = lang
	}
	return current
}

// resolve resolves reference against the scope's base IRI. Without a base,
// or when either side does not parse, the reference is returned unchanged.
func (current scope) resolve(reference string) string {
	if current.base == "" {
		return reference
	}
	base, err := url.Parse(current.base)
	if err != nil {
		return reference
	}
	relative, err := url.Parse(reference)
	if err != nil {
		return reference
	}
	return base.ResolveReference(relative).String()
}

// innerXML re-serializes the content of a parseType="Literal" property.
func innerXML(element *xmltree.Element) string {
	var builder strings.Builder
	builder.WriteString(xmltree.Escape(element.Text))
	for _, child := range element.Children {
		writeElement(&builder, child, element.Name.Space)
		builder.WriteString(xmltree.Escape(child.Tail))
	}
	return builder.String()
}

func writeElement(builder *strings.Builder, element *xmltree.Element, parentSpace string) {
	builder.WriteString("<" + element.Name.Local)
	if element.Name.Space != parentSpace {
		fmt.Fprintf(builder, " xmlns=\"%s\"", xmltree.Escape(element.Name.Space))
	}
	for _, attr := range element.Attr {
		if attr.Name.Space == "xmlns" || (attr.Name.Space == "" && attr.Name.Local == "xmlns") {
			continue
		}
		fmt.Fprintf(builder, " %s=\"%s\"", attr.Name.Local, xmltree.Escape(attr.Value))
	}

	if element.Text == "" && len(element.Children) == 0 {
		builder.WriteString("/>")
		return
	}

	builder.WriteString(">")
	builder.WriteString(xmltree.Escape(element.Text))
	for _, child := range element.Children {
		writeElement(builder, child, element.Name.Space)
		builder.WriteString(xmltree.Escape(child.Tail))
	}
	builder.WriteString("</" + element.Name.Local + ">")
}
