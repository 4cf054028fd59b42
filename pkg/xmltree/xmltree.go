// Package xmltree loads an XML document into an in-memory element tree and
// offers the small set of lookups the ofco commands need: direct children,
// descendants in document order and attribute-filtered children.
package xmltree

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"regexp"

	"golang.org/x/text/encoding/ianaindex"
)

// XMLNamespace is the namespace bound to the reserved xml: prefix.
const XMLNamespace = "http://www.w3.org/XML/1998/namespace"

// Element is one XML element. Names carry the resolved namespace URI in
// Name.Space, not the prefix used in the document.
type Element struct {
	Name     xml.Name
	Attr     []xml.Attr
	Children []*Element

	// Text is the character data before the first child element.
	Text string

	// Tail is the character data after the element's end tag, up to the next
	// sibling or the parent's end tag.
	Tail string
}

// Parse reads a whole document and returns its root element. Entity
// declarations from an internal DOCTYPE subset are honoured.
func Parse(reader io.Reader) (*Element, error) {
	decoder := NewDecoder(reader)

	var stack []*Element
	var root *Element

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse XML: %w", err)
		}

		switch typed := token.(type) {
		case xml.StartElement:
			element := &Element{Name: typed.Name, Attr: append([]xml.Attr(nil), typed.Attr...)}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("failed to parse XML: multiple root elements")
				}
				root = element
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, element)
			}
			stack = append(stack, element)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			parent := stack[len(stack)-1]
			if len(parent.Children) == 0 {
				parent.Text += string(typed)
			} else {
				last := parent.Children[len(parent.Children)-1]
				last.Tail += string(typed)
			}
		case xml.Directive:
			DeclareEntities(decoder, typed)
		}
	}

	if root == nil {
		return nil, fmt.Errorf("failed to parse XML: no root element")
	}

	return root, nil
}

// ParseFile opens and parses the document at path.
func ParseFile(path string) (*Element, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	return Parse(file)
}

// NewDecoder returns a strict xml.Decoder with an empty, writable entity map,
// ready for DeclareEntities. Documents declaring a non UTF-8 encoding, such as
// the ISO-8859-1 Orphanet exports, are transcoded.
func NewDecoder(reader io.Reader) *xml.Decoder {
	decoder := xml.NewDecoder(reader)
	decoder.Entity = map[string]string{}
	decoder.CharsetReader = charsetReader
	return decoder
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	encoding, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	if encoding == nil {
		return nil, fmt.Errorf("unsupported encoding %q", label)
	}
	return encoding.NewDecoder().Reader(input), nil
}

var entityDeclaration = regexp.MustCompile(`<!ENTITY\s+([A-Za-z_][\w.-]*)\s+(?:"([^"]*)"|'([^']*)')\s*>`)

// DeclareEntities registers the general entities declared in a DOCTYPE
// directive (as written by Protégé: <!ENTITY owl "http://...#">) so that
// later references such as &owl; expand.
func DeclareEntities(decoder *xml.Decoder, directive xml.Directive) {
	if decoder.Entity == nil {
		decoder.Entity = map[string]string{}
	}
	for _, match := range entityDeclaration.FindAllStringSubmatch("<!"+string(directive)+">", -1) {
		value := match[2]
		if value == "" {
			value = match[3]
		}
		decoder.Entity[match[1]] = value
	}
}

// Is reports whether the element has the given namespace and local name.
func (element *Element) Is(space, local string) bool {
	return element.Name.Space == space && element.Name.Local == local
}

// AttrValue returns the value of an attribute, or "" when absent.
func (element *Element) AttrValue(space, local string) string {
	value, _ := element.LookupAttr(space, local)
	return value
}

// LookupAttr returns an attribute value and whether it is present.
func (element *Element) LookupAttr(space, local string) (string, bool) {
	for _, attr := range element.Attr {
		if attr.Name.Space == space && attr.Name.Local == local {
			return attr.Value, true
		}
	}
	return "", false
}

// Child returns the first direct child with the given name, or nil.
func (element *Element) Child(space, local string) *Element {
	for _, child := range element.Children {
		if child.Is(space, local) {
			return child
		}
	}
	return nil
}

// Descendant returns the first element below this one, in document order,
// with the given name, or nil.
func (element *Element) Descendant(space, local string) *Element {
	for _, child := range element.Children {
		if child.Is(space, local) {
			return child
		}
		if found := child.Descendant(space, local); found != nil {
			return found
		}
	}
	return nil
}

// Descendants returns every element below this one with the given name, in
// document order.
func (element *Element) Descendants(space, local string) []*Element {
	var matches []*Element
	element.walk(func(candidate *Element) {
		if candidate.Is(space, local) {
			matches = append(matches, candidate)
		}
	})
	return matches
}

func (element *Element) walk(visit func(*Element)) {
	for _, child := range element.Children {
		visit(child)
		child.walk(visit)
	}
}
