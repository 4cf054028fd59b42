package store

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// TermKind classifies an RDF term held in the store.
type TermKind int

const (
	// KindInvalid marks a value that is not a well-formed term.
	KindInvalid TermKind = iota
	// KindIRI is an IRI reference, written <iri>.
	KindIRI
	// KindBlank is a blank node, written _:label.
	KindBlank
	// KindLiteral is a literal, written "text", "text"@lang or "text"^^<datatype>.
	KindLiteral
)

// Terms are stored in their N-Triples lexical form so that the store, the
// serializers and the N-Triples codec share one representation.

// IRI returns the term for an IRI reference.
func IRI(iri string) string {
	return "<" + iri + ">"
}

// Blank returns the term for a blank node label.
func Blank(label string) string {
	return "_:" + label
}

// Literal returns a plain literal term.
func Literal(text string) string {
	return `"` + escapeNTriplesString(text) + `"`
}

// LangLiteral returns a language-tagged literal term. An empty lang yields a
// plain literal.
func LangLiteral(text, lang string) string {
	if lang == "" {
		return Literal(text)
	}
	return Literal(text) + "@" + lang
}

// TypedLiteral returns a datatyped literal term. An empty datatype yields a
// plain literal.
func TypedLiteral(text, datatype string) string {
	if datatype == "" {
		return Literal(text)
	}
	return Literal(text) + "^^" + IRI(datatype)
}

// Kind reports the kind of a term.
func Kind(term string) TermKind {
	switch {
	case strings.HasPrefix(term, "<") && strings.HasSuffix(term, ">") && len(term) >= 2:
		return KindIRI
	case strings.HasPrefix(term, "_:") && len(term) > 2:
		return KindBlank
	case strings.HasPrefix(term, `"`):
		if _, ok := ParseLiteral(term); ok {
			return KindLiteral
		}
	}
	return KindInvalid
}

// IsIRI reports whether term is an IRI reference.
func IsIRI(term string) bool {
	return Kind(term) == KindIRI
}

// IsBlank reports whether term is a blank node.
func IsBlank(term string) bool {
	return Kind(term) == KindBlank
}

// IRIValue returns the IRI inside an IRI term.
func IRIValue(term string) (string, bool) {
	if Kind(term) != KindIRI {
		return "", false
	}
	return term[1 : len(term)-1], true
}

// LiteralValue is a decoded literal term.
type LiteralValue struct {
	Text     string
	Lang     string
	Datatype string
}

// ParseLiteral decodes a literal term.
func ParseLiteral(term string) (LiteralValue, bool) {
	if !strings.HasPrefix(term, `"`) {
		return LiteralValue{}, false
	}

	end := -1
	for index := 1; index < len(term); index++ {
		if term[index] == '\\' {
			index++
			continue
		}
		if term[index] == '"' {
			end = index
			break
		}
	}
	if end < 0 {
		return LiteralValue{}, false
	}

	text, ok := unescapeNTriplesString(term[1:end])
	if !ok {
		return LiteralValue{}, false
	}

	value := LiteralValue{Text: text}
	rest := term[end+1:]
	switch {
	case rest == "":
	case strings.HasPrefix(rest, "@") && len(rest) > 1:
		value.Lang = rest[1:]
	case strings.HasPrefix(rest, "^^"):
		datatype, ok := IRIValue(rest[2:])
		if !ok {
			return LiteralValue{}, false
		}
		value.Datatype = datatype
	default:
		return LiteralValue{}, false
	}

	return value, true
}

// Lexical returns the IRI of an IRI term, the text of a literal and "" for
// blank nodes or invalid terms.
func Lexical(term string) string {
	switch Kind(term) {
	case KindIRI:
		iri, _ := IRIValue(term)
		return iri
	case KindLiteral:
		literal, _ := ParseLiteral(term)
		return literal.Text
	}
	return ""
}

func escapeNTriplesString(text string) string {
	var builder strings.Builder
	builder.Grow(len(text) + len(text)/8)

	for _, char := range text {
		switch char {
		case '\\':
			builder.WriteString(`\\`)
		case '"':
			builder.WriteString(`\"`)
		case '\n':
			builder.WriteString(`\n`)
		case '\r':
			builder.WriteString(`\r`)
		case '\t':
			builder.WriteString(`\t`)
		default:
			builder.WriteRune(char)
		}
	}

	return builder.String()
}

func unescapeNTriplesString(escaped string) (string, bool) {
	if !strings.Contains(escaped, `\`) {
		return escaped, true
	}

	var builder strings.Builder
	builder.Grow(len(escaped))

	for index := 0; index < len(escaped); index++ {
		char := escaped[index]
		if char != '\\' {
			builder.WriteByte(char)
			continue
		}
		index++
		if index >= len(escaped) {
			return "", false
		}
		switch escaped[index] {
		case 't':
			builder.WriteByte('\t')
		case 'b':
			builder.WriteByte('\b')
		case 'n':
			builder.WriteByte('\n')
		case 'r':
			builder.WriteByte('\r')
		case 'f':
			builder.WriteByte('\f')
		case '"', '\'', '\\':
			builder.WriteByte(escaped[index])
		case 'u', 'U':
			width := 4
			if escaped[index] == 'U' {
				width = 8
			}
			if index+1+width > len(escaped) {
				return "", false
			}
			code, err := strconv.ParseUint(escaped[index+1:index+1+width], 16, 32)
			if err != nil || !utf8.ValidRune(rune(code)) {
				return "", false
			}
			builder.WriteRune(rune(code))
			index += width
		default:
			return "", false
		}
	}

	return builder.String(), true
}
